package monitor

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(sqlx.NewDb(db, "postgres")), mock
}

func TestStore_Migrate(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS monitor_runs")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Save(t *testing.T) {
	store, mock := newMockStore(t)
	run := &Result{
		ID:            uuid.New(),
		Country:       "Haiti",
		Since:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ReportCount:   2,
		DisasterCount: 1,
		Alert:         true,
		Message:       "Warning!",
		CreatedAt:     time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO monitor_runs")).
		WithArgs(run.ID.String(), run.Country, run.Since, run.ReportCount, run.DisasterCount, run.Alert, run.Message, run.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Save(context.Background(), run))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO monitor_runs")).
		WillReturnError(assert.AnError)

	err := store.Save(context.Background(), &Result{ID: uuid.New()})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestStore_Recent(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	created := time.Date(2024, 3, 2, 9, 45, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "country", "since", "report_count", "disaster_count", "alert", "message", "created_at"}).
		AddRow(id.String(), "Haiti", created.Add(-time.Hour), 0, 0, false, "Everything is ok", created)
	mock.ExpectQuery(regexp.QuoteMeta("FROM monitor_runs")).WithArgs(5).WillReturnRows(rows)

	runs, err := store.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, "Haiti", runs[0].Country)
	assert.False(t, runs[0].Alert)
	assert.Equal(t, created, runs[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
