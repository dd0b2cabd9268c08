package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/params"
)

func testParameters(t *testing.T) *params.Parameters {
	t.Helper()
	country, err := params.NewCondition(params.FieldPrimaryCountry, params.Text("Syrian Arab Republic"))
	require.NoError(t, err)
	since, err := params.NewCondition(params.FieldDateCreated,
		params.Since(time.Date(2023, 2, 5, 12, 0, 0, 0, time.FixedZone("", 3*60*60))))
	require.NoError(t, err)
	f, err := params.NewFilter("", country, since)
	require.NoError(t, err)

	p, err := params.NewParameters("test-app", params.WithLimit(5), params.WithFilter(f))
	require.NoError(t, err)
	return p
}

func TestClient_Search(t *testing.T) {
	var rawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/reports", r.URL.Path)
		rawQuery = r.URL.RawQuery

		q := r.URL.Query()
		assert.Equal(t, "test-app", q.Get("appname"))
		assert.Equal(t, "Syrian Arab Republic", q.Get("filter[conditions][0][value]"))
		assert.Equal(t, "2023-02-05T12:00:00+03:00", q.Get("filter[conditions][1][value][from]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":2,"totalCount":40,"data":[{"id":"3951302","fields":{"title":"Flash update"}},{"id":3951303}]}`))
	}))
	defer server.Close()

	c := New(Config{BaseURI: server.URL + "/v1/", RetryMax: 0}, zerolog.Nop())
	resp, err := c.Search(context.Background(), Reports, testParameters(t))
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 40, resp.TotalCount)
	require.Len(t, resp.Data, 2)
	assert.EqualValues(t, "3951302", resp.Data[0].ID)
	assert.Equal(t, "Flash update", resp.Data[0].Fields["title"])
	assert.EqualValues(t, "3951303", resp.Data[1].ID)
	assert.NotEmpty(t, resp.Raw)
	assert.Contains(t, rawQuery, "Syrian%20Arab%20Republic")
	assert.Contains(t, rawQuery, "%2B03:00")
}

func TestClient_SearchStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid filter"}}`))
	}))
	defer server.Close()

	c := New(Config{BaseURI: server.URL}, zerolog.Nop())
	_, err := c.Search(context.Background(), Disasters, testParameters(t))

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "invalid filter")
}

func TestClient_SearchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"count":0,"data":[]}`))
	}))
	defer server.Close()

	c := New(Config{BaseURI: server.URL, RetryMax: 2}, zerolog.Nop())
	resp, err := c.Search(context.Background(), Reports, testParameters(t))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Count)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_SearchRejectsUnvalidatedParameters(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	c := New(Config{BaseURI: server.URL}, zerolog.Nop())
	_, err := c.Search(context.Background(), Reports, &params.Parameters{})

	var verr *params.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "appname", verr.Field)
	assert.Zero(t, calls.Load())
}

func TestClient_URL(t *testing.T) {
	c := New(Config{BaseURI: "https://api.reliefweb.int/v1"}, zerolog.Nop())
	p, err := params.NewParameters("app")
	require.NoError(t, err)

	assert.Equal(t, "https://api.reliefweb.int/v1/disasters?appname=app&limit=10&preset=minimal", c.URL(Disasters, p))
}

func TestRequote(t *testing.T) {
	assert.Equal(t, "filter[value]=T%C3%BCrkiye", requote("filter[value]=Türkiye"))
	assert.Equal(t, "query[value]=a%20b&x=1%2B2", requote("query[value]=a b&x=1%2B2"))
}

func TestParseEndpoint(t *testing.T) {
	e, err := ParseEndpoint("Reports")
	require.NoError(t, err)
	assert.Equal(t, Reports, e)

	_, err = ParseEndpoint("jobs")
	require.Error(t, err)
}
