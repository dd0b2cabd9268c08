package monitor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/client"
	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/params"
)

// Searcher runs built parameters against a ReliefWeb endpoint.
type Searcher interface {
	Search(ctx context.Context, endpoint client.Endpoint, p *params.Parameters) (*client.Response, error)
}

// Recorder persists monitoring results.
type Recorder interface {
	Save(ctx context.Context, r *Result) error
}

// Config describes one monitoring run.
type Config struct {
	AppName string
	Country string
	Since   time.Time // only items created after this instant count
	Limit   int
	LogDir  string
}

// Result is the outcome of a monitoring run.
type Result struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Country       string    `db:"country" json:"country"`
	Since         time.Time `db:"since" json:"since"`
	ReportCount   int       `db:"report_count" json:"reportCount"`
	DisasterCount int       `db:"disaster_count" json:"disasterCount"`
	Alert         bool      `db:"alert" json:"alert"`
	Message       string    `db:"message" json:"message"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	LogFile       string    `db:"-" json:"logFile,omitempty"`
}

// Fields requested per endpoint. Disasters carry primary_type where reports
// carry disaster_type.
var (
	reportFields   = []string{"body", "primary_country", "date", "disaster_type"}
	disasterFields = []string{"primary_country", "date", "primary_type"}
)

const (
	okMessage    = "Everything is ok"
	alertMessage = "Warning! New ReliefWeb items for %s: %d reports, %d disasters"
)
