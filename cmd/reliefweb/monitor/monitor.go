package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/client"
	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/output"
	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/params"
	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/reference"
)

// Monitor checks whether new reports or disasters were published for a
// country and leaves a log file for every run.
type Monitor struct {
	searcher  Searcher
	countries reference.Set
	store     Recorder
	log       zerolog.Logger
	now       func() time.Time
}

// New creates a Monitor. store may be nil.
func New(searcher Searcher, countries reference.Set, store Recorder, log zerolog.Logger) *Monitor {
	return &Monitor{
		searcher:  searcher,
		countries: countries,
		store:     store,
		log:       log,
		now:       time.Now,
	}
}

// BuildParameters returns the reports and disasters requests of a run.
func BuildParameters(countries reference.Set, cfg Config) (reports, disasters *params.Parameters, err error) {
	country, err := params.NewCountryCondition(countries, params.Text(cfg.Country))
	if err != nil {
		return nil, nil, err
	}
	created, err := params.NewCondition(params.FieldDateCreated, params.Since(cfg.Since))
	if err != nil {
		return nil, nil, err
	}
	filter, err := params.NewFilter(params.OperatorAnd, country, created)
	if err != nil {
		return nil, nil, err
	}

	limit := cfg.Limit
	if limit == 0 {
		limit = 100
	}

	reports, err = params.NewParameters(cfg.AppName,
		params.WithLimit(limit),
		params.WithFilter(filter),
		params.WithFields(params.NewFields(reportFields, nil)),
	)
	if err != nil {
		return nil, nil, err
	}
	disasters, err = params.NewParameters(cfg.AppName,
		params.WithLimit(limit),
		params.WithFilter(filter),
		params.WithFields(params.NewFields(disasterFields, nil)),
	)
	if err != nil {
		return nil, nil, err
	}
	return reports, disasters, nil
}

// Run queries both endpoints, writes <LogDir>/<MM-DD_HH-MM>.txt and records
// the result when a store is configured.
func (m *Monitor) Run(ctx context.Context, cfg Config) (*Result, error) {
	reportParams, disasterParams, err := BuildParameters(m.countries, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build monitoring parameters: %w", err)
	}

	reports, err := m.searcher.Search(ctx, client.Reports, reportParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search reports: %w", err)
	}
	disasters, err := m.searcher.Search(ctx, client.Disasters, disasterParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search disasters: %w", err)
	}

	now := m.now()
	result := &Result{
		ID:            uuid.New(),
		Country:       cfg.Country,
		Since:         cfg.Since,
		ReportCount:   reports.Count,
		DisasterCount: disasters.Count,
		CreatedAt:     now,
	}
	result.Alert = result.ReportCount > 0 || result.DisasterCount > 0
	if result.Alert {
		result.Message = fmt.Sprintf(alertMessage, cfg.Country, result.ReportCount, result.DisasterCount)
	} else {
		result.Message = okMessage
	}

	result.LogFile, err = output.WriteText(cfg.LogDir, now.Format("01-02_15-04")+".txt", result.Message)
	if err != nil {
		return nil, err
	}

	if m.store != nil {
		if err := m.store.Save(ctx, result); err != nil {
			return nil, fmt.Errorf("failed to record monitoring run: %w", err)
		}
	}

	event := m.log.Info()
	if result.Alert {
		event = m.log.Warn()
	}
	event.
		Str("country", result.Country).
		Int("reports", result.ReportCount).
		Int("disasters", result.DisasterCount).
		Str("logFile", result.LogFile).
		Msg(result.Message)

	return result, nil
}
