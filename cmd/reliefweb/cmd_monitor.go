package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/client"
	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/monitor"
)

var monitorFlags struct {
	country string
	since   time.Duration
	limit   int
	history int
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Check a country for new reports and disasters",
	Long: `Check whether ReliefWeb published reports or disasters for a country
since a given time. Every run writes a message to a file named after the
current time in the monitoring log directory and, when DATABASE_URL is set,
is recorded in PostgreSQL.`,
	RunE: runMonitor,
}

func init() {
	f := monitorCmd.Flags()
	f.StringVar(&monitorFlags.country, "country", "", "country to watch (default MONITOR_COUNTRY)")
	f.DurationVar(&monitorFlags.since, "since", 24*time.Hour, "look back this far")
	f.IntVar(&monitorFlags.limit, "limit", 100, "maximum number of items per endpoint")
	f.IntVar(&monitorFlags.history, "history", 0, "print the last N recorded runs instead of running")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var store *monitor.Store
	if cfg.DatabaseURL != "" {
		db, err := monitor.Connect(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		store = monitor.NewStore(db)
		if err := store.Migrate(ctx); err != nil {
			return err
		}
	}

	if monitorFlags.history > 0 {
		if store == nil {
			log.Warn().Msg("DATABASE_URL is not set, no history available")
			return nil
		}
		runs, err := store.Recent(ctx, monitorFlags.history)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	refs, err := loadReferences(ctx)
	if err != nil {
		return err
	}

	country := monitorFlags.country
	if country == "" {
		country = cfg.MonitorCountry
	}

	var recorder monitor.Recorder
	if store != nil {
		recorder = store
	}
	m := monitor.New(client.New(cfg.Client(), log), refs.Countries, recorder, log)

	_, err = m.Run(ctx, monitor.Config{
		AppName: cfg.AppName,
		Country: country,
		Since:   time.Now().UTC().Add(-monitorFlags.since),
		Limit:   monitorFlags.limit,
		LogDir:  cfg.MonitorLogDir,
	})
	return err
}
