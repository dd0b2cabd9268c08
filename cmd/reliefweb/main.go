package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/client"
	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/config"
	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/reference"
)

var (
	cfg     config.Config
	log     zerolog.Logger
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "reliefweb",
	Short: "Build and run ReliefWeb API searches",
	Long: `reliefweb builds ReliefWeb API query strings from typed parameters,
validates countries and disaster types against the reference lists and
runs the searches.

Available commands:
  search     - Run one search against an endpoint
  monitor    - Check a country for new reports and disasters
  references - Print the country or disaster type reference lists
  serve      - Serve the reference lists and the parameter builder over HTTP`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(envFile); err != nil {
			return err
		}
		log = newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "environment file to load")
	rootCmd.AddCommand(searchCmd, monitorCmd, referencesCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(out io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = out })).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
}

// loadReferences loads the reference lists through the retrying transport.
func loadReferences(ctx context.Context) (*reference.ReferenceSet, error) {
	refCfg := cfg.Reference()
	refCfg.HTTPClient = client.NewHTTPClient(cfg.Client(), log)

	loader, err := reference.NewLoader(refCfg, log)
	if err != nil {
		return nil, err
	}
	return loader.LoadAll(ctx)
}
