package main

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reference lists and the parameter builder over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		refs, err := loadReferences(cmd.Context())
		if err != nil {
			return err
		}

		router := api.NewRouter(refs, cfg.AppName, log)
		server := &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           router.SetupRoutes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		log.Info().Str("addr", cfg.ListenAddr).Msg("Server started")
		return server.ListenAndServe()
	},
}
