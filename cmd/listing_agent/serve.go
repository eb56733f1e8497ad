package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/listing-copywriter/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for generating, scoring and browsing listing descriptions.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT, default 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := app.cfg
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	svc, cleanup, err := newService(context.Background(), cfg, true)
	if err != nil {
		return err
	}
	defer cleanup()

	if !svc.HistoryEnabled() {
		app.logger.Warn("no history database configured; history endpoints will return 503")
	}

	srv := server.New(server.Config{
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		CORSOrigin:   cfg.Server.CORSOrigin,
		RateLimit:    cfg.RateLimit.Limiter(),
	}, svc, app.logger, app.metrics)

	app.logger.Info("starting listing API",
		zap.Int("port", cfg.Server.Port),
		zap.String("tier", cfg.LLM.Tier),
		zap.Bool("history", svc.HistoryEnabled()),
	)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
