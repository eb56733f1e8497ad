package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/listing-copywriter/internal/config"
	"github.com/jonathan/listing-copywriter/internal/db"
	"github.com/jonathan/listing-copywriter/internal/generation"
	"github.com/jonathan/listing-copywriter/internal/llm"
	"github.com/jonathan/listing-copywriter/internal/observability"
	"github.com/jonathan/listing-copywriter/internal/pipeline"
)

// globalFlags holds the persistent flags shared by every command
var globalFlags struct {
	configPath  string
	databaseURL string
	apiKey      string
	logLevel    string
	tier        string
}

// app is the state built once per invocation by loadApp
var app struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *observability.Metrics
}

// loadApp reads configuration, applies flag overrides and builds the logger
func loadApp(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(globalFlags.configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := observability.NewLogger(observability.LogConfig{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	app.cfg = cfg
	app.logger = logger
	app.metrics = observability.NewMetrics()
	return nil
}

func applyFlagOverrides(cfg *config.Config) {
	if globalFlags.databaseURL != "" {
		cfg.Database.URL = globalFlags.databaseURL
	}
	if globalFlags.apiKey != "" {
		cfg.LLM.APIKey = globalFlags.apiKey
	}
	if globalFlags.logLevel != "" {
		cfg.Log.Level = globalFlags.logLevel
	}
	if globalFlags.tier != "" {
		cfg.LLM.Tier = globalFlags.tier
	}
}

// openStore opens the history store, or returns nil when no database is configured
func openStore(ctx context.Context, cfg *config.Config) (db.Store, error) {
	if cfg.Database.URL == "" {
		return nil, nil
	}
	store, err := db.Open(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to prepare history database: %w", err)
	}
	return store, nil
}

// requireStore is openStore for commands that only work with history
func requireStore(ctx context.Context, cfg *config.Config) (db.Store, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("no history database configured (set DATABASE_URL or use --db-url)")
	}
	return store, nil
}

func llmConfig(cfg *config.Config) *llm.Config {
	lc := llm.DefaultConfig()
	lc.Temperature = cfg.LLM.Temperature
	lc.TopP = cfg.LLM.TopP
	lc.MaxOutputTokens = cfg.LLM.MaxOutputTokens
	return lc
}

func generationOptions(cfg *config.Config) generation.Options {
	return generation.Options{
		MaxAttempts:     cfg.Generation.MaxAttempts,
		InitialInterval: cfg.Generation.InitialInterval,
		AttemptTimeout:  cfg.Generation.AttemptTimeout,
		Tier:            llm.ParseTier(cfg.LLM.Tier),
	}
}

// newGenerator builds a Gemini-backed generator. The returned close func releases the client.
func newGenerator(ctx context.Context, cfg *config.Config) (*generation.Generator, func(), error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, nil, err
	}
	client, err := llm.NewClient(ctx, llmConfig(cfg), cfg.LLM.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	gen := generation.NewGenerator(client, generationOptions(cfg), app.logger, app.metrics)
	return gen, func() { client.Close() }, nil //nolint:errcheck
}

// newService wires the generator and optional history store into a pipeline service
func newService(ctx context.Context, cfg *config.Config, withHistory bool) (*pipeline.Service, func(), error) {
	gen, closeGen, err := newGenerator(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	var store db.Store
	if withHistory {
		store, err = openStore(ctx, cfg)
		if err != nil {
			closeGen()
			return nil, nil, err
		}
	}

	cleanup := func() {
		closeGen()
		if store != nil {
			store.Close() //nolint:errcheck
		}
		app.logger.Sync() //nolint:errcheck
	}
	return pipeline.NewService(gen, store, app.logger, app.metrics), cleanup, nil
}
