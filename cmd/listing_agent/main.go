// Package main provides the listing_agent CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "listing_agent",
	Short: "Real-estate listing copy generator",
	Long: "listing_agent writes property listing descriptions with Gemini, scores them for " +
		"readability and SEO, and keeps a history of generated copy.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadApp,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalFlags.configPath, "config", "", "Path to a JSON, YAML or TOML config file")
	flags.StringVar(&globalFlags.databaseURL, "db-url", "", "History database URL (overrides DATABASE_URL)")
	flags.StringVar(&globalFlags.apiKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY)")
	flags.StringVar(&globalFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	flags.StringVar(&globalFlags.tier, "tier", "", "Model tier: lite, standard, advanced (overrides MODEL_TIER)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
