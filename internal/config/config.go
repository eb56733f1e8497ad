// Package config loads application settings from an optional config file,
// environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/listing-copywriter/internal/server/ratelimit"
)

// Config is the full application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Generation GenerationConfig `mapstructure:"generation"`
	Log        LogConfig        `mapstructure:"log"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORSOrigin   string        `mapstructure:"cors_origin"`
}

// DatabaseConfig points at the history store. An empty URL disables history.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// LLMConfig configures the Gemini client.
type LLMConfig struct {
	APIKey          string  `mapstructure:"api_key"`
	Tier            string  `mapstructure:"tier"`
	Temperature     float32 `mapstructure:"temperature"`
	TopP            float32 `mapstructure:"top_p"`
	MaxOutputTokens int32   `mapstructure:"max_output_tokens"`
}

// GenerationConfig controls the retry policy around the model call.
type GenerationConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	AttemptTimeout  time.Duration `mapstructure:"attempt_timeout"`
}

// LogConfig selects the log level and encoding.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RateLimitConfig configures the HTTP rate limiter.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	GenerateLimit   int           `mapstructure:"generate_limit"`
	GenerateWindow  time.Duration `mapstructure:"generate_window"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"server.port":                 "PORT",
	"server.cors_origin":          "CORS_ORIGIN",
	"database.url":                "DATABASE_URL",
	"llm.api_key":                 "GEMINI_API_KEY",
	"llm.tier":                    "MODEL_TIER",
	"llm.temperature":             "LLM_TEMPERATURE",
	"generation.max_attempts":     "GENERATION_MAX_ATTEMPTS",
	"generation.attempt_timeout":  "GENERATION_ATTEMPT_TIMEOUT",
	"log.level":                   "LOG_LEVEL",
	"log.format":                  "LOG_FORMAT",
	"rate_limit.enabled":          "RATE_LIMIT_ENABLED",
	"rate_limit.generate_limit":   "RATE_LIMIT_GENERATE_LIMIT",
	"rate_limit.generate_window":  "RATE_LIMIT_GENERATE_WINDOW",
	"rate_limit.default_limit":    "RATE_LIMIT_DEFAULT_LIMIT",
	"rate_limit.default_window":   "RATE_LIMIT_DEFAULT_WINDOW",
	"rate_limit.cleanup_interval": "RATE_LIMIT_CLEANUP_INTERVAL",
	"rate_limit.whitelist":        "RATE_LIMIT_WHITELIST",
	"rate_limit.blacklist":        "RATE_LIMIT_BLACKLIST",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.cors_origin", "*")

	v.SetDefault("database.url", "")

	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.tier", "standard")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.top_p", 0.9)
	v.SetDefault("llm.max_output_tokens", 500)

	v.SetDefault("generation.max_attempts", 3)
	v.SetDefault("generation.initial_interval", 2*time.Second)
	v.SetDefault("generation.attempt_timeout", 30*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.generate_limit", 30)
	v.SetDefault("rate_limit.generate_window", time.Hour)
	v.SetDefault("rate_limit.default_limit", 1000)
	v.SetDefault("rate_limit.default_window", time.Minute)
	v.SetDefault("rate_limit.cleanup_interval", 5*time.Minute)
	v.SetDefault("rate_limit.whitelist", []string{})
	v.SetDefault("rate_limit.blacklist", []string{})
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	return v, nil
}

// Load reads path (JSON, YAML or TOML by extension) when it is non-empty,
// applies environment overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.RateLimit.Whitelist = splitList(cfg.RateLimit.Whitelist)
	cfg.RateLimit.Blacklist = splitList(cfg.RateLimit.Blacklist)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// splitList flattens comma separated entries, since env values arrive as
// a single string.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks value ranges. It does not require an API key since
// commands such as score and history never call the model.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	switch c.LLM.Tier {
	case "lite", "standard", "advanced":
	default:
		errs = append(errs, fmt.Errorf("llm.tier must be lite, standard or advanced, got %q", c.LLM.Tier))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("llm.temperature must be between 0 and 2, got %v", c.LLM.Temperature))
	}
	if c.LLM.TopP < 0 || c.LLM.TopP > 1 {
		errs = append(errs, fmt.Errorf("llm.top_p must be between 0 and 1, got %v", c.LLM.TopP))
	}
	if c.LLM.MaxOutputTokens <= 0 {
		errs = append(errs, fmt.Errorf("llm.max_output_tokens must be positive"))
	}
	if c.Generation.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("generation.max_attempts must be at least 1"))
	}
	if c.Generation.InitialInterval < 0 || c.Generation.AttemptTimeout < 0 {
		errs = append(errs, fmt.Errorf("generation intervals must be non-negative"))
	}
	if c.RateLimit.GenerateLimit < 0 || c.RateLimit.DefaultLimit < 0 {
		errs = append(errs, fmt.Errorf("rate_limit limits must be non-negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config error: %w", errors.Join(errs...))
	}
	return nil
}

// RequireAPIKey returns an error when no Gemini key is configured.
func (c *Config) RequireAPIKey() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set (use --api-key, the config file or the environment)")
	}
	return nil
}

// Limiter converts the settings into a rate limiter configuration.
func (c RateLimitConfig) Limiter() *ratelimit.Config {
	rc := ratelimit.DefaultConfig()
	rc.Enabled = c.Enabled
	rc.CleanupInterval = c.CleanupInterval

	generate := rc.Tiers[ratelimit.TierGenerate]
	generate.Limit, generate.Window = c.GenerateLimit, c.GenerateWindow
	rc.Tiers[ratelimit.TierGenerate] = generate

	def := rc.Tiers[ratelimit.TierDefault]
	def.Limit, def.Window = c.DefaultLimit, c.DefaultWindow
	rc.Tiers[ratelimit.TierDefault] = def

	for _, ip := range c.Whitelist {
		rc.Whitelist[ip] = true
	}
	for _, ip := range c.Blacklist {
		rc.Blacklist[ip] = true
	}
	return rc
}
