// Package llm wraps the text-generation provider behind a small client interface.
// Model tiers let callers trade quality for latency without knowing model names.
package llm

// ModelTier represents the capability level of a model
type ModelTier string

const (
	// TierLite is the fastest and cheapest model
	TierLite ModelTier = "lite"
	// TierStandard is the default for listing copy
	TierStandard ModelTier = "standard"
	// TierAdvanced is the most capable model
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider. It is the only one implemented.
const ProviderGemini Provider = "gemini"

// Sampling defaults for marketing copy. Higher temperature than extraction work because
// variety between regenerations is wanted.
const (
	DefaultTemperature     float32 = 0.7
	DefaultTopP            float32 = 0.9
	DefaultMaxOutputTokens int32   = 500
)

// Config holds the model configuration for the application
type Config struct {
	Provider        Provider
	Models          map[ModelTier]string
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature:     DefaultTemperature,
		TopP:            DefaultTopP,
		MaxOutputTokens: DefaultMaxOutputTokens,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok && model != "" {
		return model
	}
	// Fallback chain: standard, then lite
	if model, ok := c.Models[TierStandard]; ok && model != "" {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of the config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	next := *c
	next.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		next.Models[k] = v
	}
	next.Models[tier] = model
	return &next
}

// ParseTier maps a config string to a tier. Unknown values return TierStandard.
func ParseTier(s string) ModelTier {
	switch ModelTier(s) {
	case TierLite, TierAdvanced:
		return ModelTier(s)
	default:
		return TierStandard
	}
}
