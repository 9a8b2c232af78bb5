// Package llm wraps the text generation providers the drafting service can
// run against. Models are addressed by tier rather than by name so callers
// stay provider-agnostic.
package llm

// ModelTier names a capability level rather than a concrete model.
type ModelTier string

const (
	// TierLite covers extraction and classification work.
	TierLite ModelTier = "lite"
	// TierStandard covers structured output and short drafts.
	TierStandard ModelTier = "standard"
	// TierAdvanced covers personalized long-form drafting.
	TierAdvanced ModelTier = "advanced"
)

// Provider selects the backing generation service.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
	// ProviderREST is a self-hosted generation endpoint speaking the
	// {prompt, systemPrompt} -> {result} wire format.
	ProviderREST Provider = "rest"
)

// Config maps tiers to provider model names.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	// Endpoint is the generation URL for ProviderREST; ignored otherwise.
	Endpoint string
}

// DefaultConfig returns the default configuration (currently Gemini).
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the stock Gemini tier mapping.
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// DefaultOpenAIConfig returns the stock OpenAI tier mapping.
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelTier]string{
			TierLite:     "gpt-4o-mini",
			TierStandard: "gpt-4o-mini",
			TierAdvanced: "gpt-4o",
		},
	}
}

// GetModel resolves a tier to a model name, degrading to standard and then
// lite when the requested tier has no mapping. Returns "" when nothing is
// configured.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model, ok := c.Models[t]; ok {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of the config with one tier remapped.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	models := make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		models[k] = v
	}
	models[tier] = model
	return &Config{Provider: c.Provider, Models: models, Endpoint: c.Endpoint}
}
