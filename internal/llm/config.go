// Package llm provides the optional text-generation collaborator that adds concrete
// examples to profile suggestions.
package llm

// ModelTier represents the capability level of a model
type ModelTier string

const (
	// TierLite is for short, templated rewrites
	TierLite ModelTier = "lite"
	// TierStandard is for rewrites that need more context
	TierStandard ModelTier = "standard"
)

// Config holds the model configuration of the enhancer
type Config struct {
	Models      map[ModelTier]string
	Temperature float32
	// MaxExamples caps how many suggestions are sent for enhancement in one request.
	MaxExamples int
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		Temperature: 0.2,
		MaxExamples: 10,
	}
}

// ModelFor returns the model name for a tier, falling back to the lite model.
func (c *Config) ModelFor(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok && model != "" {
		return model
	}
	return c.Models[TierLite]
}
