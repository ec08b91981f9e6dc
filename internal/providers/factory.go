package providers

import (
	"time"

	"github.com/weatherbot/weatherbot/internal/schema"
)

// Params are the raw values needed to construct a schema.LLMProvider.
// Extracted from config.Config by the caller to avoid an import cycle.
type Params struct {
	APIKey       string
	APIBase      string
	ExtraHeaders map[string]string
	DefaultModel string
	ProviderName string // registry name, e.g. "openrouter", "openai"
	Timeout      time.Duration
}

// New creates the completion client for the given params. Every supported
// backend speaks the OpenAI chat-completions protocol.
func New(p Params) schema.LLMProvider {
	return NewOpenAIProvider(p.APIKey, p.APIBase, p.DefaultModel, p.ProviderName, p.ExtraHeaders, p.Timeout)
}
