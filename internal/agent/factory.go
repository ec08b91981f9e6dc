package agent

import (
	"github.com/weatherbot/weatherbot/internal/schema"
)

// Factory creates Sessions that share one provider and tool registry.
// Created sessions own nothing but their transcript.
type Factory struct {
	provider schema.LLMProvider
	tools    Dispatcher
	settings schema.AgentSettings
	prompt   *PromptContext
}

// NewFactory constructs a Factory.
func NewFactory(provider schema.LLMProvider, tools Dispatcher, settings schema.AgentSettings, prompt *PromptContext) *Factory {
	return &Factory{
		provider: provider,
		tools:    tools,
		settings: settings,
		prompt:   prompt,
	}
}

// NewSession starts a fresh conversation with the current system prompt.
func (f *Factory) NewSession() *Session {
	return NewSession(f.provider, f.tools, f.settings, f.prompt.BuildSystemPrompt())
}

// NewExchanger is NewSession typed for callers that only need Respond.
func (f *Factory) NewExchanger() schema.Exchanger {
	return f.NewSession()
}
