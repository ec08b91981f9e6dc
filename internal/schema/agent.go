package schema

import "context"

type AgentSettings struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

func NewAgentSettings(model string, temperature float64, maxTokens int) AgentSettings {
	return AgentSettings{
		Model:       model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
}

// Exchanger runs one user message through a dialogue session and returns the
// assistant's reply. Implemented by agent.Session.
type Exchanger interface {
	Respond(ctx context.Context, content string) (string, error)
}
