package schema

import "context"

// ChatOptions configures a single LLM chat request.
type ChatOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

func NewChatOptions(model string, maxTokens int, temperature float64) ChatOptions {
	return ChatOptions{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

// DecisionKind tags a Decision.
type DecisionKind int

const (
	DecisionReply DecisionKind = iota
	DecisionToolCall
)

func (k DecisionKind) String() string {
	if k == DecisionToolCall {
		return "tool_call"
	}
	return "reply"
}

// Decision is the model's structured output: either a final reply or a
// request to invoke one declared tool.
type Decision struct {
	Kind     DecisionKind
	Text     string   // DecisionReply
	ToolCall ToolCall // DecisionToolCall
	Usage    map[string]int
}

// Reply builds a reply Decision.
func Reply(text string) Decision {
	return Decision{Kind: DecisionReply, Text: text}
}

// ActionCall builds a tool-call Decision.
func ActionCall(call ToolCall) Decision {
	return Decision{Kind: DecisionToolCall, ToolCall: call}
}

// IsToolCall reports whether the decision requests a tool.
func (d Decision) IsToolCall() bool { return d.Kind == DecisionToolCall }

// LLMProvider is the completion client every LLM backend must satisfy.
// tools may be empty, in which case the model cannot request a tool.
type LLMProvider interface {
	Complete(ctx context.Context, messages Messages, tools []map[string]any, opts ChatOptions) (Decision, error)
	DefaultModel() string
}
