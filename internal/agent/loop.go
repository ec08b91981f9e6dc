package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/weatherbot/weatherbot/internal/errorsx"
	"github.com/weatherbot/weatherbot/internal/schema"
	"github.com/weatherbot/weatherbot/internal/shared/llmutils"
)

// Dispatcher is the tool side of a Session: the declarations offered to the
// model and the routing of a requested call to its executor.
// *tools.Registry satisfies it.
type Dispatcher interface {
	Definitions() []map[string]any
	Dispatch(ctx context.Context, call schema.ToolCall) (string, error)
}

// ExchangeResult is the outcome of one user turn.
type ExchangeResult struct {
	Reply     string
	ToolsUsed []string
	// Degraded is set when the model asked for a second tool call after the
	// tool result; the request is rendered as text instead of dispatched.
	Degraded bool
}

// Session owns one conversation transcript and runs the dispatch loop on it.
// A Session is not safe for concurrent use: callers serialise exchanges.
type Session struct {
	id           string
	provider     schema.LLMProvider
	tools        Dispatcher
	settings     schema.AgentSettings
	systemPrompt string
	transcript   schema.Messages
}

// NewSession creates a Session whose transcript starts with systemPrompt.
func NewSession(provider schema.LLMProvider, tools Dispatcher, settings schema.AgentSettings, systemPrompt string) *Session {
	s := &Session{
		id:           uuid.NewString(),
		provider:     provider,
		tools:        tools,
		settings:     settings,
		systemPrompt: systemPrompt,
	}
	s.Reset()
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() schema.Messages { return s.transcript.Clone() }

// Reset discards every turn except the system instruction.
func (s *Session) Reset() {
	s.transcript = schema.NewMessages()
	if s.systemPrompt != "" {
		s.transcript.AddSystem(s.systemPrompt)
	}
}

// Exchange runs one user turn through the dispatch loop:
//
//	user turn → completion with tools
//	  reply       → assistant turn, done
//	  action call → assistant turn with the call → dispatch → tool turn
//	                → completion without tools → assistant turn, done
//
// Completion failures and unknown actions are returned; turns appended
// before the failure stay in the transcript. Executor failures
// are reported to the model through the tool turn instead.
func (s *Session) Exchange(ctx context.Context, userText string) (ExchangeResult, error) {
	slog.Info("Processing message", "session", s.id, "content", llmutils.Truncate(userText, 80))

	s.transcript.AddUser(userText)
	opts := schema.NewChatOptions(s.settings.Model, s.settings.MaxTokens, s.settings.Temperature)

	first, err := s.provider.Complete(ctx, s.transcript, s.tools.Definitions(), opts)
	if err != nil {
		slog.Error("LLM error", "session", s.id, "reason", errorsx.Reason(err), "err", err)
		return ExchangeResult{}, fmt.Errorf("completion: %w", err)
	}

	if !first.IsToolCall() {
		reply := llmutils.StripThink(first.Text)
		s.transcript.AddAssistant(reply, nil)
		slog.Info("Response", "session", s.id, "length", len(reply))
		return ExchangeResult{Reply: reply}, nil
	}

	call := first.ToolCall
	s.transcript.AddAssistant(llmutils.StripThink(first.Text), []schema.ToolCall{call})
	result := ExchangeResult{ToolsUsed: []string{call.Name}}

	argsJSON, _ := json.Marshal(call.Arguments)
	slog.Info("Tool call", "session", s.id, "name", call.Name, "args", llmutils.Truncate(string(argsJSON), 200))

	output, err := s.tools.Dispatch(ctx, call)
	if err != nil {
		if errorsx.HasReason(err, errorsx.ReasonUnknownAction) {
			slog.Error("Unknown tool requested", "session", s.id, "name", call.Name)
			return result, err
		}
		slog.Warn("Tool failed", "session", s.id, "name", call.Name, "reason", errorsx.Reason(err), "err", err)
		output = "Error: " + err.Error()
	}
	s.transcript.AddToolResult(call.ID, call.Name, output)

	second, err := s.provider.Complete(ctx, s.transcript, nil, opts)
	if err != nil {
		slog.Error("LLM error", "session", s.id, "reason", errorsx.Reason(err), "err", err)
		return result, fmt.Errorf("completion after %s: %w", call.Name, err)
	}

	if second.IsToolCall() {
		reply := degradedReply(second.ToolCall)
		slog.Warn("Second tool call not dispatched", "session", s.id, "name", second.ToolCall.Name, "degraded", true)
		s.transcript.AddAssistant(reply, nil)
		result.Reply = reply
		result.Degraded = true
		return result, nil
	}

	result.Reply = llmutils.StripThink(second.Text)
	s.transcript.AddAssistant(result.Reply, nil)
	slog.Info("Response", "session", s.id, "length", len(result.Reply), "tools", result.ToolsUsed)
	return result, nil
}

// Respond implements schema.Exchanger: slash commands are answered locally,
// anything else goes through Exchange.
func (s *Session) Respond(ctx context.Context, content string) (string, error) {
	if reply, ok := s.handleSlashCommand(content); ok {
		return reply, nil
	}
	res, err := s.Exchange(ctx, content)
	if err != nil {
		return "", err
	}
	return llmutils.StringOrDefault(res.Reply, "I've completed processing but have no response to give."), nil
}

func degradedReply(call schema.ToolCall) string {
	return fmt.Sprintf("I wanted to look up more with %s but can only use one tool per message. Could you ask me that separately?",
		llmutils.FormatCall(call))
}
