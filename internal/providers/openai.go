package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/weatherbot/weatherbot/internal/errorsx"
	"github.com/weatherbot/weatherbot/internal/schema"
	"github.com/weatherbot/weatherbot/internal/shared/llmutils"
)

// ErrEmptyTranscript is returned when Complete is called without any messages.
var ErrEmptyTranscript = errors.New("transcript must contain at least one message")

// OpenAIProvider makes direct HTTP calls to any OpenAI-compatible
// chat-completions endpoint.
type OpenAIProvider struct {
	apiKey       string
	apiBase      string
	defaultModel string
	extraHeaders map[string]string
	gateway      *ProviderSpec // non-nil for gateway/local providers
	spec         *ProviderSpec // non-nil for standard providers
	httpClient   *http.Client
}

// NewOpenAIProvider constructs a provider from raw config values.
// The caller extracts these from config.Config to avoid an import cycle.
// A missing apiKey is not an error here; it is reported by Complete.
func NewOpenAIProvider(
	apiKey, apiBase, defaultModel, providerName string,
	extraHeaders map[string]string,
	timeout time.Duration,
) *OpenAIProvider {
	gateway := FindGateway(providerName, apiKey, apiBase)

	var spec *ProviderSpec
	if gateway == nil {
		spec = FindByModel(defaultModel)
		if spec == nil {
			spec = FindByName(providerName)
		}
	}

	// Resolve effective API base.
	effectiveBase := apiBase
	if effectiveBase == "" {
		if gateway != nil && gateway.DefaultAPIBase != "" {
			effectiveBase = gateway.DefaultAPIBase
		} else if spec != nil && spec.DefaultAPIBase != "" {
			effectiveBase = spec.DefaultAPIBase
		} else {
			effectiveBase = "https://api.openai.com/v1"
		}
	}
	effectiveBase = strings.TrimRight(effectiveBase, "/")

	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &OpenAIProvider{
		apiKey:       apiKey,
		apiBase:      effectiveBase,
		defaultModel: defaultModel,
		extraHeaders: extraHeaders,
		gateway:      gateway,
		spec:         spec,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

func (p *OpenAIProvider) DefaultModel() string { return p.defaultModel }

// APIBase returns the resolved endpoint base URL.
func (p *OpenAIProvider) APIBase() string { return p.apiBase }

// Complete implements schema.LLMProvider. It performs exactly one HTTP call
// and never retries. Network failures carry errorsx.ReasonTransport; error
// statuses and bodies no Decision can be parsed from carry
// errorsx.ReasonUpstream.
func (p *OpenAIProvider) Complete(
	ctx context.Context,
	messages schema.Messages,
	tools []map[string]any,
	opts schema.ChatOptions,
) (schema.Decision, error) {
	if messages.Len() == 0 {
		return schema.Decision{}, ErrEmptyTranscript
	}

	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}
	if p.apiKey == "" && (p.gateway == nil || !p.gateway.IsLocal) {
		return schema.Decision{}, errorsx.Errorf(errorsx.ReasonConfig, "no API key configured for model %q", model)
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	model = p.wireModel(model)

	body := map[string]any{
		"model":       model,
		"messages":    sanitizeMessages(messages),
		"max_tokens":  maxTokens,
		"temperature": opts.Temperature,
	}
	if len(tools) > 0 {
		body["tools"] = tools
		body["tool_choice"] = "auto"
	}
	for k, v := range p.modelOverrides(model) {
		body[k] = v
	}

	data, err := json.Marshal(body)
	if err != nil {
		return schema.Decision{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.apiBase+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return schema.Decision{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	for k, v := range p.extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return schema.Decision{}, errorsx.Wrap(fmt.Errorf("HTTP request: %w", err), errorsx.ReasonTransport)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return schema.Decision{}, errorsx.Wrap(fmt.Errorf("read response: %w", err), errorsx.ReasonTransport)
	}
	if resp.StatusCode != http.StatusOK {
		return schema.Decision{}, errorsx.Errorf(errorsx.ReasonUpstream,
			"HTTP %d: %s", resp.StatusCode, upstreamDetail(resp.StatusCode, raw))
	}

	decision, err := parseOpenAIResponse(raw)
	if err != nil {
		return schema.Decision{}, errorsx.Wrap(err, errorsx.ReasonUpstream)
	}
	return decision, nil
}

// wireModel is the model name sent on the wire. Gateways route on the
// "vendor/model" form and keep it unless they ask for bare names; a direct
// provider only understands the bare name, so any registered vendor prefix
// is dropped.
func (p *OpenAIProvider) wireModel(model string) string {
	if g := p.gateway; g != nil {
		if rest, ok := cutVendor(model, g.Name); ok {
			return rest
		}
		if _, rest, ok := strings.Cut(model, "/"); ok && g.StripModelPrefix {
			return rest
		}
		return model
	}

	vendor, rest, ok := strings.Cut(model, "/")
	if !ok {
		return model
	}
	if p.spec != nil && strings.EqualFold(vendor, p.spec.Name) {
		return rest
	}
	if FindByName(strings.ReplaceAll(strings.ToLower(vendor), "-", "_")) != nil {
		return rest
	}
	return model
}

// cutVendor removes a leading "name/" from model, ignoring case.
func cutVendor(model, name string) (string, bool) {
	prefix := name + "/"
	if len(model) > len(prefix) && strings.EqualFold(model[:len(prefix)], prefix) {
		return model[len(prefix):], true
	}
	return model, false
}

// ---------------------------------------------------------------------------
// Message sanitisation
// ---------------------------------------------------------------------------

// messageToWireMap converts a typed Message to the OpenAI wire-format map.
func messageToWireMap(m schema.Message) map[string]any {
	wire := map[string]any{
		"role":    string(m.Role),
		"content": m.Content,
	}
	switch m.Role {
	case schema.RoleAssistant:
		if len(m.ToolCalls) > 0 {
			// Strict providers require "content" even for tool-call-only messages.
			if m.Content == "" {
				wire["content"] = nil
			}
			raw := make([]map[string]any, len(m.ToolCalls))
			for i, tc := range m.ToolCalls {
				raw[i] = tc.ToWireMap()
			}
			wire["tool_calls"] = raw
		}
	case schema.RoleTool:
		wire["tool_call_id"] = m.ToolCallID
		wire["name"] = m.ToolName
	}
	return wire
}

// sanitizeMessages renders the transcript for the wire. Tool calls that were
// never answered by a tool message are left out, since the API rejects an
// assistant tool_calls entry without its tool reply; an assistant turn left
// with neither calls nor text is dropped.
func sanitizeMessages(messages schema.Messages) []map[string]any {
	answered := make(map[string]bool)
	for _, m := range messages.Messages {
		if m.Role == schema.RoleTool {
			answered[m.ToolCallID] = true
		}
	}

	out := make([]map[string]any, 0, len(messages.Messages))
	for _, m := range messages.Messages {
		if m.Role == schema.RoleAssistant && len(m.ToolCalls) > 0 {
			var kept []schema.ToolCall
			for _, tc := range m.ToolCalls {
				if answered[tc.ID] {
					kept = append(kept, tc)
				} else {
					slog.Debug("Omitting unanswered tool call", "id", tc.ID, "name", tc.Name)
				}
			}
			m.ToolCalls = kept
			if len(kept) == 0 && strings.TrimSpace(m.Content) == "" {
				continue
			}
		}
		out = append(out, messageToWireMap(m))
	}
	return out
}

// modelOverrides returns the request fields a provider forces for model,
// e.g. a fixed temperature. The first matching pattern wins.
func (p *OpenAIProvider) modelOverrides(model string) map[string]any {
	spec := p.spec
	if spec == nil {
		if spec = FindByModel(model); spec == nil {
			return nil
		}
	}
	lower := strings.ToLower(model)
	for _, ov := range spec.ModelOverrides {
		if strings.Contains(lower, strings.ToLower(ov.Pattern)) {
			return ov.Overrides
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Response parsing
// ---------------------------------------------------------------------------

// openAIRespBody is the subset of the OpenAI chat completion response we care about.
type openAIRespBody struct {
	Choices []struct {
		Message struct {
			Content   any `json:"content"`
			ToolCalls []struct {
				ID       string `json:"id"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// parseOpenAIResponse turns a chat-completions body into a Decision. Only the
// first tool call is honoured; the dialogue loop dispatches at most one
// action per user turn.
func parseOpenAIResponse(raw []byte) (schema.Decision, error) {
	var body openAIRespBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return schema.Decision{}, fmt.Errorf("parse OpenAI response: %w", err)
	}
	if len(body.Choices) == 0 {
		return schema.Decision{}, fmt.Errorf("empty choices in response")
	}

	msg := body.Choices[0].Message
	usage := map[string]int{
		"prompt_tokens":     body.Usage.PromptTokens,
		"completion_tokens": body.Usage.CompletionTokens,
		"total_tokens":      body.Usage.TotalTokens,
	}

	if len(msg.ToolCalls) == 0 {
		content, _ := msg.Content.(string)
		d := schema.Reply(content)
		d.Usage = usage
		return d, nil
	}

	if len(msg.ToolCalls) > 1 {
		slog.Warn("Ignoring extra tool calls", "count", len(msg.ToolCalls)-1)
	}
	tc := msg.ToolCalls[0]
	if tc.Function.Name == "" {
		return schema.Decision{}, fmt.Errorf("tool call without a function name")
	}
	args, err := decodeArguments(tc.Function.Arguments)
	if err != nil {
		return schema.Decision{}, fmt.Errorf("tool %s arguments: %w", tc.Function.Name, err)
	}
	id := tc.ID
	if id == "" {
		id = "call_" + uuid.NewString()
	}

	d := schema.ActionCall(schema.ToolCall{ID: id, Name: tc.Function.Name, Arguments: args})
	d.Usage = usage
	return d, nil
}

// decodeArguments turns a tool call's argument string into a map. Models
// occasionally emit a truncated object or stray closing brackets, so a few
// trimmed variants are tried before giving up. Empty input means no
// arguments.
func decodeArguments(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}, nil
	}

	candidates := []string{raw, strings.TrimRight(raw, " \t\r\n}]") + "}"}
	if i := strings.LastIndex(raw, "}"); i >= 0 {
		candidates = append(candidates, raw[:i+1])
	}
	for _, c := range candidates {
		var args map[string]any
		if json.Unmarshal([]byte(c), &args) == nil && args != nil {
			return args, nil
		}
	}
	return nil, fmt.Errorf("arguments are not a JSON object: %s", llmutils.Truncate(raw, 120))
}

// upstreamDetail describes a failed completion response. OpenAI-style
// {"error":{"message":...}} bodies are reduced to their message.
func upstreamDetail(code int, body []byte) string {
	switch code {
	case http.StatusTooManyRequests:
		return "rate limit exceeded"
	case http.StatusUnauthorized:
		return "API key rejected"
	}
	var e struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error.Message != "" {
		return llmutils.Truncate(e.Error.Message, 300)
	}
	return llmutils.Truncate(strings.TrimSpace(string(body)), 300)
}
