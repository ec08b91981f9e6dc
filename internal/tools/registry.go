package tools

import (
	"context"
	"log/slog"

	"github.com/weatherbot/weatherbot/internal/errorsx"
	"github.com/weatherbot/weatherbot/internal/schema"
)

// ToolName is the canonical name of a built-in tool.
type ToolName string

const (
	ToolWeather   ToolName = "get_current_weather"
	ToolHeadlines ToolName = "get_top_headlines"
)

// Registry holds an ordered, immutable set of named tools.
// Build one with RegistryBuilder.
type Registry struct {
	order []string
	tools map[string]schema.Tool
}

// Lookup returns the tool with the given name, or an unknown_action error.
func (r *Registry) Lookup(name string) (schema.Tool, error) {
	if t, ok := r.tools[name]; ok {
		return t, nil
	}
	return nil, errorsx.Errorf(errorsx.ReasonUnknownAction, "tool %q not found", name)
}

// GetTool returns the tool with the given name, or nil.
func (r *Registry) GetTool(name ToolName) schema.Tool {
	return r.tools[string(name)]
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }

// Definitions returns all tool definitions in OpenAI function-calling format,
// in registration order.
func (r *Registry) Definitions() []map[string]any {
	list := make([]map[string]any, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		list = append(list, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name(),
				"description": t.Description(),
				"parameters":  t.Parameters().ToMap(),
			},
		})
	}
	return list
}

// Dispatch routes call to its tool. Unknown names fail with unknown_action.
// Arguments reach the tool verbatim; the tool or its upstream decides what
// is valid. A mismatch with the declared parameters is only logged.
func (r *Registry) Dispatch(ctx context.Context, call schema.ToolCall) (string, error) {
	t, err := r.Lookup(call.Name)
	if err != nil {
		return "", err
	}
	if err := Validate(call.Arguments, t.Parameters()); err != nil {
		slog.Warn("Tool arguments do not match declaration", "name", call.Name, "err", err)
	}
	return t.Execute(ctx, call.Arguments)
}
