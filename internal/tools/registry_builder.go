package tools

import (
	"fmt"

	"github.com/weatherbot/weatherbot/internal/schema"
)

// RegistryBuilder accumulates tools during the construction phase.
// Call Build() to produce an immutable Registry ready for use.
type RegistryBuilder struct {
	order []string
	tools map[string]schema.Tool
	err   error
}

// NewRegistryBuilder returns a fresh RegistryBuilder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{tools: make(map[string]schema.Tool)}
}

// WithTool adds a tool and returns the builder, enabling chaining.
// A duplicate or empty name is reported by Build.
func (b *RegistryBuilder) WithTool(tool schema.Tool) *RegistryBuilder {
	name := tool.Name()
	switch {
	case b.err != nil:
	case name == "":
		b.err = fmt.Errorf("tool name is empty")
	case b.tools[name] != nil:
		b.err = fmt.Errorf("tool %s already registered", name)
	default:
		b.order = append(b.order, name)
		b.tools[name] = tool
	}
	return b
}

// Build produces an immutable Registry from the accumulated tools.
func (b *RegistryBuilder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	tools := make(map[string]schema.Tool, len(b.tools))
	for k, v := range b.tools {
		tools[k] = v
	}
	return &Registry{order: append([]string(nil), b.order...), tools: tools}, nil
}
