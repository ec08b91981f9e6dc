package schema

import "context"

// Property describes one tool parameter.
type Property struct {
	Name        string
	Type        string // JSON Schema primitive: "string", "integer", ...
	Description string
	Enum        []string
}

// ParameterSchema is the typed subset of JSON Schema used to declare a tool's
// parameters. Properties keep their declaration order.
type ParameterSchema struct {
	Properties []Property
	Required   []string
}

// Property returns the named property.
func (s ParameterSchema) Property(name string) (Property, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// ToMap renders the schema as a JSON Schema object.
func (s ParameterSchema) ToMap() map[string]any {
	props := make(map[string]any, len(s.Properties))
	for _, p := range s.Properties {
		def := map[string]any{"type": p.Type}
		if p.Description != "" {
			def["description"] = p.Description
		}
		if len(p.Enum) > 0 {
			def["enum"] = append([]string(nil), p.Enum...)
		}
		props[p.Name] = def
	}
	required := s.Required
	if required == nil {
		required = []string{}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// Tool is the interface all LLM-callable tools must satisfy.
type Tool interface {
	Name() string
	Description() string
	Parameters() ParameterSchema
	Execute(ctx context.Context, params map[string]any) (string, error)
}
