package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/weatherbot/weatherbot/internal/schema"
)

// Validate checks params against a tool's declared parameters: required
// fields present, primitive types matching, and string values inside the
// declared enum. Undeclared parameters are ignored.
func Validate(params map[string]any, ps schema.ParameterSchema) error {
	for _, field := range ps.Required {
		if v, exists := params[field]; !exists || v == nil {
			return fmt.Errorf("missing required field: %s", field)
		}
	}

	for _, prop := range ps.Properties {
		value, ok := params[prop.Name]
		if !ok || value == nil {
			continue
		}
		if err := validateType(value, prop.Type); err != nil {
			return fmt.Errorf("field %s: %w", prop.Name, err)
		}
		if len(prop.Enum) > 0 {
			s, _ := value.(string)
			if !slices.Contains(prop.Enum, s) {
				return fmt.Errorf("field %s: %q is not one of %v", prop.Name, s, prop.Enum)
			}
		}
	}
	return nil
}

func validateType(value any, expected string) error {
	switch expected {
	case "", "any":
		return nil
	case "string":
		if _, ok := value.(string); ok {
			return nil
		}
	case "number":
		if isNumber(value) {
			return nil
		}
	case "integer":
		if isInteger(value) {
			return nil
		}
	case "boolean":
		if _, ok := value.(bool); ok {
			return nil
		}
	case "object":
		if _, ok := value.(map[string]any); ok {
			return nil
		}
	case "array":
		if _, ok := value.([]any); ok {
			return nil
		}
	default:
		return fmt.Errorf("unsupported schema type %q", expected)
	}
	return fmt.Errorf("expected %s but got %T", expected, value)
}

func isNumber(value any) bool {
	switch v := value.(type) {
	case float32, float64:
		return true
	case int, int8, int16, int32, int64:
		return true
	case uint, uint8, uint16, uint32, uint64:
		return true
	case json.Number:
		_, err := v.Float64()
		return err == nil
	}
	return false
}

func isInteger(value any) bool {
	switch v := value.(type) {
	case int, int8, int16, int32, int64:
		return true
	case uint, uint8, uint16, uint32, uint64:
		return true
	case float32:
		return math.Trunc(float64(v)) == float64(v)
	case float64:
		return math.Trunc(v) == v
	case json.Number:
		_, err := v.Int64()
		return err == nil
	}
	return false
}
