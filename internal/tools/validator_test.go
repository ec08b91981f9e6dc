package tools

import (
	"testing"

	"github.com/weatherbot/weatherbot/internal/schema"
)

func TestValidate(t *testing.T) {
	ps := schema.ParameterSchema{
		Properties: []schema.Property{
			{Name: "location", Type: "string"},
			{Name: "count", Type: "integer"},
			{Name: "category", Type: "string", Enum: []string{"general", "sports"}},
		},
		Required: []string{"location"},
	}

	tests := []struct {
		name    string
		params  map[string]any
		wantErr bool
	}{
		{"valid minimal", map[string]any{"location": "Paris"}, false},
		{"valid full", map[string]any{"location": "Paris", "count": 2.0, "category": "sports"}, false},
		{"nil params missing required", nil, true},
		{"required is null", map[string]any{"location": nil}, true},
		{"wrong type", map[string]any{"location": 42.0}, true},
		{"non-integer", map[string]any{"location": "x", "count": 1.5}, true},
		{"enum miss", map[string]any{"location": "x", "category": "weather"}, true},
		{"undeclared ignored", map[string]any{"location": "x", "other": true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.params, ps)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_HeadlinesAllOptional(t *testing.T) {
	if err := Validate(map[string]any{}, NewHeadlinesTool("k", "", 0).Parameters()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
