package llmutils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/weatherbot/weatherbot/internal/schema"
)

func TestFormatCall(t *testing.T) {
	tests := []struct {
		name string
		call schema.ToolCall
		want string
	}{
		{"no args", schema.ToolCall{Name: "get_top_headlines"}, "get_top_headlines()"},
		{
			"sorted keys",
			schema.ToolCall{Name: "get_top_headlines", Arguments: map[string]any{"country": "us", "category": "sports"}},
			`get_top_headlines(category="sports", country="us")`,
		},
		{"non-string", schema.ToolCall{Name: "x", Arguments: map[string]any{"n": float64(3)}}, "x(n=3)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCall(tt.call); got != tt.want {
				t.Errorf("FormatCall = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripThink(t *testing.T) {
	if got := StripThink("<think>hmm</think> Sunny in Oslo"); got != "Sunny in Oslo" {
		t.Errorf("StripThink = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc..." {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("ab", 3); got != "ab" {
		t.Errorf("Truncate = %q", got)
	}
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	// "°" is two bytes; a cut at byte 3 would land inside it.
	got := Truncate("18°C sunny", 3)
	if got != "18..." {
		t.Errorf("Truncate = %q", got)
	}
	if !utf8.ValidString(Truncate(strings.Repeat("日本", 100), 301)) {
		t.Error("Truncate produced invalid UTF-8")
	}
}
