package cmdutils

import (
	"fmt"
	"strings"
)

const logo = "🌦"

func PrintResponse(text string) {
	if text == "" {
		return
	}

	fmt.Printf("\n%s weatherbot\n%s\n\n", logo, text)
}

// PrintToolsUsed shows which lookups produced the last reply.
func PrintToolsUsed(names []string, degraded bool) {
	if len(names) == 0 {
		return
	}
	suffix := ""
	if degraded {
		suffix = " (follow-up lookup skipped)"
	}
	fmt.Printf("  ↳ %s%s\n", strings.Join(names, ", "), suffix)
}
