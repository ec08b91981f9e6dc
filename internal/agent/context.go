package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/weatherbot/weatherbot/internal/tools"
)

// PromptContext assembles the system instruction that opens every transcript.
type PromptContext struct {
	creatorName string
	now         func() time.Time
}

// NewPromptContext creates a PromptContext. An empty creatorName falls back
// to the bot's original author.
func NewPromptContext(creatorName string) *PromptContext {
	if strings.TrimSpace(creatorName) == "" {
		creatorName = "chajasc"
	}
	return &PromptContext{creatorName: creatorName, now: time.Now}
}

// BuildSystemPrompt returns the persona, the tool-usage rules and the
// current date, so "latest news" has a reference point.
func (pc *PromptContext) BuildSystemPrompt() string {
	now := pc.now()
	tz, _ := now.Zone()
	if tz == "" {
		tz = "UTC"
	}

	return fmt.Sprintf(`You are Weather bot created by %s, a user facing chatbot with automated service to tell weather and latest news information.
Weather information is based on the location provided by the user. News information is based on query, location, and category.
Don't make assumptions about what values to plug into functions.
The functions '%s' and '%s' are available to use when needed.
Ask for clarification if a user request is ambiguous.
When you report news, state the date of the article first and end with the link to the source.
When you report weather, return only the metrics the user asked for, otherwise the full information.
You respond in a short, very conversational friendly style.

Current date: %s (%s)`,
		pc.creatorName,
		tools.ToolWeather, tools.ToolHeadlines,
		now.Format("2006-01-02 15:04 (Monday)"), tz,
	)
}
