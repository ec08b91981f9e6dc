package agent

import "strings"

const helpText = "weatherbot commands:\n/new - Start a new conversation\n/help - Show available commands\n\nAsk me about the weather anywhere or the latest headlines."

// handleSlashCommand answers known slash commands without calling the model.
func (s *Session) handleSlashCommand(content string) (string, bool) {
	switch strings.TrimSpace(strings.ToLower(content)) {
	case "/new":
		s.Reset()
		return "New session started.", true
	case "/help", "/start":
		return helpText, true
	}
	return "", false
}
