// Package channels provides chat-platform channel implementations.
package channels

import (
	"context"
	"log/slog"
	"strings"

	"github.com/weatherbot/weatherbot/internal/agent"
	"github.com/weatherbot/weatherbot/internal/session"
	"github.com/weatherbot/weatherbot/internal/shared/llmutils"
)

// Channel is a chat surface the gateway runs.
type Channel interface {
	Name() string
	// Start receives messages until ctx is cancelled.
	Start(ctx context.Context) error
	// Send delivers text to chatID outside of a reply, e.g. a briefing.
	Send(ctx context.Context, chatID, text string) error
}

// Base holds common state and helper methods shared by all channels.
type Base struct {
	channelName string
	sessions    *session.Manager
	allowFrom   []string // empty = allow all
}

// NewBase creates a Base with the given channel name, session manager, and allowlist.
func NewBase(name string, sessions *session.Manager, allowFrom []string) Base {
	return Base{channelName: name, sessions: sessions, allowFrom: allowFrom}
}

// IsAllowed checks whether senderID is on the allowlist.
// senderID may be "id|username" (Telegram) or a plain string.
func (b *Base) IsAllowed(senderID string) bool {
	if len(b.allowFrom) == 0 {
		return true
	}
	for _, allowed := range b.allowFrom {
		if allowed == senderID {
			return true
		}
	}
	// Handle "id|username" format used by Telegram.
	if strings.Contains(senderID, "|") {
		for _, part := range strings.Split(senderID, "|") {
			if part == "" {
				continue
			}
			for _, allowed := range b.allowFrom {
				if allowed == part {
					return true
				}
			}
		}
	}
	return false
}

// SessionKey is the session-manager key for a chat on this channel.
func (b *Base) SessionKey(chatID string) string {
	return b.channelName + ":" + chatID
}

// HandleMessage verifies the sender is allowed, then runs content through
// the chat's session. ok is false when the sender was rejected. Failed
// exchanges are turned into a user-facing reply.
func (b *Base) HandleMessage(ctx context.Context, senderID, chatID, content string) (reply string, ok bool) {
	if !b.IsAllowed(senderID) {
		slog.Warn("access denied", "channel", b.channelName, "sender", senderID)
		return "", false
	}

	slog.Info("Processing message",
		"channel", b.channelName,
		"sender", senderID,
		"content", llmutils.Truncate(content, 80),
	)

	sess := b.sessions.GetOrCreate(b.SessionKey(chatID))
	reply, err := sess.Respond(ctx, content)
	if err != nil {
		slog.Error("exchange failed", "channel", b.channelName, "chat", chatID, "err", err)
		return agent.ErrorReply(err), true
	}
	return reply, true
}

// splitMessage splits content into chunks that fit within maxLen,
// preferring newline breaks, then space breaks, then hard cut.
func splitMessage(content string, maxLen int) []string {
	if len(content) <= maxLen {
		return []string{content}
	}
	var chunks []string
	for len(content) > 0 {
		if len(content) <= maxLen {
			chunks = append(chunks, content)
			break
		}
		cut := content[:maxLen]
		pos := strings.LastIndex(cut, "\n")
		if pos <= 0 {
			pos = strings.LastIndex(cut, " ")
		}
		if pos <= 0 {
			pos = maxLen
		}
		chunks = append(chunks, content[:pos])
		content = strings.TrimLeft(content[pos:], " \t\n")
	}
	return chunks
}
