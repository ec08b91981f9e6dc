package channels

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/weatherbot/weatherbot/internal/config"
	"github.com/weatherbot/weatherbot/internal/session"
)

// Manager owns all enabled channels.
type Manager struct {
	channels map[string]Channel
}

// NewManager creates a Manager and initialises all enabled channels.
func NewManager(cfg *config.Config, sessions *session.Manager) *Manager {
	m := &Manager{channels: make(map[string]Channel)}

	if cfg.Channels.Telegram.Enabled {
		m.Register(NewTelegramChannel(&cfg.Channels.Telegram, sessions))
	}
	return m
}

// Register adds ch, replacing any channel with the same name.
func (m *Manager) Register(ch Channel) {
	m.channels[ch.Name()] = ch
	slog.Info("channel enabled", "name", ch.Name())
}

// EnabledChannels returns the names of all enabled channels, sorted.
func (m *Manager) EnabledChannels() []string {
	names := make([]string, 0, len(m.channels))
	for n := range m.channels {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// StartAll runs every channel until ctx is cancelled or one of them fails.
func (m *Manager) StartAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for name, ch := range m.channels {
		name, ch := name, ch
		g.Go(func() error {
			slog.Info("starting channel", "name", name)
			if err := ch.Start(ctx); err != nil && ctx.Err() == nil {
				return fmt.Errorf("channel %s: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Send delivers text to chatID on the named channel.
func (m *Manager) Send(ctx context.Context, channelName, chatID, text string) error {
	ch, ok := m.channels[channelName]
	if !ok {
		return fmt.Errorf("channel %q is not enabled", channelName)
	}
	return ch.Send(ctx, chatID, text)
}
