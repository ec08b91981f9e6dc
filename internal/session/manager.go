// Package session keeps one dialogue per chat in memory.
//
// Nothing is written to disk: a restart starts every chat afresh.
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/weatherbot/weatherbot/internal/schema"
)

// NewExchangerFunc creates the dialogue for a new chat.
type NewExchangerFunc func() schema.Exchanger

// Info is a read-only view of a session for listings.
type Info struct {
	Key       string
	CreatedAt time.Time
	UpdatedAt time.Time
	Turns     int
}

// Manager maps chat keys to sessions.
type Manager struct {
	newExchanger NewExchangerFunc
	cache        sync.Map // key → *Session
}

// NewManager creates a Manager that builds dialogues with newExchanger.
func NewManager(newExchanger NewExchangerFunc) *Manager {
	return &Manager{newExchanger: newExchanger}
}

// GetOrCreate returns the session for key, creating it on first use.
func (m *Manager) GetOrCreate(key string) *Session {
	if v, ok := m.cache.Load(key); ok {
		return v.(*Session)
	}
	actual, _ := m.cache.LoadOrStore(key, newSession(key, m.newExchanger()))
	return actual.(*Session)
}

// Invalidate drops the session for key; the next message starts a new one.
func (m *Manager) Invalidate(key string) {
	m.cache.Delete(key)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	n := 0
	m.cache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// ListSessions returns metadata for all sessions, sorted newest-first.
func (m *Manager) ListSessions() []Info {
	var out []Info
	m.cache.Range(func(_, v any) bool {
		out = append(out, v.(*Session).snapshot())
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}
