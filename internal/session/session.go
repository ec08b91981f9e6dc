package session

import (
	"context"
	"sync"
	"time"

	"github.com/weatherbot/weatherbot/internal/schema"
)

// Session pairs one chat with its dialogue. Respond calls are serialised so
// at most one exchange per transcript is ever in flight.
type Session struct {
	Key       string
	CreatedAt time.Time
	UpdatedAt time.Time
	Turns     int // messages answered so far

	exchanger schema.Exchanger
	mu        sync.Mutex
}

func newSession(key string, ex schema.Exchanger) *Session {
	now := time.Now()
	return &Session{
		Key:       key,
		CreatedAt: now,
		UpdatedAt: now,
		exchanger: ex,
	}
}

// Respond forwards content to the underlying dialogue.
func (s *Session) Respond(ctx context.Context, content string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply, err := s.exchanger.Respond(ctx, content)
	s.UpdatedAt = time.Now()
	if err == nil {
		s.Turns++
	}
	return reply, err
}

// snapshot copies the metadata under the lock.
func (s *Session) snapshot() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{Key: s.Key, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt, Turns: s.Turns}
}
