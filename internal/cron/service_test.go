package cron

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/weatherbot/weatherbot/internal/schema"
)

type fakeExchanger struct {
	id    int
	reply string
	err   error
	seen  []string
}

func (f *fakeExchanger) Respond(_ context.Context, content string) (string, error) {
	f.seen = append(f.seen, content)
	return f.reply, f.err
}

type recorder struct {
	mu         sync.Mutex
	exchangers []*fakeExchanger
	delivered  []string
	targets    []string
}

func (r *recorder) newExchanger() schema.Exchanger {
	r.mu.Lock()
	defer r.mu.Unlock()
	ex := &fakeExchanger{id: len(r.exchangers), reply: "Sunny, 21°C"}
	r.exchangers = append(r.exchangers, ex)
	return ex
}

func (r *recorder) deliver(_ context.Context, b Briefing, reply string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delivered = append(r.delivered, reply)
	r.targets = append(r.targets, b.ChatID)
	return nil
}

func newTestService(t *testing.T) (*Service, *recorder) {
	t.Helper()
	r := &recorder{}
	return NewService(r.newExchanger, r.deliver), r
}

// ─── AddBriefing ───────────────────────────────────────────────────────────

func TestAddBriefing_Valid(t *testing.T) {
	s, _ := newTestService(t)
	err := s.AddBriefing(Briefing{Name: "morning", Expr: "0 7 * * *", TZ: "Europe/Paris", Message: "weather in Paris"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	jobs := s.Jobs()
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if !jobs[0].State.NextRunAt.After(time.Now()) {
		t.Error("next run should be in the future")
	}
}

func TestAddBriefing_Rejects(t *testing.T) {
	tests := []struct {
		name string
		b    Briefing
	}{
		{"invalid expr", Briefing{Name: "x", Expr: "not a cron", Message: "hi"}},
		{"empty expr", Briefing{Name: "x", Message: "hi"}},
		{"bad tz", Briefing{Name: "x", Expr: "0 7 * * *", TZ: "Mars/Olympus", Message: "hi"}},
		{"no name", Briefing{Expr: "0 7 * * *", Message: "hi"}},
		{"no message", Briefing{Name: "x", Expr: "0 7 * * *"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestService(t)
			if err := s.AddBriefing(tt.b); err == nil {
				t.Error("expected an error")
			}
			if len(s.Jobs()) != 0 {
				t.Error("rejected briefing must not be scheduled")
			}
		})
	}
}

func TestAddBriefing_DuplicateName(t *testing.T) {
	s, _ := newTestService(t)
	b := Briefing{Name: "news", Expr: "@daily", Message: "latest headlines"}
	if err := s.AddBriefing(b); err != nil {
		t.Fatal(err)
	}
	if err := s.AddBriefing(b); err == nil {
		t.Error("expected duplicate name error")
	}
}

// ─── RunJob ────────────────────────────────────────────────────────────────

func TestRunJob_FreshSessionAndDelivery(t *testing.T) {
	s, r := newTestService(t)
	if err := s.AddBriefing(Briefing{Name: "m", Expr: "0 7 * * *", Message: "weather in Paris", ChatID: "42"}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if err := s.RunJob(context.Background(), "m"); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	if len(r.exchangers) != 2 {
		t.Fatalf("each firing should use a fresh dialogue, got %d", len(r.exchangers))
	}
	for _, ex := range r.exchangers {
		if len(ex.seen) != 1 || ex.seen[0] != "weather in Paris" {
			t.Errorf("dialogue saw %v", ex.seen)
		}
	}
	if len(r.delivered) != 2 || r.delivered[0] != "Sunny, 21°C" || r.targets[0] != "42" {
		t.Errorf("delivered = %v to %v", r.delivered, r.targets)
	}

	st := s.Jobs()[0].State
	if st.LastStatus != "ok" || st.LastRunAt.IsZero() || st.LastReply != "Sunny, 21°C" {
		t.Errorf("unexpected state %+v", st)
	}
}

func TestRunJob_ExchangeErrorRecorded(t *testing.T) {
	boom := errors.New("upstream down")
	s := NewService(func() schema.Exchanger { return &fakeExchanger{err: boom} }, nil)
	if err := s.AddBriefing(Briefing{Name: "m", Expr: "@hourly", Message: "news"}); err != nil {
		t.Fatal(err)
	}

	if err := s.RunJob(context.Background(), "m"); !errors.Is(err, boom) {
		t.Fatalf("expected exchange error, got %v", err)
	}
	st := s.Jobs()[0].State
	if st.LastStatus != "error" || st.LastError == "" {
		t.Errorf("unexpected state %+v", st)
	}
}

func TestRunJob_NotFound(t *testing.T) {
	s, _ := newTestService(t)
	if err := s.RunJob(context.Background(), "missing"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
}

func TestStart_FiresScheduledBriefing(t *testing.T) {
	var fired atomic.Int32
	s := NewService(func() schema.Exchanger {
		fired.Add(1)
		return &fakeExchanger{reply: "ok"}
	}, nil)
	if err := s.AddBriefing(Briefing{Name: "tick", Expr: "@every 1s", Message: "weather"}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) && fired.Load() == 0 {
		time.Sleep(20 * time.Millisecond)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Start returned %v", err)
	}
	if fired.Load() == 0 {
		t.Error("briefing did not fire")
	}
}

// ─── NextRun ───────────────────────────────────────────────────────────────

func TestNextRun_UTC(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	next, err := NextRun("0 12 * * *", "UTC", now)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC); !next.Equal(want) {
		t.Errorf("next = %v, want %v", next, want)
	}
}

func TestNextRun_InvalidExpr(t *testing.T) {
	if _, err := NextRun("61 * * * *", "", time.Now()); err == nil {
		t.Error("expected error for out-of-range minute")
	}
}
