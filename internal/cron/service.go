// Package cron runs scheduled briefings: configured prompts such as
// "weather in Paris" that fire on a cron expression, each in a fresh
// dialogue, with the reply handed to a delivery sink.
package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	robfigcron "github.com/robfig/cron/v3"

	"github.com/weatherbot/weatherbot/internal/schema"
)

// Briefing is one scheduled prompt.
type Briefing struct {
	Name    string
	Expr    string // 5-field cron expression or descriptor (@daily, @every 1h)
	TZ      string // IANA timezone; empty means local time
	Message string
	ChatID  string // delivery target; empty means log only
}

// JobState records the outcome of the latest run.
type JobState struct {
	NextRunAt  time.Time
	LastRunAt  time.Time
	LastStatus string // "ok" | "error" | "" before the first run
	LastError  string
	LastReply  string
}

// Job is a scheduled Briefing together with its state.
type Job struct {
	Briefing Briefing
	State    JobState
}

// NewExchangerFunc creates the dialogue a single firing runs in.
type NewExchangerFunc func() schema.Exchanger

// DeliverFunc hands a briefing's reply to its destination.
type DeliverFunc func(ctx context.Context, b Briefing, reply string) error

// ErrJobNotFound is returned by RunJob for an unknown briefing name.
var ErrJobNotFound = errors.New("briefing not found")

var parser = robfigcron.NewParser(
	robfigcron.Minute | robfigcron.Hour | robfigcron.Dom | robfigcron.Month | robfigcron.Dow | robfigcron.Descriptor,
)

type jobEntry struct {
	job      Job
	schedule robfigcron.Schedule
	entryID  robfigcron.EntryID
}

// Service schedules briefings on a robfig cron runner.
type Service struct {
	newExchanger NewExchangerFunc
	deliver      DeliverFunc

	mu     sync.Mutex
	jobs   map[string]*jobEntry
	robfig *robfigcron.Cron
	ctx    context.Context // set by Start; jobs fired by robfig use it
}

// NewService creates a Service. deliver may be nil, in which case replies
// are only logged.
func NewService(newExchanger NewExchangerFunc, deliver DeliverFunc) *Service {
	return &Service{
		newExchanger: newExchanger,
		deliver:      deliver,
		jobs:         make(map[string]*jobEntry),
		robfig:       robfigcron.New(),
		ctx:          context.Background(),
	}
}

// AddBriefing validates b and schedules it. Names must be unique.
func (s *Service) AddBriefing(b Briefing) error {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return fmt.Errorf("briefing needs a name")
	}
	if strings.TrimSpace(b.Message) == "" {
		return fmt.Errorf("briefing %q: empty message", b.Name)
	}
	sched, err := parseSchedule(b.Expr, b.TZ)
	if err != nil {
		return fmt.Errorf("briefing %q: %w", b.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[b.Name]; exists {
		return fmt.Errorf("briefing %q already scheduled", b.Name)
	}

	entry := &jobEntry{
		job:      Job{Briefing: b, State: JobState{NextRunAt: sched.Next(time.Now())}},
		schedule: sched,
	}
	name := b.Name
	entry.entryID = s.robfig.Schedule(sched, robfigcron.FuncJob(func() {
		s.mu.Lock()
		ctx := s.ctx
		s.mu.Unlock()
		_ = s.RunJob(ctx, name)
	}))
	s.jobs[name] = entry

	slog.Info("cron: added briefing", "name", name, "expr", b.Expr, "tz", b.TZ)
	return nil
}

// Start runs the scheduler until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	n := len(s.jobs)
	s.mu.Unlock()

	s.robfig.Start()
	slog.Info("cron: started", "briefings", n)

	<-ctx.Done()

	<-s.robfig.Stop().Done()
	slog.Info("cron: stopped")
	return ctx.Err()
}

// Jobs returns all briefings sorted by next run time.
func (s *Service) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Job, 0, len(s.jobs))
	for _, e := range s.jobs {
		out = append(out, e.job)
	}
	sort.Slice(out, func(i, k int) bool {
		return out[i].State.NextRunAt.Before(out[k].State.NextRunAt)
	})
	return out
}

// RunJob fires the named briefing now: one exchange in a fresh dialogue,
// then delivery. The error reports exchange or delivery failure.
func (s *Service) RunJob(ctx context.Context, name string) error {
	s.mu.Lock()
	entry, ok := s.jobs[name]
	var b Briefing
	if ok {
		b = entry.job.Briefing
	}
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	start := time.Now()
	slog.Info("cron: executing briefing", "name", name)

	reply, err := s.newExchanger().Respond(ctx, b.Message)
	if err == nil {
		err = s.deliverReply(ctx, b, reply)
	}
	if err != nil {
		slog.Error("cron: briefing failed", "name", name, "err", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.jobs[name]; ok {
		st := &e.job.State
		st.LastRunAt = start
		st.NextRunAt = e.schedule.Next(time.Now())
		st.LastReply = reply
		if err != nil {
			st.LastStatus, st.LastError = "error", err.Error()
		} else {
			st.LastStatus, st.LastError = "ok", ""
		}
	}
	return err
}

func (s *Service) deliverReply(ctx context.Context, b Briefing, reply string) error {
	if s.deliver == nil {
		slog.Info("cron: briefing reply", "name", b.Name, "reply", reply)
		return nil
	}
	if err := s.deliver(ctx, b, reply); err != nil {
		return fmt.Errorf("deliver: %w", err)
	}
	return nil
}

// parseSchedule parses expr and pins it to tz.
func parseSchedule(expr, tz string) (robfigcron.Schedule, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("empty cron expression")
	}
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	loc := time.Local
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
		}
		loc = l
	}
	return withLocation(sched, loc), nil
}

// NextRun computes the first run of expr in tz strictly after now.
func NextRun(expr, tz string, now time.Time) (time.Time, error) {
	sched, err := parseSchedule(expr, tz)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(now), nil
}

// withLocation wraps a Schedule to always use a specific location.
type locSchedule struct {
	inner robfigcron.Schedule
	loc   *time.Location
}

func (l locSchedule) Next(t time.Time) time.Time {
	return l.inner.Next(t.In(l.loc))
}

func withLocation(s robfigcron.Schedule, loc *time.Location) robfigcron.Schedule {
	return locSchedule{inner: s, loc: loc}
}
