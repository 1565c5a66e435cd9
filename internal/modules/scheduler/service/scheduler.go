package service

import (
	"context"
	"fmt"
	"time"

	"sinaleiro/internal/logstore"
	"sinaleiro/pkg/logger"
)

type Outbound interface {
	SendFile(path, caption string) error
}

type Config struct {
	Times         []string // "HH:MM" in the store's timezone
	PollInterval  time.Duration
	PostSendSleep time.Duration
}

// Scheduler ships the previous operational day's log once per trigger
// time. The persisted marker is the only idempotence guard: a restart
// landing inside the trigger minute compares against it and does
// nothing when the day was already sent.
type Scheduler struct {
	store  *logstore.Store
	marker *logstore.Marker
	out    Outbound
	clock  Clock

	times        map[string]struct{}
	poll         time.Duration
	postSleep    time.Duration
	onDispatched func(isoDate string)
}

func New(store *logstore.Store, marker *logstore.Marker, out Outbound, clock Clock, cfg Config) *Scheduler {
	times := make(map[string]struct{}, len(cfg.Times))
	for _, t := range cfg.Times {
		times[t] = struct{}{}
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 20 * time.Second
	}
	if cfg.PostSendSleep <= cfg.PollInterval {
		cfg.PostSendSleep = 90 * time.Second
	}
	return &Scheduler{
		store:     store,
		marker:    marker,
		out:       out,
		clock:     clock,
		times:     times,
		poll:      cfg.PollInterval,
		postSleep: cfg.PostSendSleep,
	}
}

// OnDispatched registers a hook called with the ISO date after a
// successful dispatch.
func (s *Scheduler) OnDispatched(fn func(isoDate string)) { s.onDispatched = fn }

func (s *Scheduler) Run(ctx context.Context) {
	logger.Info("[SCHED] dispatch loop started, times=%v", keys(s.times))
	for ctx.Err() == nil {
		if s.Tick(ctx) {
			// Stay clear of the trigger minute before polling again.
			s.clock.Sleep(ctx, s.postSleep)
		} else {
			s.clock.Sleep(ctx, s.poll)
		}
	}
	logger.Info("[SCHED] dispatch loop stopped")
}

// Tick runs one Waiting-state check and reports whether a dispatch was
// attempted. Errors are contained to the tick.
func (s *Scheduler) Tick(ctx context.Context) bool {
	now := s.clock.Now().In(s.store.Location())
	if _, ok := s.times[now.Format("15:04")]; !ok {
		return false
	}

	// The window that most recently closed is the one before the
	// current operational day.
	target := s.store.Day(now).AddDate(0, 0, -1)
	iso := target.Format("2006-01-02")

	last, err := s.marker.Last()
	if err != nil {
		logger.Error("[SCHED] marker read failed: %v", err)
		return true
	}
	if last == iso {
		return false
	}

	s.dispatch(now, target, iso)
	return true
}

func (s *Scheduler) dispatch(now, target time.Time, iso string) {
	if !s.store.Exists(target) {
		// A day without signals still counts as handled, otherwise
		// every later trigger re-examines it forever.
		logger.Info("[SCHED] no log for %s, marking dispatched", iso)
		if err := s.marker.Set(iso); err != nil {
			logger.Error("[SCHED] marker write failed for %s: %v", iso, err)
		}
		return
	}

	caption := fmt.Sprintf("📊 Log diário\nData operacional: %s\nEnvio: %s",
		target.Format("02/01/2006"), now.Format("15:04"))

	if err := s.out.SendFile(s.store.Path(target), caption); err != nil {
		logger.Error("[SCHED] send failed for %s: %v", iso, err)
		return
	}

	// Marker before delete: losing the file is recoverable (it was
	// already delivered), losing the marker would re-send or silently
	// drop the day.
	if err := s.marker.Set(iso); err != nil {
		logger.Error("[SCHED] marker write failed for %s, keeping log file: %v", iso, err)
		return
	}
	if err := s.store.Remove(target); err != nil {
		logger.Error("[SCHED] remove dispatched log %s: %v", iso, err)
	}

	if s.onDispatched != nil {
		s.onDispatched(iso)
	}
	logger.Info("[SCHED] log %s dispatched", iso)
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
