package service

import (
	"sync"
	"time"
)

// State holds the liveness facts the health endpoints expose.
type State struct {
	mu           sync.Mutex
	start        time.Time
	ready        bool
	lastSignal   time.Time
	lastDispatch string
}

func NewState() *State {
	return &State{start: time.Now()}
}

func (s *State) SetReady(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = v
}

func (s *State) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

func (s *State) MarkSignal(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSignal = t
}

func (s *State) LastSignal() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSignal
}

func (s *State) MarkDispatch(isoDate string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastDispatch = isoDate
}

func (s *State) LastDispatch() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDispatch
}

func (s *State) Uptime() time.Duration {
	return time.Since(s.start)
}
