package ui

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/inventory-ui/internal/obs"
)

const (
	sessionCookie = "inventory_session"
	maxHistory    = 32

	defaultSweepInterval = time.Minute
)

// Session is the state of one browser: its navigation history, a one-shot
// flash message and the list view instance.
type Session struct {
	ID   string
	list *ListView

	mu       sync.Mutex
	history  []string
	flash    string
	skipLoad bool
	lastSeen time.Time
}

// List returns the session's list view.
func (s *Session) List() *ListView { return s.list }

// Visit records navigation to path. Leaving the list view unmounts it.
func (s *Session) Visit(path string) {
	if path != "/" {
		s.list.Unmount()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.history); n > 0 && s.history[n-1] == path {
		return
	}
	s.history = append(s.history, path)
	if len(s.history) > maxHistory {
		s.history = s.history[len(s.history)-maxHistory:]
	}
}

// Back leaves from, the current entry, and returns the previous one.
// With no previous entry it returns "/".
func (s *Session) Back(from string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.history); n > 0 && s.history[n-1] == from {
		s.history = s.history[:n-1]
	}
	if n := len(s.history); n > 0 {
		return s.history[n-1]
	}
	return "/"
}

func (s *Session) SetFlash(msg string) {
	s.mu.Lock()
	s.flash = msg
	s.mu.Unlock()
}

// TakeFlash returns the flash message and clears it.
func (s *Session) TakeFlash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.flash
	s.flash = ""
	return msg
}

// KeepList makes the next list render reuse the current collection instead of
// refetching it. Used after a delete answer redirects back to the list.
func (s *Session) KeepList() {
	s.mu.Lock()
	s.skipLoad = true
	s.mu.Unlock()
}

func (s *Session) takeKeepList() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	keep := s.skipLoad
	s.skipLoad = false
	return keep
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Sessions is the registry of live sessions.
type Sessions struct {
	api ProductAPI
	now func() time.Time

	mu sync.RWMutex
	m  map[string]*Session
}

func NewSessions(api ProductAPI) *Sessions {
	return &Sessions{api: api, now: time.Now, m: make(map[string]*Session)}
}

// Start creates a session with a fresh identifier.
func (r *Sessions) Start() *Session {
	s := &Session{ID: uuid.NewString(), list: NewListView(r.api), lastSeen: r.now()}
	r.mu.Lock()
	r.m[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns a live session and marks it as used.
func (r *Sessions) Get(id string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.m[id]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	s.touch(r.now())
	return s, true
}

func (r *Sessions) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many.
func (r *Sessions) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.m {
		if s.idleSince().Before(cutoff) {
			s.list.Unmount()
			delete(r.m, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done. A non-positive interval falls
// back to defaultSweepInterval.
func (r *Sessions) Run(ctx context.Context, interval, maxIdle time.Duration) {
	if interval <= 0 {
		obs.Logger.Warn("session_sweep_interval_invalid", "interval", interval.String(), "using", defaultSweepInterval.String())
		interval = defaultSweepInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(maxIdle); n > 0 {
				obs.Logger.Info("sessions_swept", "removed", n, "live", r.Len())
			}
		}
	}
}
