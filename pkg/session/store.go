package session

import (
	"sync"
	"time"
)

// Default limits for the in-memory store.
const (
	DefaultMaxSessions = 100
	DefaultTTL         = 2 * time.Hour
)

// Store is an in-memory session registry with TTL cleanup and a capacity
// limit. It is safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxSessions int
	ttl         time.Duration
	cfg         Config
}

// NewStore creates a registry whose sessions are built from cfg.
// Non-positive limits fall back to the defaults.
func NewStore(cfg Config, maxSessions int, ttl time.Duration) *Store {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		ttl:         ttl,
		cfg:         cfg,
	}
}

// Create adds a new session. When the store is full the least recently used
// session is evicted and its outstanding run cancelled.
func (s *Store) Create() *Session {
	sess := New(s.cfg)

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.maxSessions {
		var oldest *Session
		for _, c := range s.sessions {
			if oldest == nil || c.LastAccess().Before(oldest.LastAccess()) {
				oldest = c
			}
		}
		s.remove(oldest.ID)
	}
	s.sessions[sess.ID] = sess
	return sess
}

// Get retrieves a session by id and marks it as used.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	sess.Touch()
	return sess, true
}

// Delete removes a session and cancels its outstanding run.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(id)
}

func (s *Store) remove(id string) bool {
	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	sess.Cancel()
	delete(s.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than the TTL and returns how many
// were removed. Sessions with a run in flight are kept.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.Coordinator.Busy() {
			continue
		}
		if sess.LastAccess().Before(cutoff) && s.remove(id) {
			removed++
		}
	}
	return removed
}

// StartCleanup starts a background cleanup goroutine and returns a stop function.
func (s *Store) StartCleanup(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				s.Cleanup()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
