// Package session keeps per-session conversation memory: an in-process,
// bounded record of what was said. Memory records what was said, not what
// was allowed to execute — turns are appended whether or not validation
// later rejects the derived SQL or markup.
package session

import (
	"sync"
	"time"
)

// Turn is one message in a session, immutable once appended.
type Turn struct {
	Role    string
	Content string
}

type entry struct {
	mu       sync.Mutex
	turns    []Turn
	lastSeen time.Time
}

// Store holds all live sessions. Safe for concurrent use; appends for
// one session are serialised by a per-session mutex, turns for different
// sessions do not contend.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// NewStore creates a session store whose sessions are evicted after ttl
// of inactivity. A ttl of zero disables eviction.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	if ttl > 0 {
		go s.janitor()
	}
	return s
}

func (s *Store) get(key string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[key]
	if !ok {
		e = &entry{lastSeen: time.Now()}
		s.sessions[key] = e
	}
	return e
}

// Append records turns at the end of the session, creating the session
// if needed. Passing the user and assistant turns of one exchange in a
// single call keeps them adjacent even when turns for the same session
// race.
func (s *Store) Append(key string, turns ...Turn) {
	e := s.get(key)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.turns = append(e.turns, turns...)
	e.lastSeen = time.Now()
}

// Recent returns up to n of the most recent turns, oldest first. The
// returned slice is a copy.
func (s *Store) Recent(key string, n int) []Turn {
	s.mu.Lock()
	e, ok := s.sessions[key]
	s.mu.Unlock()
	if !ok || n <= 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = time.Now()
	start := len(e.turns) - n
	if start < 0 {
		start = 0
	}
	out := make([]Turn, len(e.turns)-start)
	copy(out, e.turns[start:])
	return out
}

// Evict drops a session. Reports whether it existed.
func (s *Store) Evict(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[key]
	delete(s.sessions, key)
	return ok
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the eviction janitor.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.done) })
}

func (s *Store) janitor() {
	interval := s.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.evictExpired(now)
		}
	}
}

func (s *Store) evictExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.sessions {
		e.mu.Lock()
		expired := now.Sub(e.lastSeen) > s.ttl
		e.mu.Unlock()
		if expired {
			delete(s.sessions, key)
		}
	}
}
