package memory

import (
	"sync"
	"time"
)

// Store is the process-wide table of per-user memories. Entries are
// created lazily on first use and live until evicted. Each user has its
// own lock, so the fetch-or-create -> read -> append sequence of one
// request is atomic per user id while requests for different users run
// in parallel.
type Store struct {
	mu       sync.Mutex
	users    map[string]*entry
	maxUsers int // 0 = unbounded
}

type entry struct {
	mu        sync.Mutex
	mem       *UserMemory
	lastTouch time.Time
}

// NewStore creates a store with no capacity limit.
func NewStore() *Store {
	return NewStoreWithCapacity(0)
}

// NewStoreWithCapacity creates a store that keeps at most maxUsers
// entries, evicting the least recently used one when full. A maxUsers
// of zero or less means unbounded.
func NewStoreWithCapacity(maxUsers int) *Store {
	if maxUsers < 0 {
		maxUsers = 0
	}
	return &Store{
		users:    make(map[string]*entry),
		maxUsers: maxUsers,
	}
}

// Len returns the number of users currently tracked.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// Evict removes the given user's memory, if present.
func (s *Store) Evict(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return false
	}
	delete(s.users, userID)
	return true
}

// WithUser runs fn with exclusive access to the user's memory, creating
// it on first use. The per-user lock is held for the whole callback, so
// a request's read-then-append sequence cannot interleave with another
// request for the same user.
func (s *Store) WithUser(userID string, fn func(m *UserMemory) error) error {
	e := s.acquire(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.mem)
}

// Peek returns a shallow snapshot accessor for read-only inspection
// (demo and diagnostics). It runs fn under the user's lock and reports
// whether the user exists.
func (s *Store) Peek(userID string, fn func(m *UserMemory)) bool {
	s.mu.Lock()
	e, ok := s.users[userID]
	s.mu.Unlock()
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.mem)
	return true
}

func (s *Store) acquire(userID string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.users[userID]; ok {
		e.lastTouch = time.Now()
		return e
	}

	if s.maxUsers > 0 && len(s.users) >= s.maxUsers {
		s.evictOldestLocked()
	}

	e := &entry{
		mem:       NewUserMemory(userID),
		lastTouch: time.Now(),
	}
	s.users[userID] = e
	return e
}

// evictOldestLocked drops the least recently touched entry. An in-flight
// request holding the evicted entry's lock finishes against the orphaned
// memory; its updates are simply lost, which is the documented cost of
// eviction.
func (s *Store) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, e := range s.users {
		if oldestID == "" || e.lastTouch.Before(oldest) {
			oldestID = id
			oldest = e.lastTouch
		}
	}
	if oldestID != "" {
		delete(s.users, oldestID)
	}
}
