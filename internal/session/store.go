package session

import (
	"sync"
	"time"
)

// DefaultTTL is how long an idle session is remembered.
const DefaultTTL = 30 * time.Minute

type entry struct {
	state   State
	touched time.Time
}

type turnLock struct {
	mu   sync.Mutex
	refs int
}

// Store is a process-local session map with time-based expiry. Expired entries are
// evicted lazily when accessed; there is no background sweep.
// All methods are safe for concurrent use.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*entry

	locksMu sync.Mutex
	locks   map[string]*turnLock
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a store whose entries expire ttl after their last write.
func NewStore(ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*entry),
		locks:   make(map[string]*turnLock),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a copy of the session's state. Missing and expired sessions yield the
// zero State; expired entries are evicted.
func (s *Store) Get(id string) State {
	if id == "" {
		return State{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(id)
	if e == nil {
		return State{}
	}
	return e.state.Clone()
}

// Update applies fn to the session's state and refreshes its TTL. The read-merge-write
// is atomic per store. The entry is created on first write. Sessions with an empty id
// are never stored.
func (s *Store) Update(id string, fn func(*State)) State {
	if id == "" {
		var st State
		fn(&st)
		return st
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(id)
	if e == nil {
		e = &entry{}
		s.entries[id] = e
	}
	fn(&e.state)
	e.touched = s.now()
	return e.state.Clone()
}

// Delete forgets a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Len returns the number of live sessions, evicting expired ones on the way.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id := range s.entries {
		if s.live(id) != nil {
			n++
		}
	}
	return n
}

// live returns the entry for id unless it expired. Caller must hold s.mu.
func (s *Store) live(id string) *entry {
	e, ok := s.entries[id]
	if !ok {
		return nil
	}
	if s.now().Sub(e.touched) > s.ttl {
		delete(s.entries, id)
		return nil
	}
	return e
}

// Lock serializes whole dialogue turns for one session id and returns the unlock
// function. Different ids never block each other.
func (s *Store) Lock(id string) (unlock func()) {
	s.locksMu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &turnLock{}
		s.locks[id] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.locksMu.Unlock()
	}
}
