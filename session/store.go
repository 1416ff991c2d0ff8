// Package session provides the volatile per-conversation state store.
// Sessions are created lazily on first reference, refreshed on every
// access, and garbage-collected by an amortized sweep that piggybacks on
// GetOrCreate rather than running as a dedicated task. The store is
// volatile; a process restart loses all sessions.
package session

import (
	"sync"
	"time"

	"github.com/hungryfork/concierge/core"
	"github.com/hungryfork/concierge/logging"
)

// Options configures a Store.
type Options struct {
	// Retention is the inactivity window after which a session is
	// eligible for removal.
	Retention time.Duration
	// SweepInterval is the minimum wall-clock distance between two
	// expiry scans.
	SweepInterval time.Duration
	Logger        logging.Logger
}

// Store is a concurrency-safe in-memory session map. All operations on a
// missing session transparently create one; there is no error path.
type Store struct {
	mu        sync.Mutex
	sessions  map[string]*core.Session
	retention time.Duration
	interval  time.Duration
	lastSweep time.Time
	logger    logging.Logger

	now func() time.Time // swapped in tests
}

// NewStore constructs an empty store. Defaults: 2h retention, 1h sweep
// interval, no-op logger.
func NewStore(optFns ...func(o *Options)) *Store {
	opts := Options{
		Retention:     2 * time.Hour,
		SweepInterval: time.Hour,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{
		sessions:  make(map[string]*core.Session),
		retention: opts.Retention,
		interval:  opts.SweepInterval,
		lastSweep: time.Now(),
		logger:    opts.Logger,
		now:       time.Now,
	}
}

// GetOrCreate returns the session for id, creating it in the greeting stage
// if absent. The session's last-active timestamp is refreshed as a side
// effect, and an expiry sweep runs if one is due. The sweep holds the lock
// only for the duration of a single scan.
func (s *Store) GetOrCreate(id string) *core.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	sess, ok := s.sessions[id]
	if !ok {
		sess = core.NewSession(id, now)
		s.sessions[id] = sess
	}
	sess.LastActive = now
	return sess
}

// SetStage updates the conversation stage for id, creating the session if
// needed.
func (s *Store) SetStage(id string, stage core.Stage) {
	s.GetOrCreate(id).SetStage(stage)
}

// MergeContext merges a single key/value pair into the session's context
// map, creating the session if needed.
func (s *Store) MergeContext(id string, key string, value any) {
	s.GetOrCreate(id).SetContext(key, value)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Contains reports whether a session exists without refreshing it.
func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	return ok
}

// sweepLocked removes sessions idle beyond the retention window. It runs at
// most once per sweep interval; callers must hold s.mu.
func (s *Store) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) <= s.interval {
		return
	}
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.LastActive) > s.retention {
			delete(s.sessions, id)
			removed++
		}
	}
	s.lastSweep = now
	s.logger.Info("session.sweep", "removed", removed, "remaining", len(s.sessions))
}
