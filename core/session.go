package core

import (
	"sync"
	"time"
)

// Stage tracks where a conversation is in its lifecycle.
type Stage string

const (
	// StageGreeting is the initial stage of a freshly created session.
	StageGreeting Stage = "greeting"
	// StageActive is entered once the customer has been greeted.
	StageActive Stage = "active"
	// StageEnded is entered when the customer says goodbye.
	StageEnded Stage = "ended"
)

// Session is the ephemeral per-conversation state container. It tracks a
// free-form context map (last query, inferred preferences, budget hints)
// plus creation/activity timestamps and the conversation stage.
//
// Sessions are owned by session.Store. Stage and the context map are
// guarded by the session's own mutex and safe for concurrent access; the
// timestamp fields are written only under the store's lock.
type Session struct {
	ID         string
	Created    time.Time
	LastActive time.Time

	mu      sync.RWMutex
	stage   Stage
	context map[string]any
}

// NewSession creates a session in the greeting stage with an empty context.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:         id,
		Created:    now,
		LastActive: now,
		stage:      StageGreeting,
		context:    map[string]any{},
	}
}

// Stage returns the current conversation stage.
func (s *Session) Stage() Stage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stage
}

// SetStage advances the conversation stage.
func (s *Session) SetStage(stage Stage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage = stage
}

// Context returns the value stored under key and whether it exists.
func (s *Session) Context(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.context[key]
	return v, ok
}

// SetContext merges a single key/value pair into the context map.
func (s *Session) SetContext(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context[key] = value
}

// ContextString returns the context value under key if it is a non-empty
// string, otherwise "".
func (s *Session) ContextString(key string) string {
	v, ok := s.Context(key)
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}
