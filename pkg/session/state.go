package session

import "sync"

// State holds the user and validity flag. Both are always written together.
type State struct {
	mu        sync.RWMutex
	user      User
	validated bool
}

// NewState returns a state seeded with the given validity.
func NewState(validated bool) *State {
	return &State{validated: validated}
}

// Set replaces user and validity.
func (s *State) Set(user User, validated bool) {
	s.mu.Lock()
	s.user = user
	s.validated = validated
	s.mu.Unlock()
}

// Clear drops the user and marks the session invalid.
func (s *State) Clear() { s.Set(nil, false) }

// Snapshot returns the current user and validity.
func (s *State) Snapshot() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.validated
}

func (s *State) User() User {
	u, _ := s.Snapshot()
	return u
}

func (s *State) Validated() bool {
	_, v := s.Snapshot()
	return v
}
