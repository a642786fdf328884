package main

import (
	"sync"

	"github.com/google/uuid"

	"github.com/avagus/change-detector/draw"
)

// sessionStore keeps drawing sessions in memory, keyed by id. Sessions are
// per-process drafts; nothing here needs to survive a restart. The mutex
// serializes transitions on the same session, which arrive one at a time
// from the UI anyway.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]draw.State
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]draw.State)}
}

// create starts a new session already in Drawing mode.
func (s *sessionStore) create() (string, draw.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	st := draw.Start(draw.State{})
	s.sessions[id] = st
	return id, st
}

func (s *sessionStore) get(id string) (draw.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[id]
	return st, ok
}

// update applies a transition and returns the new state.
func (s *sessionStore) update(id string, fn func(draw.State) draw.State) (draw.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[id]
	if !ok {
		return draw.State{}, false
	}
	st = fn(st)
	s.sessions[id] = st
	return st, true
}
