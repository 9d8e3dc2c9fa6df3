// Package memory implementa core.UserStore in-process.
// Para desarrollo y tests; producción usa el adapter postgres.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/dropDatabas3/guardia/internal/store/core"
)

type Store struct {
	mu      sync.RWMutex
	byID    map[string]*core.User
	byEmail map[string]*core.User
}

func New() *Store {
	return &Store{
		byID:    make(map[string]*core.User),
		byEmail: make(map[string]*core.User),
	}
}

// Put agrega o reemplaza un usuario. Pensado para seeds y tests.
func (s *Store) Put(u *core.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.byID[u.ID] = &cp
	s.byEmail[strings.ToLower(u.Email)] = &cp
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}
