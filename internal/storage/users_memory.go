package storage

import (
	"context"
	"sync"
	"time"

	"github.com/bookrack/bookrack/internal/models/user"
	"github.com/google/uuid"
)

type MemoryUserStore struct {
	mu      sync.RWMutex
	byEmail map[string]*user.User
	byID    map[string]*user.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byEmail: make(map[string]*user.User),
		byID:    make(map[string]*user.User),
	}
}

func (s *MemoryUserStore) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.byEmail[email]
	if !exists {
		return nil, nil
	}

	return u, nil
}

func (s *MemoryUserStore) GetByID(ctx context.Context, id string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.byID[id]
	if !exists {
		return nil, nil
	}

	return u, nil
}

func (s *MemoryUserStore) Create(ctx context.Context, email, passwordHash string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Existence is re-checked under the lock so two concurrent signups for
	// the same email cannot both win.
	if _, exists := s.byEmail[email]; exists {
		return nil, ErrDuplicateUser
	}

	u := &user.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}

	s.byEmail[email] = u
	s.byID[u.ID] = u

	return u, nil
}
