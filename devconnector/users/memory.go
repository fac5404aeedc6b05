package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// in-process Store used when no DATABASE_URL is configured and in tests
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string
}

// creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[NormalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}

	return copyUser(s.byID[id]), nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}

	return copyUser(user), nil
}

func (s *MemoryStore) Create(_ context.Context, user *User) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := NormalizeEmail(user.Email)
	if _, exists := s.byEmail[email]; exists {
		return nil, ErrEmailTaken
	}

	created := copyUser(user)
	created.ID = uuid.NewString()
	created.Email = email
	created.CreatedAt = time.Now().UTC()

	s.byID[created.ID] = created
	s.byEmail[email] = created.ID

	return copyUser(created), nil
}

func copyUser(u *User) *User {
	c := *u
	return &c
}
