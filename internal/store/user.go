package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/efreitasn/bookswap/internal/domain"
)

// UserStore is a thread-safe in-memory store for users, keyed by user id
// with unique secondary indexes on lower-cased email and username.
type UserStore struct {
	mu         sync.RWMutex
	users      map[string]*domain.User
	byEmail    map[string]string // email → user_id
	byUsername map[string]string // username → user_id
}

// NewUserStore creates an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{
		users:      make(map[string]*domain.User),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
	}
}

// Create adds a user to the store. It returns domain.ErrUserAlreadyExists
// if the id, email or username is already taken.
func (s *UserStore) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(u.Email)
	username := strings.ToLower(u.Username)
	if _, exists := s.users[u.ID]; exists {
		return domain.ErrUserAlreadyExists
	}
	if _, exists := s.byEmail[email]; exists {
		return domain.ErrUserAlreadyExists
	}
	if _, exists := s.byUsername[username]; exists {
		return domain.ErrUserAlreadyExists
	}

	cp := *u
	s.users[u.ID] = &cp
	s.byEmail[email] = u.ID
	s.byUsername[username] = u.ID
	return nil
}

// Get retrieves a user by ID. It returns
// domain.ErrUserNotFound if the user does not exist.
func (s *UserStore) Get(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// GetByEmail retrieves a user by email, case-insensitively.
func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

// List returns all users ordered by creation time, then id.
func (s *UserStore) List(_ context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Delete removes a user and its secondary index entries.
func (s *UserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	delete(s.byEmail, strings.ToLower(u.Email))
	delete(s.byUsername, strings.ToLower(u.Username))
	return nil
}
