package handler

import (
	"context"
	"sync"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// memStore backs the handler tests. It implements both
// auth.CredentialStore and UserStore so one fixture can serve the
// whole register/login/verify flow.
type memStore struct {
	mu     sync.Mutex
	nextID uint64
	users  []*model.User
}

func newMemStore() *memStore {
	return &memStore{nextID: 1}
}

func (s *memStore) Create(_ context.Context, username, email, passwordHash string, role model.Role) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return 0, repository.ErrDuplicateAccount
		}
	}
	u := &model.User{
		ID:           s.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	s.nextID++
	s.users = append(s.users, u)
	return u.ID, nil
}

func (s *memStore) FindByUsernameOrEmail(_ context.Context, identifier string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == identifier || u.Email == identifier {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) UpdateTOTPSecret(_ context.Context, userID uint64, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == userID {
			u.TOTPSecret = secret
			return nil
		}
	}
	return repository.ErrNotFound
}
