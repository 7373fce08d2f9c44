package repository

import (
	"context"
	"sync"

	"github.com/allisson/sessions/internal/user/domain"
)

// MemoryUserRepository keeps users in process memory. It backs tests and the
// single-process "memory" deployment mode.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byName  map[string]*domain.User
	byEmail map[string]*domain.User
}

// NewMemoryUserRepository creates an empty MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byName:  make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

// Create stores a copy of user. Usernames and emails are unique.
func (r *MemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[user.Username]; ok {
		return domain.ErrUserAlreadyExists
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return domain.ErrUserAlreadyExists
	}

	stored := *user
	r.byName[user.Username] = &stored
	r.byEmail[user.Email] = &stored
	return nil
}

func (r *MemoryUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	found := *user
	return &found, nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	found := *user
	return &found, nil
}
