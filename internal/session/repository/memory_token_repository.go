package repository

import (
	"context"
	"sync"

	sessionDomain "github.com/allisson/sessions/internal/session/domain"
)

// MemoryTokenRepository keeps tokens in process memory. Every operation runs under a
// single lock, so DeleteAllForUser is atomic with respect to Save and Exists.
type MemoryTokenRepository struct {
	mu     sync.RWMutex
	owners map[string]string              // token -> username
	byUser map[string]map[string]struct{} // username -> tokens
}

// NewMemoryTokenRepository creates an empty MemoryTokenRepository.
func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{
		owners: make(map[string]string),
		byUser: make(map[string]map[string]struct{}),
	}
}

func (r *MemoryTokenRepository) Exists(ctx context.Context, token string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.owners[token]
	return ok, nil
}

func (r *MemoryTokenRepository) Save(ctx context.Context, token, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.owners[token]; ok {
		if owner != username {
			return sessionDomain.ErrDuplicateToken
		}
		return nil
	}

	r.owners[token] = username
	tokens, ok := r.byUser[username]
	if !ok {
		tokens = make(map[string]struct{})
		r.byUser[username] = tokens
	}
	tokens[token] = struct{}{}
	return nil
}

func (r *MemoryTokenRepository) DeleteAllForUser(ctx context.Context, username string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tokens := r.byUser[username]
	for token := range tokens {
		delete(r.owners, token)
	}
	delete(r.byUser, username)
	return int64(len(tokens)), nil
}
