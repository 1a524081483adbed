package users

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	users  map[string]Credential
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[string]Credential)}
}

func (r *MemoryRepo) Create(ctx context.Context, username, passwordHash string) (Credential, error) {
	if err := ctx.Err(); err != nil {
		return Credential{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[username]; ok {
		return Credential{}, ErrAlreadyExists
	}
	r.nextID++
	cred := Credential{
		ID:           r.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.users[username] = cred
	return cred, nil
}

func (r *MemoryRepo) GetByUsername(ctx context.Context, username string) (Credential, error) {
	if err := ctx.Err(); err != nil {
		return Credential{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	cred, ok := r.users[username]
	if !ok {
		return Credential{}, ErrNotFound
	}
	return cred, nil
}
