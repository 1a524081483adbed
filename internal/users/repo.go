package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
)

// Repo reads and creates credentials.
type Repo interface {
	GetByUsername(ctx context.Context, username string) (Credential, error)
	Create(ctx context.Context, username, passwordHash string) (Credential, error)
}
