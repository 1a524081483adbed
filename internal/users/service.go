package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/NancyCima/Azure-Dashboard/internal/shared/auth"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/telemetry"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBadPassword        = fmt.Errorf("%w: password mismatch", ErrInvalidCredentials)
	ErrUnknownUser        = fmt.Errorf("%w: unknown user", ErrInvalidCredentials)
)

// Verifier checks a username and password pair.
type Verifier interface {
	Verify(ctx context.Context, username, password string) error
}

type Service struct {
	Repo   Repo
	Issuer *auth.Issuer
	Logger telemetry.Logger
}

func NewService(repo Repo, issuer *auth.Issuer, logger telemetry.Logger) *Service {
	if logger == nil {
		logger = telemetry.Default()
	}
	return &Service{Repo: repo, Issuer: issuer, Logger: logger}
}

// Verify returns nil on a match, ErrUnknownUser or ErrBadPassword on a
// mismatch, and any other error when the store fails.
func (s *Service) Verify(ctx context.Context, username, password string) error {
	cred, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrUnknownUser
		}
		return fmt.Errorf("load credential: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return ErrBadPassword
	}
	return nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if err := s.Verify(ctx, username, password); err != nil {
		s.Logger.Warn("users.login_failed", map[string]any{"username": username, "reason": err.Error()})
		return "", err
	}
	token, err := s.Issuer.Issue(username)
	if err != nil {
		return "", err
	}
	s.Logger.Info("users.login", map[string]any{"username": username})
	return token, nil
}

// Register hashes password and stores a new credential.
func (s *Service) Register(ctx context.Context, username, password string) (Credential, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Credential{}, errors.New("username and password are required")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return Credential{}, err
	}
	return s.Repo.Create(ctx, username, hash)
}

// HashPassword returns a bcrypt hash at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
