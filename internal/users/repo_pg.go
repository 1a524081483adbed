package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// PGRepo stores credentials in Postgres through the pgx or lib/pq driver.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, username, passwordHash string) (Credential, error) {
	const query = `
INSERT INTO users (username, password_hash, created_at)
VALUES ($1, $2, now())
RETURNING id, created_at`
	cred := Credential{Username: username, PasswordHash: passwordHash}
	err := r.DB.QueryRowContext(ctx, query, username, passwordHash).Scan(&cred.ID, &cred.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Credential{}, ErrAlreadyExists
		}
		return Credential{}, err
	}
	return cred, nil
}

func (r *PGRepo) GetByUsername(ctx context.Context, username string) (Credential, error) {
	const query = `
SELECT id, username, password_hash, created_at
FROM users
WHERE username = $1
LIMIT 1`
	return scanCredential(r.DB.QueryRowContext(ctx, query, username))
}

func scanCredential(row *sql.Row) (Credential, error) {
	var cred Credential
	err := row.Scan(&cred.ID, &cred.Username, &cred.PasswordHash, &cred.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Credential{}, ErrNotFound
		}
		return Credential{}, err
	}
	return cred, nil
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
