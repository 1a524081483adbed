package users

import (
	"context"
	"database/sql"
	"time"
)

// MySQLRepo stores credentials in MySQL.
type MySQLRepo struct {
	DB  *sql.DB
	now func() time.Time
}

func (r *MySQLRepo) Create(ctx context.Context, username, passwordHash string) (Credential, error) {
	const query = `INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`
	now := time.Now
	if r.now != nil {
		now = r.now
	}
	createdAt := now().UTC().Truncate(time.Second)
	res, err := r.DB.ExecContext(ctx, query, username, passwordHash, createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Credential{}, ErrAlreadyExists
		}
		return Credential{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Credential{}, err
	}
	return Credential{ID: id, Username: username, PasswordHash: passwordHash, CreatedAt: createdAt}, nil
}

func (r *MySQLRepo) GetByUsername(ctx context.Context, username string) (Credential, error) {
	const query = `SELECT id, username, password_hash, created_at FROM users WHERE username = ? LIMIT 1`
	return scanCredential(r.DB.QueryRowContext(ctx, query, username))
}
