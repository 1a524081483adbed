package users

import "time"

// Credential is a stored login. PasswordHash is a bcrypt hash.
type Credential struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}
