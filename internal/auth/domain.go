package auth

import "time"

// User represents a staff account.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
