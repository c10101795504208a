package domain

import "time"

// Roles assignable to a user account.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID           string
	Email        string // login identifier, unique, case-insensitive
	Firstname    string
	Lastname     string
	PasswordHash string // argon2 encoded
	Role         string
	Enabled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
