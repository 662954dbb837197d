// Package user defines registered panel users and their persistence
// contract. Authentication is a bare password-hash check; no session or
// token state is kept server-side.
package user

import (
	"context"
	"fmt"
	"time"
)

// Roles. Every registration starts as RoleUser; RoleAdmin grants access to
// the admin panel and is assigned out of band.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Sentinel errors for user operations.
var (
	// ErrNotFound is returned when no user matches the given email.
	ErrNotFound = fmt.Errorf("user not found")
	// ErrEmailTaken is returned when registering an email that already
	// exists.
	ErrEmailTaken = fmt.Errorf("user with this email already exists")
)

// User is a registered account. PasswordHash is a bcrypt hash and never
// leaves the server.
type User struct {
	ID           int64
	FullName     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Repository defines persistence operations for users.
type Repository interface {
	// Create inserts a new user and returns it with its assigned ID.
	// Returns ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, u *User) (*User, error)
	// GetByEmail returns the user with the given email, or ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)
}
