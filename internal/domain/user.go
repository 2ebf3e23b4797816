package domain

import (
	"context"
	"time"
)

// User represents a registered account. PasswordHash is a bcrypt digest and
// never leaves the service layer.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository defines persistence for users and their role assignments.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListUsers(ctx context.Context) ([]User, error)
	// ReplaceRoles swaps the user's role set for the given one.
	ReplaceRoles(ctx context.Context, userID string, roles []string) error
}
