package users

import "context"

// Repo is the storage contract for identity records.
type Repo interface {
	// Create stores a new user. A duplicate email fails with
	// errors.ErrEmailTaken.
	Create(ctx context.Context, user *User) error

	// GetByID returns the user for an id, or errors.ErrUserNotFound.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail returns the user for an email, or errors.ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)
}
