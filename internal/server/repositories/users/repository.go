// Package users declares the repository contract for account storage.
package users

import (
	"context"

	"taskvault/internal/server/models"
)

type Repository interface {
	// Create inserts a new user. A duplicate email yields common.ErrorConflict.
	Create(ctx context.Context, email string, passwordHash string) (*models.User, error)

	// GetByEmail returns the user with the given email, including the
	// password hash for credential verification. Absent users yield
	// common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the safe projection of a user (no password hash).
	// Absent users yield common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
