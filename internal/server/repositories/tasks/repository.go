// Package tasks declares the repository contract for task storage.
// Descriptions are stored as ciphertext; the repository is agnostic to the
// encryption and moves opaque strings.
package tasks

import (
	"context"

	"taskvault/internal/server/models"
)

// ListFilter narrows and pages a task listing. Zero values mean "no filter".
type ListFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	// Create inserts a task and returns it with generated fields populated.
	Create(ctx context.Context, task *models.Task) (*models.Task, error)

	// List returns the user's tasks matching the filter, newest first,
	// together with the total match count before paging.
	List(ctx context.Context, userID string, filter ListFilter) ([]*models.Task, int64, error)

	// Get returns a task scoped to its owner. A foreign or missing id
	// yields common.ErrorNotFound; ownership is not revealed.
	Get(ctx context.Context, id string, userID string) (*models.Task, error)

	// Owner returns the owning user id of a task regardless of caller, so
	// mutating endpoints can distinguish 404 from 403. Missing tasks yield
	// common.ErrorNotFound.
	Owner(ctx context.Context, id string) (string, error)

	// Update applies the non-nil fields to the owner's task and returns the
	// updated row.
	Update(ctx context.Context, id string, userID string, title, description, status *string) (*models.Task, error)

	// Delete removes the owner's task.
	Delete(ctx context.Context, id string, userID string) error
}
