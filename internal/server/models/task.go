package models

import "time"

// Task statuses accepted by the API.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// ValidTaskStatus reports whether s is one of the accepted statuses.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Task is a user-owned task. Description is optional; at rest it holds the
// base64 AES-GCM ciphertext, in API responses the decrypted plaintext (or
// nil when absent or undecryptable).
type Task struct {
	ID          string
	UserID      string
	Title       string
	Description *string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
