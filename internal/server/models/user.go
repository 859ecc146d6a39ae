package models

import "time"

// User is a registered account. PasswordHash never leaves the service layer;
// handlers expose only id, email, and created_at.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
