package models

import "time"

// RefreshToken is one outstanding refresh token. Only the sha256 hash of the
// raw token string is ever stored.
type RefreshToken struct {
	ID        int64
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
