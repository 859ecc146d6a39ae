// Package refreshtokens declares the ledger contract for outstanding
// refresh tokens. Only one-way hashes of tokens are stored; raw tokens
// never touch persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"taskvault/internal/server/models"
)

type Repository interface {
	// Create stores a new ledger entry for userID with an expiry of
	// now+validity. tokenHash is the hex sha256 of the raw token.
	Create(ctx context.Context, userID string, tokenHash string, validity time.Duration) error

	// Find looks up a ledger entry by token hash. Absent entries yield
	// common.ErrorNotFound. Expiry is checked by the caller; expired rows
	// are garbage only on lookup, never swept.
	Find(ctx context.Context, tokenHash string) (*models.RefreshToken, error)

	// Delete removes a ledger entry by token hash and reports whether a row
	// was actually deleted. Inside a rotation transaction, false means a
	// concurrent rotation already consumed the token.
	Delete(ctx context.Context, tokenHash string) (bool, error)
}
