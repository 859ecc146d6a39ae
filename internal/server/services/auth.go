// Package services contains server-side business logic. This file implements
// AuthService: the register/login/refresh/logout state machine over the
// credential store, the token manager, and the refresh-token ledger.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"taskvault/internal/common"
	"taskvault/internal/cryptox"
	"taskvault/internal/dbx"
	"taskvault/internal/server/auth"
	"taskvault/internal/server/models"
	"taskvault/internal/server/repositories/repomanager"
)

const minPasswordLength = 8

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint tokens
// - Refresh: rotate refresh tokens and mint new access tokens
// - Logout: revoke a refresh token
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenManager

	// dummyDigest is compared against on login with an unknown email so the
	// miss path costs one bcrypt verification too, keeping timing uniform.
	dummyDigest string
}

// NewAuthService constructs an AuthService using repositories and the token
// manager.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenManager) *AuthService {
	dummy, _ := cryptox.HashPassword("taskvault.anti-enumeration.dummy")
	return &AuthService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		dummyDigest: dummy,
	}
}

// Register validates the credentials, hashes the password, and persists a
// new user. Duplicate emails yield common.ErrorConflict whether caught by
// the pre-check or by the unique constraint.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, common.ErrorPasswordTooShort
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrorConflict
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	digest, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := repo.Create(ctx, email, digest)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and, on success, mints a token pair and
// records the refresh token hash in the ledger. Unknown email and wrong
// password are indistinguishable to the caller: same error, same bcrypt
// cost.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		// Malformed emails take the same bcrypt detour as unknown ones so
		// every failure path costs one compare.
		cryptox.CheckPassword(password, s.dummyDigest)
		return nil, common.ErrorUnauthorized
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.CheckPassword(password, s.dummyDigest)
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !cryptox.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	return s.issueTokenPair(ctx, user.ID, s.db)
}

// Refresh validates a raw refresh token, rotates its ledger entry inside a
// transaction, and returns a fresh pair. Every failure collapses to
// common.ErrorUnauthorized: a bad signature, an unknown or expired hash, or
// losing a concurrent rotation race all look the same to the caller.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (*TokenPair, error) {
	if _, err := s.tokens.ParseRefresh(rawRefresh); err != nil {
		return nil, common.ErrorUnauthorized
	}

	hash := auth.HashToken(rawRefresh)

	record, err := s.repomanager.RefreshTokens(s.db).Find(ctx, hash)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if record.ExpiresAt.Before(time.Now()) {
		return nil, common.ErrorUnauthorized
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.RefreshTokens(tx)

		deleted, err := repo.Delete(ctx, hash)
		if err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		if !deleted {
			// A concurrent refresh with the same token already rotated it.
			// Exactly one caller may win; this one observed a replay.
			return common.ErrorUnauthorized
		}

		var genErr error
		pair, genErr = s.issueTokenPair(ctx, record.UserID, tx)
		return genErr
	})
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	return pair, nil
}

// Logout revokes the ledger entry for a raw refresh token. Revoking an
// absent, expired, or already-rotated token is a no-op: logout never fails
// from the caller's point of view.
func (s *AuthService) Logout(ctx context.Context, rawRefresh string) error {
	if rawRefresh == "" {
		return nil
	}
	_, err := s.repomanager.RefreshTokens(s.db).Delete(ctx, auth.HashToken(rawRefresh))
	return err
}

// UserByID resolves the safe projection of a user, used by the session
// middleware on every request.
func (s *AuthService) UserByID(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// issueTokenPair mints both tokens and records the refresh hash through the
// given handle, which may be the pool or an open transaction.
func (s *AuthService) issueTokenPair(ctx context.Context, userID string, db dbx.DBTX) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.tokens.IssueRefresh(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(db).Create(ctx, userID, auth.HashToken(refresh), s.tokens.RefreshTTL()); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", common.ErrorInvalidEmail
	}
	return email, nil
}
