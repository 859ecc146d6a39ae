// Package auth mints and verifies the signed tokens backing a session:
// short-lived access tokens and longer-lived refresh tokens, each class
// signed with its own HS256 secret so a leaked secret of one class cannot
// forge tokens of the other.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskvault/internal/common"
)

type Claims struct {
	jwt.RegisteredClaims
}

// TokenManager issues and parses both token classes.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssueAccess returns a signed access token for userID.
func (m *TokenManager) IssueAccess(userID string) (string, error) {
	return generate(userID, m.accessSecret, m.accessTTL)
}

// IssueRefresh returns a signed refresh token for userID.
func (m *TokenManager) IssueRefresh(userID string) (string, error) {
	return generate(userID, m.refreshSecret, m.refreshTTL)
}

// ParseAccess verifies an access token and returns its subject.
func (m *TokenManager) ParseAccess(token string) (string, error) {
	return parse(token, m.accessSecret)
}

// ParseRefresh verifies a refresh token and returns its subject.
func (m *TokenManager) ParseRefresh(token string) (string, error) {
	return parse(token, m.refreshSecret)
}

// RefreshTTL exposes the refresh validity so the ledger records the same
// expiry that is baked into the token.
func (m *TokenManager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

// AccessTTL exposes the access validity for cookie max-age.
func (m *TokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

func generate(userID string, secret []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
	})
	return token.SignedString(secret)
}

func parse(tokenString string, secret []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", common.ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}

// HashToken returns the hex sha256 of a raw token string. The ledger stores
// only this hash, so a storage compromise never yields usable tokens.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
