// Package cryptox holds the credential and field-encryption primitives:
// bcrypt password digests and the AES-GCM cipher applied to stored task
// descriptions.
package cryptox

import "golang.org/x/crypto/bcrypt"

// PasswordHashCost is the bcrypt work factor used for all password digests.
const PasswordHashCost = 12

// HashPassword returns a salted one-way bcrypt digest of password.
// Length policy is enforced by the caller before hashing.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether password matches the stored bcrypt digest.
func CheckPassword(password string, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
