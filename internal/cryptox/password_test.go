package cryptox

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	digest, err := HashPassword("supersecret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if digest == "supersecret" || !strings.HasPrefix(digest, "$2") {
		t.Fatalf("digest does not look like bcrypt: %q", digest)
	}
	if !CheckPassword("supersecret", digest) {
		t.Fatalf("correct password rejected")
	}
	if CheckPassword("wrongpassword", digest) {
		t.Fatalf("wrong password accepted")
	}
}

func TestHashPassword_UsesConfiguredCost(t *testing.T) {
	digest, err := HashPassword("supersecret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil {
		t.Fatalf("cost extraction failed: %v", err)
	}
	if cost != PasswordHashCost {
		t.Fatalf("expected cost %d, got %d", PasswordHashCost, cost)
	}
}

func TestHashPassword_SaltedDigestsDiffer(t *testing.T) {
	a, err := HashPassword("supersecret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := HashPassword("supersecret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatalf("two digests of the same password are identical; salt missing")
	}
}

func TestCheckPassword_MalformedDigest(t *testing.T) {
	if CheckPassword("anything", "not-a-bcrypt-digest") {
		t.Fatalf("malformed digest accepted")
	}
}
