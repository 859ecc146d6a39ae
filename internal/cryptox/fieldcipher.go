package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const (
	fieldKeyLen = 32 // AES-256
	nonceLen    = 12
	tagLen      = 16
)

// FieldCipher encrypts and decrypts a single optional string column with
// AES-256-GCM. The stored form is base64(nonce ‖ tag ‖ ciphertext) with a
// fresh random nonce per call; reusing a nonce under the same key would void
// the cipher's confidentiality, so the nonce is always drawn from
// crypto/rand.
type FieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher builds a cipher from a 64-character hex key. A missing or
// mis-sized key is a configuration error surfaced at startup, not per call.
func NewFieldCipher(hexKey string) (*FieldCipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("field encryption key is not valid hex: %w", err)
	}
	if len(key) != fieldKeyLen {
		return nil, fmt.Errorf("field encryption key must be %d hex characters (%d bytes)", fieldKeyLen*2, fieldKeyLen)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("field cipher init: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("field cipher init: %w", err)
	}
	return &FieldCipher{aead: aead}, nil
}

// Encrypt returns the stored form of plaintext. A nil plaintext passes
// through as nil so optional fields round-trip without a sentinel
// ciphertext.
func (c *FieldCipher) Encrypt(plaintext *string) (*string, error) {
	if plaintext == nil {
		return nil, nil
	}

	nonce := make([]byte, nonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("nonce generation: %w", err)
	}

	// Seal appends the tag after the ciphertext; the stored layout puts the
	// tag between nonce and ciphertext, so reorder here.
	sealed := c.aead.Seal(nil, nonce, []byte(*plaintext), nil)
	ct, tag := sealed[:len(sealed)-tagLen], sealed[len(sealed)-tagLen:]

	out := make([]byte, 0, nonceLen+tagLen+len(ct))
	out = append(out, nonce...)
	out = append(out, tag...)
	out = append(out, ct...)

	enc := base64.StdEncoding.EncodeToString(out)
	return &enc, nil
}

// Decrypt reverses Encrypt. Any failure (tampered data, wrong key, corrupt
// or truncated input) yields nil rather than an error: callers treat the
// value as unavailable instead of letting a decrypt failure cross a response
// boundary.
func (c *FieldCipher) Decrypt(ciphertext *string) *string {
	if ciphertext == nil {
		return nil
	}

	buf, err := base64.StdEncoding.DecodeString(*ciphertext)
	if err != nil || len(buf) < nonceLen+tagLen {
		return nil
	}

	nonce := buf[:nonceLen]
	tag := buf[nonceLen : nonceLen+tagLen]
	ct := buf[nonceLen+tagLen:]

	sealed := make([]byte, 0, len(ct)+tagLen)
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)

	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil
	}
	s := string(plain)
	return &s
}
