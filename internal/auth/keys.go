// Package auth implements API-key authentication for the REST API:
// key generation, bcrypt hashing, and the Bearer middleware.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	apiKeyBytes = 32
	bcryptCost  = 12
)

// GenerateAPIKey generates a cryptographically secure API key.
// The key is 32 random bytes, hex-encoded to 64 characters.
func GenerateAPIKey() (string, error) {
	b := make([]byte, apiKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate API key: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashAPIKey hashes a plaintext API key using bcrypt with cost factor 12.
// The hash is what operators put in the config; plaintext keys are never
// stored.
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash API key: %w", err)
	}
	return string(hash), nil
}

// Keychain holds the bcrypt hashes of every accepted API key.
type Keychain struct {
	hashes []string
}

// NewKeychain builds a Keychain from configured bcrypt hashes.
func NewKeychain(hashes []string) *Keychain {
	return &Keychain{hashes: hashes}
}

// Enabled reports whether any key is configured. An empty keychain
// means authentication is disabled.
func (k *Keychain) Enabled() bool {
	return len(k.hashes) > 0
}

// Verify checks a plaintext API key against every configured hash and
// reports whether one matches.
func (k *Keychain) Verify(key string) bool {
	for _, h := range k.hashes {
		if bcrypt.CompareHashAndPassword([]byte(h), []byte(key)) == nil {
			return true
		}
	}
	return false
}
