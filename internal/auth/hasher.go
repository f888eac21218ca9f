package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Supported hasher names for configuration.
const (
	HasherSHA256 = "sha256"
	HasherBcrypt = "bcrypt"
)

// CredentialHasher turns a plaintext password into the stored credential and
// checks a candidate password against it.
type CredentialHasher interface {
	Hash(password string) (string, error)
	Verify(stored, password string) bool
}

// SHA256Hasher is the unsalted digest used by existing databases: SHA-256 over
// the UTF-8 password bytes, rendered as lowercase hex. It is deterministic, so
// the same password always yields the same stored value.
type SHA256Hasher struct{}

// Hash implements CredentialHasher.
func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

// Verify implements CredentialHasher.
func (h SHA256Hasher) Verify(stored, password string) bool {
	candidate, _ := h.Hash(password)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// BcryptHasher stores salted bcrypt hashes.
type BcryptHasher struct {
	Cost int
}

// Hash implements CredentialHasher.
func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify implements CredentialHasher.
func (BcryptHasher) Verify(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// NewHasher returns the hasher registered under name.
func NewHasher(name string) (CredentialHasher, error) {
	switch strings.ToLower(name) {
	case "", HasherSHA256:
		return SHA256Hasher{}, nil
	case HasherBcrypt:
		return BcryptHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}
