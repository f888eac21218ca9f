package auth

import "strings"

// CredentialKey identifies a user by username and password. It is the lookup
// key of the user repository: a user matches when the username is equal and
// the password verifies against the stored hash.
type CredentialKey struct {
	Username string
	Password string
}

// NewCredentialKey builds a key with the username trimmed.
func NewCredentialKey(username, password string) CredentialKey {
	return CredentialKey{Username: strings.TrimSpace(username), Password: password}
}

// Valid reports whether both parts are present.
func (k CredentialKey) Valid() bool {
	return k.Username != "" && k.Password != ""
}
