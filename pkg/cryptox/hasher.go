package cryptox

import (
	"errors"
	"fmt"
	"strings"
)

// Algorithm names a supported password hashing scheme.
type Algorithm string

const (
	Argon2id Algorithm = "argon2id"
	Bcrypt   Algorithm = "bcrypt"
)

var (
	ErrMismatch      = errors.New("cryptox: password does not match")
	ErrMalformedHash = errors.New("cryptox: malformed password hash")
	ErrUnknownAlg    = errors.New("cryptox: unknown password hashing algorithm")
)

// ParseAlgorithm maps a configuration value to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case "", Argon2id:
		return Argon2id, nil
	case Bcrypt:
		return Bcrypt, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlg, s)
	}
}

// PasswordHasher produces self-contained salted password hashes. New hashes
// use Algorithm; Verify accepts any supported algorithm, detected from the
// stored hash prefix, so existing hashes keep working after a switch.
//
// A PasswordHasher holds no mutable state and is safe for concurrent use.
type PasswordHasher struct {
	Algorithm Algorithm

	// Pepper is a server-side secret mixed into every password before hashing.
	// Changing it invalidates all stored hashes.
	Pepper string

	// BcryptCost overrides bcrypt.DefaultCost when non-zero.
	BcryptCost int
}

// NewPasswordHasher returns a hasher for alg using pepper.
func NewPasswordHasher(alg Algorithm, pepper string) *PasswordHasher {
	return &PasswordHasher{Algorithm: alg, Pepper: pepper}
}

// Hash returns an encoded hash of plaintext using the configured algorithm.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	switch h.Algorithm {
	case Bcrypt:
		return hashBcrypt(plaintext, h.Pepper, h.BcryptCost)
	case Argon2id, "":
		return hashArgon2id(plaintext, h.Pepper)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlg, h.Algorithm)
	}
}

// Check compares plaintext against encoded. It returns ErrMismatch for a wrong
// password and ErrMalformedHash when encoded cannot be parsed.
func (h *PasswordHasher) Check(plaintext, encoded string) error {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		return verifyArgon2id(plaintext, encoded, h.Pepper)
	case isBcryptHash(encoded):
		return verifyBcrypt(plaintext, encoded, h.Pepper)
	default:
		return ErrMalformedHash
	}
}

// Verify reports whether plaintext matches encoded. Malformed hashes never
// match.
func (h *PasswordHasher) Verify(plaintext, encoded string) bool {
	return h.Check(plaintext, encoded) == nil
}
