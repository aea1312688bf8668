package cryptox

import (
	"crypto/sha256"
	"encoding/base64"
)

// Fingerprint returns a short, deterministic SHA-256 digest of a token so it
// can be correlated in logs without writing the bearer credential itself.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:12])
}
