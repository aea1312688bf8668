package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the claims carried by every access token. The subject is the
// principal's login email; Email repeats it for clients that read the
// dedicated claim rather than "sub".
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email,omitempty"`
}

// NewClaims builds the claims for a token issued to subject at now.
func NewClaims(subject string, now time.Time, ttl time.Duration) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: subject,
	}
}

// IsExpired reports whether the claims are expired at now, that is whether
// exp <= now. Claims without an exp are treated as expired.
func IsExpired(c *Claims, now time.Time) bool {
	if c == nil || c.ExpiresAt == nil {
		return true
	}
	return !now.Before(c.ExpiresAt.Time)
}
