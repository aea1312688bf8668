package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiry is the token lifetime used when none is configured (86,400,000 ms).
const DefaultExpiry = 86_400_000 * time.Millisecond

// MinSecretLength is the minimum HS256 key size in bytes (256 bits).
const MinSecretLength = 32

var (
	ErrInvalid      = errors.New("jwtx: invalid token")
	ErrWeakSecret   = errors.New("jwtx: signing secret shorter than 256 bits")
	ErrEmptySubject = errors.New("jwtx: empty subject")
)

// CodecConfig is the token configuration resolved once at startup.
type CodecConfig struct {
	// Secret is the shared HMAC key. It is read-only for the process lifetime;
	// changing it invalidates every outstanding token.
	Secret string

	// Expiry is added to the issue time to produce exp. Zero means DefaultExpiry.
	Expiry time.Duration
}

// Codec issues and parses HS256-signed tokens under a single static key.
// It is safe for concurrent use.
type Codec struct {
	key    []byte
	expiry time.Duration
	method jwt.SigningMethod
	parser *jwt.Parser
}

// NewCodec validates cfg and returns a ready Codec.
func NewCodec(cfg CodecConfig) (*Codec, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if cfg.Expiry < 0 {
		return nil, fmt.Errorf("jwtx: negative expiry %s", cfg.Expiry)
	}
	expiry := cfg.Expiry
	if expiry == 0 {
		expiry = DefaultExpiry
	}

	return &Codec{
		key:    []byte(cfg.Secret),
		expiry: expiry,
		method: jwt.SigningMethodHS256,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithStrictDecoding(),
			// Expiry is checked separately by IsExpired.
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// Expiry returns the configured token lifetime.
func (c *Codec) Expiry() time.Duration { return c.expiry }

// Issue signs a token for subject with iat=now and exp=now+expiry.
func (c *Codec) Issue(subject string, now time.Time) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject
	}

	claims := NewClaims(subject, now, c.expiry)
	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// ParseAndVerify decodes token and checks its signature. It does not check
// expiry. Every decoding or verification failure is reported as ErrInvalid.
func (c *Codec) ParseAndVerify(token string) (*Claims, error) {
	parsed, err := c.parser.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return c.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}

// Valid reports whether token verifies under the key and is unexpired at now,
// without resolving its subject.
func (c *Codec) Valid(token string, now time.Time) bool {
	claims, err := c.ParseAndVerify(token)
	if err != nil {
		return false
	}
	return !IsExpired(claims, now)
}
