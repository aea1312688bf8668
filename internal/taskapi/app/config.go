package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/store/cache"
	"github.com/aussiebroadwan/taskapi/pkg/cryptox"
	"github.com/aussiebroadwan/taskapi/pkg/httpx"
	"github.com/aussiebroadwan/taskapi/pkg/jwtx"
)

// DefaultJWTSecret is a development placeholder. Any real deployment must
// set AUTH_JWT_SECRET.
const DefaultJWTSecret = "mySecretKey1234567890mySecretKey1234567890"

type Config struct {
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	DatabaseFile        string        // Path to SQLite database file, or ":memory:" (default: ./taskapi.db)

	Token jwtx.CodecConfig // HS256 secret and token lifetime

	PasswordHasher cryptox.Algorithm // argon2id or bcrypt (default: argon2id)
	PepperFile     string            // Optional: pepper file, created on first use

	PrincipalCacheSize int           // Cached principals; 0 disables the cache (default: 1024)
	PrincipalCacheTTL  time.Duration // Cache entry lifetime (default: 30s)

	CORSAllowedOrigins []string // Empty keeps the development defaults

	CredentialRateLimit httpx.RateLimitConfig // login and register per client IP, password change per principal
	APIRateLimit        httpx.RateLimitConfig // everything else, per principal
}

// LoadConfig reads the configuration from the environment. Values that are
// set but cannot be parsed are reported together.
func LoadConfig() (Config, error) {
	var errs []error

	cfg := Config{
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvInt("PORT", 8080, &errs),
		ShutdownGracePeriod: getEnvDuration("SHUTDOWN_GRACE_PERIOD", 10*time.Second, &errs),
		DatabaseFile:        getEnvOrDefault("TASKAPI_DATABASE_FILE", "taskapi.db"),
		Token: jwtx.CodecConfig{
			Secret: getEnvOrDefault("AUTH_JWT_SECRET", DefaultJWTSecret),
			Expiry: time.Duration(getEnvInt("AUTH_JWT_EXPIRATION_MS", int(jwtx.DefaultExpiry/time.Millisecond), &errs)) * time.Millisecond,
		},
		PepperFile:         os.Getenv("AUTH_PEPPER_FILE"),
		PrincipalCacheSize: getEnvInt("AUTH_PRINCIPAL_CACHE_SIZE", cache.DefaultSize, &errs),
		PrincipalCacheTTL:  getEnvDuration("AUTH_PRINCIPAL_CACHE_TTL", cache.DefaultTTL, &errs),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		CredentialRateLimit: httpx.RateLimitConfig{
			Requests: getEnvInt("RATE_LIMIT_CREDENTIAL_REQUESTS", httpx.CredentialLimit.Requests, &errs),
			Window:   getEnvDuration("RATE_LIMIT_CREDENTIAL_WINDOW", httpx.CredentialLimit.Window, &errs),
			Burst:    getEnvInt("RATE_LIMIT_CREDENTIAL_BURST", httpx.CredentialLimit.Burst, &errs),
		},
		APIRateLimit: httpx.RateLimitConfig{
			Requests: getEnvInt("RATE_LIMIT_API_REQUESTS", httpx.APILimit.Requests, &errs),
			Window:   getEnvDuration("RATE_LIMIT_API_WINDOW", httpx.APILimit.Window, &errs),
			Burst:    getEnvInt("RATE_LIMIT_API_BURST", httpx.APILimit.Burst, &errs),
		},
	}

	alg, err := cryptox.ParseAlgorithm(getEnvOrDefault("AUTH_PASSWORD_HASHER", string(cryptox.Argon2id)))
	if err != nil {
		errs = append(errs, fmt.Errorf("AUTH_PASSWORD_HASHER: %w", err))
	}
	cfg.PasswordHasher = alg

	// Both limits fall back to the client IP for anonymous callers.
	trust := getEnvBool("RATE_LIMIT_TRUST_PROXY_HEADERS", false, &errs)
	cfg.CredentialRateLimit.TrustProxyHeaders = trust
	cfg.APIRateLimit.TrustProxyHeaders = trust

	if cfg.Token.Expiry <= 0 {
		errs = append(errs, errors.New("AUTH_JWT_EXPIRATION_MS: must be positive"))
	}

	return cfg, errors.Join(errs...)
}

// UsesDefaultSecret reports whether the token secret is the built-in
// placeholder.
func (c Config) UsesDefaultSecret() bool {
	return c.Token.Secret == DefaultJWTSecret
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool, errs *[]error) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	*errs = append(*errs, fmt.Errorf("%s: invalid duration %q", key, value))
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
