package httpx

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/aussiebroadwan/taskapi/pkg/slogx"
)

// RateLimitConfig defines a token bucket per key.
type RateLimitConfig struct {
	// Requests is the number of requests allowed per Window.
	Requests int
	// Window is the time window Requests applies to.
	Window time.Duration
	// Burst allows temporary bursts above the steady rate.
	Burst int
	// MaxKeys bounds the number of tracked keys; the least recently seen key
	// is evicted first. Zero means DefaultMaxKeys.
	MaxKeys int
	// TrustProxyHeaders keys anonymous callers by X-Forwarded-For and
	// X-Real-IP instead of the connection address. Enable it only behind a
	// proxy that overwrites those headers.
	TrustProxyHeaders bool
}

// DefaultMaxKeys is the number of distinct clients tracked per limiter.
const DefaultMaxKeys = 10_000

var (
	// CredentialLimit guards login and registration against brute force.
	CredentialLimit = RateLimitConfig{Requests: 10, Window: time.Minute, Burst: 10}

	// APILimit applies to authenticated API traffic per principal.
	APILimit = RateLimitConfig{Requests: 300, Window: time.Minute, Burst: 60}
)

// Enabled reports whether the config describes an active limit.
func (c RateLimitConfig) Enabled() bool {
	return c.Requests > 0 && c.Window > 0
}

// KeyExtractor returns the rate limit key for a request. An empty key skips
// limiting for that request.
type KeyExtractor func(*http.Request) string

// ClientIP returns the caller's address, preferring the first X-Forwarded-For
// entry and then X-Real-IP for proxied requests. Both headers are client
// controlled unless a proxy overwrites them; use RemoteIP otherwise.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return RemoteIP(r)
}

// RemoteIP returns the host of the connection's remote address.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// PrincipalOrIP keys authenticated requests by principal subject and
// anonymous ones by ClientIP.
func PrincipalOrIP(r *http.Request) string {
	return principalOr(ClientIP)(r)
}

func principalOr(ip KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		if p, ok := PrincipalFrom(r.Context()); ok {
			return "principal:" + p.Subject()
		}
		return "ip:" + ip(r)
	}
}

func (c RateLimitConfig) ipKey() KeyExtractor {
	if c.TrustProxyHeaders {
		return ClientIP
	}
	return RemoteIP
}

// RateLimit returns a middleware enforcing config per key. A disabled config
// returns a pass-through middleware.
func RateLimit(config RateLimitConfig, key KeyExtractor) Middleware {
	if !config.Enabled() {
		return func(next http.Handler) http.Handler { return next }
	}

	size := config.MaxKeys
	if size <= 0 {
		size = DefaultMaxKeys
	}
	burst := max(config.Burst, 1)
	limit := rate.Limit(float64(config.Requests) / config.Window.Seconds())

	// lru.New only fails for a non-positive size.
	limiters, _ := lru.New[string, *rate.Limiter](size)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			limiter, ok := limiters.Get(k)
			if !ok {
				limiter = rate.NewLimiter(limit, burst)
				if prev, found, _ := limiters.PeekOrAdd(k, limiter); found {
					limiter = prev
				}
			}

			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			reservation := limiter.Reserve()
			retryAfter := max(int(reservation.Delay().Seconds()), 1)
			reservation.Cancel()

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.Requests))
			w.Header().Set("X-RateLimit-Window", config.Window.String())

			slogx.FromContext(r.Context()).Warn("rate limit exceeded",
				slog.String("key", k),
				slog.Int("retry_after", retryAfter),
			)
			WriteError(w, r, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		})
	}
}

// RateLimitByIP limits by client IP. Forwarding headers are only consulted
// when config.TrustProxyHeaders is set.
func RateLimitByIP(config RateLimitConfig) Middleware {
	return RateLimit(config, config.ipKey())
}

// RateLimitByPrincipal limits by principal, falling back to client IP.
func RateLimitByPrincipal(config RateLimitConfig) Middleware {
	return RateLimit(config, principalOr(config.ipKey()))
}
