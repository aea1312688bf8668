package httpx_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskapi/pkg/httpx"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func serveFrom(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestClientIP(t *testing.T) {
	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		require.Equal(t, "192.168.1.1", httpx.ClientIP(req))
	})

	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")
		require.Equal(t, "203.0.113.1", httpx.ClientIP(req))
	})

	t.Run("uses X-Real-IP if X-Forwarded-For absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Real-IP", "203.0.113.2")
		require.Equal(t, "203.0.113.2", httpx.ClientIP(req))
	})

	t.Run("RemoteAddr without port", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "pipe"
		require.Equal(t, "pipe", httpx.ClientIP(req))
	})
}

func TestRemoteIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	req.Header.Set("X-Forwarded-For", "203.0.113.1")
	req.Header.Set("X-Real-IP", "203.0.113.2")
	require.Equal(t, "192.168.1.1", httpx.RemoteIP(req))
}

func TestPrincipalOrIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	require.Equal(t, "ip:192.168.1.1", httpx.PrincipalOrIP(req))

	ctx := httpx.WithSecurityContext(req.Context(), &httpx.SecurityContext{
		Principal: fakePrincipal{email: "john@example.com", role: "USER", active: true},
	})
	require.Equal(t, "principal:john@example.com", httpx.PrincipalOrIP(req.WithContext(ctx)))
}

func TestRateLimit(t *testing.T) {
	t.Run("allows requests under limit", func(t *testing.T) {
		h := httpx.RateLimitByIP(httpx.RateLimitConfig{Requests: 5, Window: time.Second, Burst: 5})(okHandler)

		for i := range 5 {
			require.Equal(t, http.StatusOK, serveFrom(h, "192.168.1.1:12345").Code, "request %d should succeed", i+1)
		}
	})

	t.Run("blocks requests over limit", func(t *testing.T) {
		h := httpx.RateLimitByIP(httpx.RateLimitConfig{Requests: 3, Window: time.Minute, Burst: 3})(okHandler)

		for range 3 {
			require.Equal(t, http.StatusOK, serveFrom(h, "192.168.1.1:12345").Code)
		}

		rec := serveFrom(h, "192.168.1.1:12345")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))

		var body httpx.ErrorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, http.StatusTooManyRequests, body.Status)
		require.Equal(t, "/api/auth/login", body.Path)
	})

	t.Run("different keys are tracked separately", func(t *testing.T) {
		h := httpx.RateLimitByIP(httpx.RateLimitConfig{Requests: 2, Window: time.Minute, Burst: 2})(okHandler)

		for range 2 {
			require.Equal(t, http.StatusOK, serveFrom(h, "192.168.1.1:12345").Code)
		}
		require.Equal(t, http.StatusTooManyRequests, serveFrom(h, "192.168.1.1:12345").Code)
		require.Equal(t, http.StatusOK, serveFrom(h, "192.168.1.2:12345").Code)
	})

	t.Run("evicted keys start fresh", func(t *testing.T) {
		h := httpx.RateLimitByIP(httpx.RateLimitConfig{Requests: 1, Window: time.Minute, Burst: 1, MaxKeys: 1})(okHandler)

		require.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.1:1").Code)
		require.Equal(t, http.StatusTooManyRequests, serveFrom(h, "10.0.0.1:1").Code)

		// A second client pushes the first out of the table.
		require.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.2:1").Code)
		require.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.1:1").Code)
	})

	t.Run("forwarded headers ignored unless trusted", func(t *testing.T) {
		h := httpx.RateLimitByIP(httpx.RateLimitConfig{Requests: 1, Window: time.Minute, Burst: 1})(okHandler)

		for i, code := range []int{http.StatusOK, http.StatusTooManyRequests} {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
			req.RemoteAddr = "192.168.1.1:12345"
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, code, rec.Code)
		}
	})

	t.Run("trusted forwarded headers key by client", func(t *testing.T) {
		h := httpx.RateLimitByIP(httpx.RateLimitConfig{Requests: 1, Window: time.Minute, Burst: 1, TrustProxyHeaders: true})(okHandler)

		for i := range 2 {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
			req.RemoteAddr = "10.0.0.1:12345"
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d, 10.0.0.1", i+1))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("empty key skips limiting", func(t *testing.T) {
		h := httpx.RateLimit(httpx.RateLimitConfig{Requests: 1, Window: time.Minute, Burst: 1},
			func(*http.Request) string { return "" })(okHandler)

		for range 3 {
			require.Equal(t, http.StatusOK, serveFrom(h, "192.168.1.1:12345").Code)
		}
	})

	t.Run("disabled config passes through", func(t *testing.T) {
		h := httpx.RateLimitByIP(httpx.RateLimitConfig{})(okHandler)

		for range 20 {
			require.Equal(t, http.StatusOK, serveFrom(h, "192.168.1.1:12345").Code)
		}
	})
}

func TestRateLimitProfiles(t *testing.T) {
	for name, cfg := range map[string]httpx.RateLimitConfig{
		"credential": httpx.CredentialLimit,
		"api":        httpx.APILimit,
	} {
		t.Run(name, func(t *testing.T) {
			require.True(t, cfg.Enabled())
			require.Positive(t, cfg.Burst)
		})
	}
	require.Less(t, httpx.CredentialLimit.Requests, httpx.APILimit.Requests)
}
