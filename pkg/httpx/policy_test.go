package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskapi/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func testPolicy() *httpx.Policy {
	rules := httpx.PermitAll("/api/auth/login", "/api/auth/register", "/api/tasks/health", "/swagger/**")
	rules = append(rules,
		httpx.RequireRole("/api/admin/**", "ADMIN"),
		httpx.Rule{Pattern: "/api/reports/**", Methods: []string{http.MethodGet}, Kind: httpx.Public},
		httpx.RequireAuthenticated("/api/tasks/**"),
		// Never reached for /api/tasks paths; the earlier rule wins.
		httpx.Rule{Pattern: "/api/tasks/**", Kind: httpx.Public},
	)
	return httpx.NewPolicy(rules...)
}

func TestPolicy_Match(t *testing.T) {
	p := testPolicy()

	tests := []struct {
		method string
		path   string
		want   httpx.RuleKind
	}{
		{http.MethodPost, "/api/auth/login", httpx.Public},
		{http.MethodPost, "/api/auth/profile", httpx.Authenticated},
		{http.MethodGet, "/api/tasks/health", httpx.Public},
		{http.MethodGet, "/api/tasks/01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", httpx.Authenticated},
		{http.MethodGet, "/api/tasks", httpx.Authenticated},
		{http.MethodGet, "/api/admin", httpx.RoleRequired},
		{http.MethodGet, "/api/admin/users", httpx.RoleRequired},
		{http.MethodGet, "/api/administrator", httpx.Authenticated},
		{http.MethodGet, "/api/tasks/../admin/users", httpx.RoleRequired},
		{http.MethodGet, "/swagger/index.html", httpx.Public},
		{http.MethodGet, "/api/reports/daily", httpx.Public},
		{http.MethodPost, "/api/reports/daily", httpx.Authenticated},
		{http.MethodGet, "/something/else", httpx.Authenticated},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			require.Equal(t, tt.want, p.Match(tt.method, tt.path).Kind)
		})
	}
}

func TestPolicyMiddleware(t *testing.T) {
	codec := newCodec(t)
	userToken := issue(t, codec, "john@example.com", time.Now())
	adminToken := issue(t, codec, "admin@example.com", time.Now())

	h := httpx.Chain(okHandler,
		httpx.IdentityMiddleware(codec, newResolver()),
		httpx.PolicyMiddleware(testPolicy()),
	)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"anonymous public", "/api/tasks/health", "", http.StatusOK},
		{"anonymous protected", "/api/tasks", "", http.StatusUnauthorized},
		{"anonymous admin", "/api/admin/users", "", http.StatusUnauthorized},
		{"garbage token public", "/api/tasks/health", "garbage", http.StatusOK},
		{"garbage token protected", "/api/tasks", "garbage", http.StatusUnauthorized},
		{"user protected", "/api/tasks", userToken, http.StatusOK},
		{"user admin", "/api/admin/users", userToken, http.StatusForbidden},
		{"admin admin", "/api/admin/users", adminToken, http.StatusOK},
		{"admin default rule", "/anything", adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestPolicyMiddleware_ErrorBody(t *testing.T) {
	codec := newCodec(t)
	userToken := issue(t, codec, "john@example.com", time.Now())

	reached := false
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { reached = true }),
		httpx.IdentityMiddleware(codec, newResolver()),
		httpx.PolicyMiddleware(testPolicy()),
	)

	t.Run("unauthorized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil))

		require.False(t, reached)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		require.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

		var body httpx.ErrorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, http.StatusUnauthorized, body.Status)
		require.Equal(t, "Unauthorized", body.Error)
		require.Equal(t, httpx.MsgAuthenticationRequired, body.Message)
		require.Equal(t, "/api/auth/profile", body.Path)
		require.WithinDuration(t, time.Now(), body.Timestamp, time.Minute)
	})

	t.Run("forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer "+userToken)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.False(t, reached)
		require.Equal(t, http.StatusForbidden, rec.Code)

		var body httpx.ErrorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, http.StatusForbidden, body.Status)
		require.Equal(t, "Forbidden", body.Error)
		require.Equal(t, httpx.MsgAccessDenied, body.Message)
		require.Equal(t, "/api/admin/stats", body.Path)
	})
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("first"), mark("second"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"first", "second", "handler"}, order)
}
