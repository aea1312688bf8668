package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/domain"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/service"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/store"
	"github.com/aussiebroadwan/taskapi/pkg/httpx"
	"github.com/aussiebroadwan/taskapi/pkg/jwtx"
	"github.com/aussiebroadwan/taskapi/pkg/slogx"

	_ "github.com/aussiebroadwan/taskapi/api/taskapi" // Swagger docs
)

//go:generate swag init --generalInfo router.go --dir .,../../../pkg/taskclient,../../../pkg/httpx --output ../../../api/taskapi --outputTypes go --packageName taskapi

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux     *http.ServeMux
	handler http.Handler

	tokens       *jwtx.Codec
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	// Policy is the authorization rule table. Defaults to DefaultPolicy.
	Policy *httpx.Policy

	// CORS configures the outermost layer. Defaults to DefaultCORSOptions.
	CORS *cors.Options

	// CredentialLimit applies per client IP to login and register.
	CredentialLimit httpx.RateLimitConfig
	// APILimit applies per principal to every other route.
	APILimit httpx.RateLimitConfig

	AuthService *service.AuthService
	UserService *service.UserService
	TaskService *service.TaskService
}

func NewRouter(tokens *jwtx.Codec, buildVersion string, st store.Store, logger *slog.Logger) *Router {
	return &Router{
		Mux:             http.NewServeMux(),
		tokens:          tokens,
		buildVersion:    buildVersion,
		startTime:       time.Now(),
		logger:          logger,
		store:           st,
		CredentialLimit: httpx.CredentialLimit,
		APILimit:        httpx.APILimit,
	}
}

// DefaultPolicy is the rule table for the API. Anything not listed requires
// an authenticated principal.
func DefaultPolicy() *httpx.Policy {
	rules := httpx.PermitAll(
		"/api/auth/register",
		"/api/auth/login",
		"/api/auth/logout",
		"/api/tasks/health",
		"/livez",
		"/readyz",
		"/swagger/**",
	)
	rules = append(rules, httpx.RequireRole("/api/admin/**", string(domain.RoleAdmin)))
	return httpx.NewPolicy(rules...)
}

// DefaultCORSOptions allows the local development front ends.
func DefaultCORSOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:*",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodPatch,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{slogx.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           3600,
	}
}

// ApplyRoutes registers every route and assembles the middleware chain:
// request logging, CORS, identity, then the authorization policy.
func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerTasks()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("GET /swagger/", httpSwagger.Handler())

	policy := r.Policy
	if policy == nil {
		policy = DefaultPolicy()
	}
	corsOpts := DefaultCORSOptions()
	if r.CORS != nil {
		corsOpts = *r.CORS
	}

	r.handler = httpx.Chain(r.Mux,
		slogx.HTTPMiddleware(r.logger),
		cors.Handler(corsOpts),
		httpx.IdentityMiddleware(r.tokens, &service.PrincipalResolver{Store: r.store}),
		httpx.PolicyMiddleware(policy),
	)
}

// ServeHTTP implements http.Handler for Router. ApplyRoutes must have been
// called first.
//
//	@title			Task Management API
//	@version		1.0
//	@description	Task management with stateless bearer token authentication.
//	@description
//	@description				Tokens are HS256-signed JWTs whose subject is the account email.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/taskapi
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// Credential endpoints are limited per client IP
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister), httpx.RateLimitByIP(r.CredentialLimit)),
	)
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin), httpx.RateLimitByIP(r.CredentialLimit)),
	)

	limited := httpx.RateLimitByPrincipal(r.APILimit)
	r.Mux.Handle("GET /api/auth/profile", httpx.Chain(http.HandlerFunc(h.HandleProfile), limited))
	r.Mux.Handle("POST /api/auth/refresh", httpx.Chain(http.HandlerFunc(h.HandleRefresh), limited))
	r.Mux.Handle("POST /api/auth/logout", httpx.Chain(http.HandlerFunc(h.HandleLogout), limited))
	r.Mux.Handle("POST /api/auth/password",
		httpx.Chain(http.HandlerFunc(h.HandleChangePassword), httpx.RateLimitByPrincipal(r.CredentialLimit)),
	)
}

func (r *Router) registerTasks() {
	h := &TaskHandler{TaskService: r.TaskService}
	limited := httpx.RateLimitByPrincipal(r.APILimit)

	routes := map[string]http.HandlerFunc{
		"GET /api/tasks":                 h.HandleList,
		"POST /api/tasks":                h.HandleCreate,
		"GET /api/tasks/{id}":            h.HandleGet,
		"PUT /api/tasks/{id}":            h.HandleUpdate,
		"DELETE /api/tasks/{id}":         h.HandleDelete,
		"PATCH /api/tasks/{id}/complete": h.HandleComplete,
		"PATCH /api/tasks/{id}/pending":  h.HandlePending,
		"GET /api/tasks/status/{status}": h.HandleListByStatus,
		"GET /api/tasks/overdue":         h.HandleListOverdue,
		"GET /api/tasks/high-priority":   h.HandleListHighPriority,
		"GET /api/tasks/search":          h.HandleSearch,
	}
	for pattern, handler := range routes {
		r.Mux.Handle(pattern, httpx.Chain(handler, limited))
	}
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{UserService: r.UserService}
	limited := httpx.RateLimitByPrincipal(r.APILimit)

	r.Mux.Handle("GET /api/admin/users", httpx.Chain(http.HandlerFunc(h.HandleListUsers), limited))
	r.Mux.Handle("GET /api/admin/stats", httpx.Chain(http.HandlerFunc(h.HandleStats), limited))
	r.Mux.Handle("PATCH /api/admin/users/{id}/toggle", httpx.Chain(http.HandlerFunc(h.HandleToggle), limited))
	r.Mux.Handle("PATCH /api/admin/users/{id}/role", httpx.Chain(http.HandlerFunc(h.HandleSetRole), limited))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion, r.tokens))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
	r.Mux.Handle("GET /api/tasks/health", ServiceHealthHandler())
}
