package httpx

import (
	"context"

	"github.com/aussiebroadwan/taskapi/pkg/jwtx"
)

// Principal is the resolved identity behind a bearer token.
type Principal interface {
	// Subject is the login identifier the token was issued for.
	Subject() string
	// HasRole reports whether the principal holds role.
	HasRole(role string) bool
	// Active reports whether the account may currently be used.
	Active() bool
}

// PrincipalResolver looks up the principal for a token subject.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, subject string) (Principal, error)
}

// SecurityContext is the per-request identity established by
// IdentityMiddleware. Requests without one are anonymous.
type SecurityContext struct {
	Principal Principal
	Token     string
	Claims    *jwtx.Claims
}

type securityCtxKey struct{}

// WithSecurityContext returns ctx carrying sc.
func WithSecurityContext(ctx context.Context, sc *SecurityContext) context.Context {
	return context.WithValue(ctx, securityCtxKey{}, sc)
}

// SecurityFrom returns the request's security context, if any.
func SecurityFrom(ctx context.Context) (*SecurityContext, bool) {
	sc, ok := ctx.Value(securityCtxKey{}).(*SecurityContext)
	if !ok || sc == nil || sc.Principal == nil {
		return nil, false
	}
	return sc, true
}

// PrincipalFrom returns the authenticated principal, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	sc, ok := SecurityFrom(ctx)
	if !ok {
		return nil, false
	}
	return sc.Principal, true
}
