package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/taskapi/pkg/cryptox"
	"github.com/aussiebroadwan/taskapi/pkg/jwtx"
	"github.com/aussiebroadwan/taskapi/pkg/slogx"
)

const bearerPrefix = "Bearer "

// TokenParser verifies a raw bearer token and returns its claims.
type TokenParser interface {
	ParseAndVerify(token string) (*jwtx.Claims, error)
}

var (
	errNoBearer        = errors.New("no bearer token")
	errNoSubject       = errors.New("token has no subject")
	errSubjectMismatch = errors.New("token subject does not match principal")
	errInactive        = errors.New("principal is not active")
)

// IdentityMiddleware establishes the request's SecurityContext from an
// "Authorization: Bearer" header.
//
// It never rejects a request. A missing, malformed, tampered or expired token,
// or one whose subject cannot be resolved, leaves the request anonymous and
// the authorization policy decides what happens next. Requests that already
// carry a SecurityContext pass through unchanged.
func IdentityMiddleware(tokens TokenParser, principals PrincipalResolver) Middleware {
	return identityMiddleware(tokens, principals, time.Now)
}

func identityMiddleware(tokens TokenParser, principals PrincipalResolver, now func() time.Time) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if _, ok := SecurityFrom(ctx); ok {
				next.ServeHTTP(w, r)
				return
			}

			raw, err := bearerToken(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			log := slogx.FromContext(ctx).With(slog.String("token_fp", cryptox.Fingerprint(raw)))

			claims, err := tokens.ParseAndVerify(raw)
			if err != nil {
				log.Warn("bearer token rejected", slog.Any("err", err))
				next.ServeHTTP(w, r)
				return
			}

			subject := claims.Subject
			if subject == "" {
				log.Warn("bearer token rejected", slog.Any("err", errNoSubject))
				next.ServeHTTP(w, r)
				return
			}

			if jwtx.IsExpired(claims, now()) {
				log.Warn("bearer token expired", slog.String("subject", subject))
				next.ServeHTTP(w, r)
				return
			}

			principal, err := principals.ResolvePrincipal(ctx, subject)
			if err != nil {
				log.Warn("bearer subject not resolved", slog.String("subject", subject), slog.Any("err", err))
				next.ServeHTTP(w, r)
				return
			}

			if err := checkPrincipal(principal, subject); err != nil {
				log.Warn("bearer token rejected", slog.String("subject", subject), slog.Any("err", err))
				next.ServeHTTP(w, r)
				return
			}

			ctx = WithSecurityContext(ctx, &SecurityContext{
				Principal: principal,
				Token:     raw,
				Claims:    claims,
			})
			ctx = slogx.With(ctx, slog.String("principal", subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func checkPrincipal(p Principal, subject string) error {
	switch {
	case p == nil:
		return errSubjectMismatch
	case p.Subject() != subject:
		return errSubjectMismatch
	case !p.Active():
		return errInactive
	}
	return nil
}

func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, bearerPrefix) {
		return "", errNoBearer
	}
	raw := strings.TrimSpace(h[len(bearerPrefix):])
	if raw == "" {
		return "", errNoBearer
	}
	return raw, nil
}
