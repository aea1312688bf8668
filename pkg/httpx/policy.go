package httpx

import (
	"net/http"
	"path"
	"slices"
	"strings"
)

// RuleKind is the access requirement a Rule imposes.
type RuleKind int

const (
	// Authenticated allows any resolved principal.
	Authenticated RuleKind = iota
	// Public allows every request, anonymous or not.
	Public
	// RoleRequired allows principals holding Rule.Role.
	RoleRequired
)

func (k RuleKind) String() string {
	switch k {
	case Public:
		return "PUBLIC"
	case RoleRequired:
		return "ROLE_REQUIRED"
	default:
		return "AUTHENTICATED"
	}
}

// Rule binds a path pattern to an access requirement. A pattern ending in
// "/**" matches the prefix itself and everything below it; any other pattern
// must equal the request path. Methods, when set, restrict the rule to those
// HTTP methods.
type Rule struct {
	Pattern string
	Methods []string
	Kind    RuleKind
	Role    string
}

// PermitAll returns a Public rule for each pattern.
func PermitAll(patterns ...string) []Rule {
	rules := make([]Rule, 0, len(patterns))
	for _, p := range patterns {
		rules = append(rules, Rule{Pattern: p, Kind: Public})
	}
	return rules
}

// RequireRole returns a RoleRequired rule for pattern.
func RequireRole(pattern, role string) Rule {
	return Rule{Pattern: pattern, Kind: RoleRequired, Role: role}
}

// RequireAuthenticated returns an Authenticated rule for pattern.
func RequireAuthenticated(pattern string) Rule {
	return Rule{Pattern: pattern, Kind: Authenticated}
}

func (rule Rule) matches(method, p string) bool {
	if len(rule.Methods) > 0 && !slices.Contains(rule.Methods, method) {
		return false
	}
	if prefix, ok := strings.CutSuffix(rule.Pattern, "/**"); ok {
		return p == prefix || strings.HasPrefix(p, prefix+"/")
	}
	return p == rule.Pattern
}

// Policy is an ordered rule table. The first matching rule decides; requests
// matching no rule must be authenticated.
type Policy struct {
	rules []Rule
}

// NewPolicy returns a policy evaluating rules in order.
func NewPolicy(rules ...Rule) *Policy {
	return &Policy{rules: slices.Clone(rules)}
}

// Match returns the rule governing method and urlPath.
func (p *Policy) Match(method, urlPath string) Rule {
	clean := path.Clean("/" + urlPath)
	for _, rule := range p.rules {
		if rule.matches(method, clean) {
			return rule
		}
	}
	return Rule{Pattern: "/**", Kind: Authenticated}
}

// Decide returns http.StatusOK when the request may proceed, otherwise
// http.StatusUnauthorized or http.StatusForbidden.
func (p *Policy) Decide(r *http.Request) int {
	rule := p.Match(r.Method, r.URL.Path)
	if rule.Kind == Public {
		return http.StatusOK
	}

	principal, ok := PrincipalFrom(r.Context())
	if !ok {
		return http.StatusUnauthorized
	}
	if rule.Kind == RoleRequired && !principal.HasRole(rule.Role) {
		return http.StatusForbidden
	}
	return http.StatusOK
}

// Reject messages.
const (
	MsgAuthenticationRequired = "Authentication required to access this resource"
	MsgAccessDenied           = "Access denied: insufficient role"
)

// PolicyMiddleware enforces p. Rejected requests receive an ErrorBody and
// never reach next.
func PolicyMiddleware(p *Policy) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch p.Decide(r) {
			case http.StatusUnauthorized:
				w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
				WriteError(w, r, http.StatusUnauthorized, MsgAuthenticationRequired)
			case http.StatusForbidden:
				WriteError(w, r, http.StatusForbidden, MsgAccessDenied)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
