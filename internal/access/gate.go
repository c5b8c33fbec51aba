package access

import (
	"context"
	"net/url"
	"strings"
	"time"

	id "docport/pkg/domain"
)

// DecisionKind classifies the gate's verdict for one request.
type DecisionKind string

const (
	// DecisionAllow lets the request through to content.
	DecisionAllow DecisionKind = "allow"
	// DecisionChallenge redirects the visitor to the subdomain login page.
	DecisionChallenge DecisionKind = "challenge"
	// DecisionExempt bypasses gating entirely (API, static assets, login page).
	DecisionExempt DecisionKind = "exempt"
)

// Decision is the gate's verdict. RedirectTarget is set only for challenges.
type Decision struct {
	Kind           DecisionKind
	RedirectTarget string
}

// LoginPath is the subdomain login page, exempt by definition - gating it
// would make the challenge redirect loop on itself.
const LoginPath = "/auth/login"

// defaultExemptPrefixes covers the API namespace and static-asset namespaces.
var defaultExemptPrefixes = []string{
	"/api/",
	"/internal/",
	"/static/",
	"/css/",
	"/js/",
	"/assets/",
	"/favicon.ico",
	"/health",
	"/metrics",
	LoginPath,
}

// Gate decides, per request, whether a visitor may proceed, must
// authenticate, or is exempt. It holds no per-request state and is safe for
// concurrent use; the decision is re-evaluated on every request because
// sessions expire and tenants can change their password at any time.
type Gate struct {
	sessions       SessionStore
	exemptPrefixes []string
}

// NewGate constructs a gate over the given session store. Extra exempt
// prefixes extend the defaults.
func NewGate(sessions SessionStore, extraExempt ...string) *Gate {
	return &Gate{
		sessions:       sessions,
		exemptPrefixes: append(append([]string{}, defaultExemptPrefixes...), extraExempt...),
	}
}

// CookieReader is the minimal cookie surface the gate needs from a request.
type CookieReader interface {
	Cookie(name string) (value string, ok bool)
}

// Decide evaluates the ordered gate rules:
//  1. exempt paths pass regardless of tenant or session state
//  2. no tenant resolved: anonymous platform browsing is allowed
//  3. tenant without a password gate: allowed
//  4. no session cookie for this subdomain: challenge
//  5. cookie present: valid only if the stored session authorizes exactly
//     this tenant and has not expired; anything else challenges
func (g *Gate) Decide(ctx context.Context, path string, resolved *Resolved, cookies CookieReader, now time.Time) Decision {
	if g.Exempt(path) {
		return Decision{Kind: DecisionExempt}
	}

	if !resolved.HasTenant() {
		return Decision{Kind: DecisionAllow}
	}
	tenant := resolved.Tenant

	if !tenant.HasSubdomainPassword() {
		return Decision{Kind: DecisionAllow}
	}

	challenge := Decision{
		Kind:           DecisionChallenge,
		RedirectTarget: LoginPath + "?subdomain=" + url.QueryEscape(tenant.Subdomain),
	}

	value, ok := cookies.Cookie(CookieName(tenant.Subdomain))
	if !ok || value == "" {
		return challenge
	}

	session, err := g.sessions.Get(ctx, id.SessionToken(value), now)
	if err != nil {
		// Expired and unknown tokens are indistinguishable to the visitor:
		// both just re-challenge.
		return challenge
	}
	if !session.Authorizes(tenant.ID, now) {
		return challenge
	}
	return Decision{Kind: DecisionAllow}
}

// Exempt reports whether the path bypasses gating. Checked first and
// independently of tenant resolution.
func (g *Gate) Exempt(path string) bool {
	for _, prefix := range g.exemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
