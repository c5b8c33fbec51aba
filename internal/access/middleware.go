package access

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	accessmetrics "docport/internal/access/metrics"
	"docport/internal/tenant/models"
	"docport/pkg/httputil"
)

type resolvedKey struct{}

// ResolvedFromContext retrieves the request's resolved tenant context, set by
// the Middleware for every non-exempt request that passed the gate.
func ResolvedFromContext(ctx context.Context) *Resolved {
	if r, ok := ctx.Value(resolvedKey{}).(*Resolved); ok {
		return r
	}
	return nil
}

// TenantFromContext is a convenience accessor for the resolved tenant, nil
// for anonymous requests.
func TenantFromContext(ctx context.Context) *models.Tenant {
	if r := ResolvedFromContext(ctx); r.HasTenant() {
		return r.Tenant
	}
	return nil
}

// Middleware runs Domain Resolver then Access Gate ahead of all content
// routes. The ordered rules live in Gate.Decide, not in the middleware
// registration order, so the exemption-before-tenant precedence cannot be
// broken by route wiring.
type Middleware struct {
	resolver *Resolver
	gate     *Gate
	metrics  *accessmetrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// MiddlewareOption configures the middleware.
type MiddlewareOption func(*Middleware)

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) MiddlewareOption {
	return func(m *Middleware) { m.now = now }
}

// WithMetrics attaches prometheus metrics.
func WithMetrics(metrics *accessmetrics.Metrics) MiddlewareOption {
	return func(m *Middleware) { m.metrics = metrics }
}

// NewMiddleware constructs the per-request gating middleware.
func NewMiddleware(resolver *Resolver, gate *Gate, logger *slog.Logger, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		resolver: resolver,
		gate:     gate,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Handler wraps next with resolution and gating. Challenges become 302
// redirects to the login page; allowed and exempt requests proceed with the
// resolved tenant (if any) in the context.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		// Exempt paths short-circuit before any directory traffic so the
		// login page stays reachable even when the directory is down.
		if m.gate.Exempt(r.URL.Path) {
			if m.metrics != nil {
				m.metrics.ObserveDecision(string(DecisionExempt))
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, resolvedKey{}, &Resolved{Mode: BindingNone})))
			return
		}

		resolved, err := m.resolver.Resolve(ctx, r.Host)
		if err != nil {
			// Fail closed: an unreachable directory must not serve
			// potentially gated content as anonymous.
			m.logger.Error("tenant resolution failed", "host", r.Host, "error", err)
			httputil.WriteError(w, err)
			return
		}

		decision := m.gate.Decide(ctx, r.URL.Path, resolved, requestCookies{r}, m.now())
		if m.metrics != nil {
			m.metrics.ObserveDecision(string(decision.Kind))
		}

		switch decision.Kind {
		case DecisionChallenge:
			m.logger.Info("gate challenge",
				"host", r.Host,
				"path", r.URL.Path,
				"tenant", resolved.Tenant.ID.String(),
			)
			http.Redirect(w, r, decision.RedirectTarget, http.StatusFound)
			return
		case DecisionExempt, DecisionAllow:
			ctx = context.WithValue(ctx, resolvedKey{}, resolved)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	})
}

// requestCookies adapts *http.Request to the gate's CookieReader.
type requestCookies struct {
	r *http.Request
}

func (c requestCookies) Cookie(name string) (string, bool) {
	cookie, err := c.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}
