package access

import (
	"context"
	"time"

	"github.com/mssola/useragent"

	accessmetrics "docport/internal/access/metrics"
	id "docport/pkg/domain"
	dErrors "docport/pkg/domain-errors"
	"docport/pkg/secrets"
)

// Issuer authenticates subdomain passwords and mints sessions into the
// session store the gate reads.
type Issuer struct {
	directory Directory
	sessions  SessionStore
	metrics   *accessmetrics.Metrics
	ttl       time.Duration
	now       func() time.Time
}

// IssuerOption configures the issuer.
type IssuerOption func(*Issuer)

// WithIssuerClock overrides the time source for tests.
func WithIssuerClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) { i.now = now }
}

// WithIssuerMetrics attaches prometheus metrics.
func WithIssuerMetrics(m *accessmetrics.Metrics) IssuerOption {
	return func(i *Issuer) { i.metrics = m }
}

// NewIssuer constructs a credential issuer minting sessions with the given TTL.
func NewIssuer(directory Directory, sessions SessionStore, ttl time.Duration, opts ...IssuerOption) *Issuer {
	i := &Issuer{
		directory: directory,
		sessions:  sessions,
		ttl:       ttl,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Grant is the successful outcome of a login: the opaque token, the cookie
// it belongs in, and when it stops working.
type Grant struct {
	Token      id.SessionToken
	CookieName string
	ExpiresAt  time.Time
}

// Login verifies the subdomain password and mints a new session. The failure
// is a single generic unauthorized error regardless of whether the subdomain
// exists. The User-Agent string only decorates the session with a
// human-readable device name; it carries no authority.
func (i *Issuer) Login(ctx context.Context, label, password, userAgentRaw string) (*Grant, error) {
	tenant, err := i.directory.VerifySubdomainPassword(ctx, label, password)
	if err != nil {
		if i.metrics != nil {
			i.metrics.LoginFailures.Inc()
		}
		return nil, err
	}

	token, err := secrets.Generate()
	if err != nil {
		return nil, err
	}

	now := i.now()
	session := &Session{
		Token:             id.SessionToken(token),
		TenantID:          tenant.ID,
		Subdomain:         tenant.Subdomain,
		DeviceDisplayName: deviceDisplayName(userAgentRaw),
		CreatedAt:         now,
		ExpiresAt:         now.Add(i.ttl),
	}
	if err := i.sessions.Put(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store session")
	}

	if i.metrics != nil {
		i.metrics.LoginSuccesses.Inc()
	}
	return &Grant{
		Token:      session.Token,
		CookieName: CookieName(tenant.Subdomain),
		ExpiresAt:  session.ExpiresAt,
	}, nil
}

// deviceDisplayName derives a short "Browser on OS" label from the raw
// User-Agent header, for session listings.
func deviceDisplayName(raw string) string {
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	name, _ := ua.Browser()
	os := ua.OSInfo().Name
	switch {
	case name != "" && os != "":
		return name + " on " + os
	case name != "":
		return name
	default:
		return os
	}
}
