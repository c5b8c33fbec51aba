package access

import (
	"context"
	"time"

	id "docport/pkg/domain"
)

// Session is ephemeral proof that a visitor presented the correct subdomain
// password for one tenant within the validity window. Never persisted beyond
// its store; never revoked before expiry.
type Session struct {
	Token             id.SessionToken `json:"token"`
	TenantID          id.TenantID     `json:"tenant_id"`
	Subdomain         string          `json:"subdomain"`
	DeviceDisplayName string          `json:"device_display_name,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	ExpiresAt         time.Time       `json:"expires_at"`
}

// Expired reports whether the session is past its validity window.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Authorizes reports whether this session grants access to the given tenant.
// A session authorizes exactly one tenant; a token minted for tenant A must
// never allow tenant B even when the cookie name is forged.
func (s *Session) Authorizes(tenantID id.TenantID, now time.Time) bool {
	return s.TenantID == tenantID && !s.Expired(now)
}

// SessionStore holds subdomain-access sessions keyed by token.
//
// Get must never return an expired session: implementations check expiry
// lazily on read and may additionally evict proactively. Put is
// last-writer-wins on token collision (practically impossible at 256 bits).
type SessionStore interface {
	Put(ctx context.Context, session *Session) error
	// Get returns sentinel.ErrNotFound for unknown and expired tokens alike.
	Get(ctx context.Context, token id.SessionToken, now time.Time) (*Session, error)
	// DeleteExpired removes sessions expired as of now and reports how many.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// CookieNamePrefix namespaces session cookies per subdomain so a session for
// one subdomain is not presented against another served by the same browser.
const CookieNamePrefix = "subdomain_auth_"

// CookieName returns the session cookie name for a subdomain label.
func CookieName(label string) string {
	return CookieNamePrefix + label
}
