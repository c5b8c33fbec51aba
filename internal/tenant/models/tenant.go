package models

import (
	"strings"
	"time"

	id "docport/pkg/domain"
	dErrors "docport/pkg/domain-errors"
)

// Tenant is the authoritative record of an organization: identity, API key
// digest, domain bindings, and the optional subdomain password gate.
type Tenant struct {
	ID           id.TenantID `json:"id"`
	Name         string      `json:"name"`
	APIKeyDigest string      `json:"-"`

	// CustomDomain is a fully-qualified domain owned by the tenant,
	// stored lowercase. Empty when no custom domain is bound.
	CustomDomain   string `json:"custom_domain,omitempty"`
	DomainVerified bool   `json:"domain_verified"`

	// Subdomain is the tenant's label under the platform parent domain,
	// stored lowercase. Empty when no subdomain is bound.
	Subdomain string `json:"subdomain,omitempty"`

	// SubdomainPasswordHash is a bcrypt hash. Empty means the subdomain is
	// publicly readable with no gate.
	SubdomainPasswordHash string `json:"-"`

	Branding  map[string]string `json:"branding,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewTenant constructs a tenant at registration time. The API key digest is
// computed by the service; the raw key is returned to the caller exactly once.
func NewTenant(tenantID id.TenantID, name, apiKeyDigest string, now time.Time) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name must be 128 characters or less")
	}
	if apiKeyDigest == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant requires an API key digest")
	}
	return &Tenant{
		ID:           tenantID,
		Name:         name,
		APIKeyDigest: apiKeyDigest,
		Branding:     map[string]string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// HasSubdomainPassword reports whether the subdomain gate is enabled.
func (t *Tenant) HasSubdomainPassword() bool {
	return t.SubdomainPasswordHash != ""
}

// BindCustomDomain sets the tenant's custom domain, normalized to lowercase.
// A rebind resets the verified flag; verification runs out of band.
func (t *Tenant) BindCustomDomain(domain string, now time.Time) error {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain != "" && !strings.Contains(domain, ".") {
		return dErrors.New(dErrors.CodeValidation, "custom domain must be fully qualified")
	}
	t.CustomDomain = domain
	t.DomainVerified = false
	t.UpdatedAt = now
	return nil
}

// BindSubdomain sets the tenant's managed subdomain label, normalized to lowercase.
func (t *Tenant) BindSubdomain(label string, now time.Time) error {
	label = strings.ToLower(strings.TrimSpace(label))
	if label != "" && !validLabel(label) {
		return dErrors.New(dErrors.CodeValidation, "subdomain must be a single DNS label")
	}
	t.Subdomain = label
	t.UpdatedAt = now
	return nil
}

// SetSubdomainPasswordHash installs (or clears, with an empty hash) the
// password gate. The hash is produced by pkg/secrets; models never see plaintext.
func (t *Tenant) SetSubdomainPasswordHash(hash string, now time.Time) {
	t.SubdomainPasswordHash = hash
	t.UpdatedAt = now
}

// MarkDomainVerified records successful out-of-band domain ownership verification.
func (t *Tenant) MarkDomainVerified(now time.Time) error {
	if t.CustomDomain == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "no custom domain to verify")
	}
	t.DomainVerified = true
	t.UpdatedAt = now
	return nil
}

func validLabel(label string) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-' && i > 0 && i < len(label)-1:
		default:
			return false
		}
	}
	return true
}
