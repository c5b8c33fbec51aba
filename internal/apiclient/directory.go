package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"docport/internal/sentinel"
	"docport/internal/servicetoken"
	"docport/internal/tenant/models"
	id "docport/pkg/domain"
	dErrors "docport/pkg/domain-errors"
)

// remoteGateMarker stands in for the password hash on the portal side. The
// hash never leaves the API; the portal only needs the gate flag, and every
// password check goes back through the verify-password endpoint.
const remoteGateMarker = "remote"

// Directory is the portal's view of the tenant directory, served by the data
// API's internal endpoints and authenticated with service tokens. It
// satisfies the same interface the resolver and issuer use in-process.
type Directory struct {
	client *Client
	signer *servicetoken.Signer
}

// NewDirectory constructs the remote directory view.
func NewDirectory(client *Client, signer *servicetoken.Signer) *Directory {
	return &Directory{client: client, signer: signer}
}

// Tenant mirrors the API's tenant response.
type Tenant struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	CustomDomain      string            `json:"custom_domain"`
	DomainVerified    bool              `json:"domain_verified"`
	Subdomain         string            `json:"subdomain"`
	PasswordProtected bool              `json:"password_protected"`
	Branding          map[string]string `json:"branding"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// FindByCustomDomain resolves a tenant by exact custom domain.
func (d *Directory) FindByCustomDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	return d.resolve(ctx, url.Values{"custom_domain": {domain}})
}

// FindBySubdomain resolves a tenant by its managed subdomain label.
func (d *Directory) FindBySubdomain(ctx context.Context, label string) (*models.Tenant, error) {
	return d.resolve(ctx, url.Values{"subdomain": {label}})
}

// FindByID retrieves a tenant by ID.
func (d *Directory) FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	token, err := d.signer.Mint("portal")
	if err != nil {
		return nil, err
	}
	var payload Tenant
	err = d.client.do(ctx, http.MethodGet, "/internal/v1/tenants/"+tenantID.String(), token, nil, &payload)
	if err != nil {
		return nil, lookupErr(err)
	}
	return toTenant(&payload)
}

// VerifySubdomainPassword checks a password attempt against the API. The
// generic unauthorized failure passes through unchanged.
func (d *Directory) VerifySubdomainPassword(ctx context.Context, label, password string) (*models.Tenant, error) {
	token, err := d.signer.Mint("portal")
	if err != nil {
		return nil, err
	}
	body := map[string]string{"subdomain": label, "password": password}
	var payload Tenant
	err = d.client.do(ctx, http.MethodPost, "/internal/v1/tenants/verify-password", token, body, &payload)
	if err != nil {
		return nil, err
	}
	return toTenant(&payload)
}

func (d *Directory) resolve(ctx context.Context, query url.Values) (*models.Tenant, error) {
	token, err := d.signer.Mint("portal")
	if err != nil {
		return nil, err
	}
	var payload Tenant
	err = d.client.do(ctx, http.MethodGet, "/internal/v1/tenants/resolve?"+query.Encode(), token, nil, &payload)
	if err != nil {
		return nil, lookupErr(err)
	}
	return toTenant(&payload)
}

// lookupErr translates the API's 404 back into the store sentinel the
// resolver's anonymous-host handling expects.
func lookupErr(err error) error {
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return sentinel.ErrNotFound
	}
	return err
}

func toTenant(p *Tenant) (*models.Tenant, error) {
	tenantID, err := id.ParseTenantID(p.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "data API returned a malformed tenant")
	}
	t := &models.Tenant{
		ID:             tenantID,
		Name:           p.Name,
		CustomDomain:   p.CustomDomain,
		DomainVerified: p.DomainVerified,
		Subdomain:      p.Subdomain,
		Branding:       p.Branding,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.PasswordProtected {
		t.SubdomainPasswordHash = remoteGateMarker
	}
	return t, nil
}
