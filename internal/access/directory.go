// Package access implements multi-tenant domain resolution and subdomain
// session authentication: given a request's host, which tenant owns it,
// whether its content is password-gated, and whether the presented session
// cookie satisfies the gate.
package access

import (
	"context"

	"docport/internal/tenant/models"
	id "docport/pkg/domain"
)

// Directory is the read-only tenant directory view the access subsystem
// consumes. The data API backs it with the local store; the portal backs it
// with an HTTP client against the API's internal endpoints. Lookups return
// sentinel.ErrNotFound for unknown hosts/labels and other errors for
// transport failures, which the gate treats differently (fail closed).
type Directory interface {
	FindByCustomDomain(ctx context.Context, domain string) (*models.Tenant, error)
	FindBySubdomain(ctx context.Context, label string) (*models.Tenant, error)
	FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	// VerifySubdomainPassword authenticates a password attempt against the
	// tenant bound to the label. Unknown label and wrong password fail with
	// the same unauthorized error.
	VerifySubdomainPassword(ctx context.Context, label, password string) (*models.Tenant, error)
}
