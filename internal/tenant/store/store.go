// Package store holds the tenant directory implementations. The directory is
// the single authoritative record of tenants; all domain/subdomain uniqueness
// is enforced here at write time.
package store

import (
	"context"

	"docport/internal/tenant/models"
	id "docport/pkg/domain"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound when the requested tenant does not exist
// - Return sentinel.ErrAlreadyUsed on uniqueness violations
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures

// Directory is the tenant directory consumed by services and the domain resolver.
type Directory interface {
	CreateIfNameAvailable(ctx context.Context, t *models.Tenant) error
	FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	FindByName(ctx context.Context, name string) (*models.Tenant, error)
	FindByAPIKeyDigest(ctx context.Context, digest string) (*models.Tenant, error)
	FindByCustomDomain(ctx context.Context, domain string) (*models.Tenant, error)
	FindBySubdomain(ctx context.Context, label string) (*models.Tenant, error)
	// Update persists a mutated tenant, re-checking custom domain and
	// subdomain uniqueness against all other tenants.
	Update(ctx context.Context, t *models.Tenant) error
	Count(ctx context.Context) (int, error)
}
