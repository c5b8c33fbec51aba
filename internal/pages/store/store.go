// Package store holds the page store implementations. Slug uniqueness is
// scoped to the owning tenant and enforced here at write time.
package store

import (
	"context"

	"docport/internal/pages/models"
	id "docport/pkg/domain"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound when the requested page does not exist
// - Return sentinel.ErrAlreadyUsed when a slug is taken within the tenant
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures

// Store persists markdown pages keyed by tenant and slug.
type Store interface {
	Create(ctx context.Context, p *models.Page) error
	FindBySlug(ctx context.Context, tenantID id.TenantID, slug string) (*models.Page, error)
	// List returns the tenant's pages ordered by slug.
	List(ctx context.Context, tenantID id.TenantID) ([]*models.Page, error)
	Update(ctx context.Context, p *models.Page) error
	Delete(ctx context.Context, tenantID id.TenantID, slug string) error
}
