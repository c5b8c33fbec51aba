// Package store holds the credential store implementations. Name uniqueness
// is scoped to the owning tenant.
package store

import (
	"context"

	"docport/internal/credentials/models"
	id "docport/pkg/domain"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound when the requested credential does not exist
// - Return sentinel.ErrAlreadyUsed when the name is taken within the tenant
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures

// Store persists service credentials.
type Store interface {
	Create(ctx context.Context, c *models.Credential) error
	FindByName(ctx context.Context, tenantID id.TenantID, name string) (*models.Credential, error)
	// List returns the tenant's credentials ordered by name.
	List(ctx context.Context, tenantID id.TenantID) ([]*models.Credential, error)
	Update(ctx context.Context, c *models.Credential) error
	Delete(ctx context.Context, tenantID id.TenantID, credID id.CredentialID) error
}
