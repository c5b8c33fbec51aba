package store

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"

	"docport/internal/sentinel"
	"docport/internal/tenant/models"
	id "docport/pkg/domain"
)

// ErrNotFound is returned when a tenant is not found.
var ErrNotFound = sentinel.ErrNotFound

// InMemory stores tenants in memory for tests and single-node development.
type InMemory struct {
	mu           sync.RWMutex
	tenants      map[string]*models.Tenant
	nameIdx      map[string]string
	apiKeyIdx    map[string]string
	domainIdx    map[string]string
	subdomainIdx map[string]string
}

// NewInMemory creates an in-memory tenant directory.
func NewInMemory() *InMemory {
	return &InMemory{
		tenants:      make(map[string]*models.Tenant),
		nameIdx:      make(map[string]string),
		apiKeyIdx:    make(map[string]string),
		domainIdx:    make(map[string]string),
		subdomainIdx: make(map[string]string),
	}
}

// CreateIfNameAvailable atomically creates the tenant if the name is not already taken (case-insensitive).
func (s *InMemory) CreateIfNameAvailable(_ context.Context, t *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lower := strings.ToLower(t.Name)
	if _, exists := s.nameIdx[lower]; exists {
		return fmt.Errorf("tenant name must be unique: %w", sentinel.ErrAlreadyUsed)
	}
	key := t.ID.String()
	s.tenants[key] = cloneTenant(t)
	s.nameIdx[lower] = key
	s.apiKeyIdx[t.APIKeyDigest] = key
	return nil
}

// FindByID retrieves a tenant by its UUID.
func (s *InMemory) FindByID(_ context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tenants[tenantID.String()]; ok {
		return cloneTenant(t), nil
	}
	return nil, ErrNotFound
}

// FindByName retrieves a tenant by name (case-insensitive).
func (s *InMemory) FindByName(_ context.Context, name string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if key, ok := s.nameIdx[strings.ToLower(name)]; ok {
		return cloneTenant(s.tenants[key]), nil
	}
	return nil, ErrNotFound
}

// FindByAPIKeyDigest retrieves a tenant by the sha256 digest of its API key.
func (s *InMemory) FindByAPIKeyDigest(_ context.Context, digest string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if key, ok := s.apiKeyIdx[digest]; ok {
		return cloneTenant(s.tenants[key]), nil
	}
	return nil, ErrNotFound
}

// FindByCustomDomain retrieves a tenant whose custom domain matches exactly (case-insensitive).
func (s *InMemory) FindByCustomDomain(_ context.Context, domain string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if key, ok := s.domainIdx[strings.ToLower(domain)]; ok {
		return cloneTenant(s.tenants[key]), nil
	}
	return nil, ErrNotFound
}

// FindBySubdomain retrieves a tenant by its managed subdomain label (case-insensitive).
func (s *InMemory) FindBySubdomain(_ context.Context, label string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if key, ok := s.subdomainIdx[strings.ToLower(label)]; ok {
		return cloneTenant(s.tenants[key]), nil
	}
	return nil, ErrNotFound
}

// Update persists a mutated tenant, enforcing that at most one tenant claims
// a given custom domain or subdomain at any time.
func (s *InMemory) Update(_ context.Context, t *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := t.ID.String()
	prev, ok := s.tenants[key]
	if !ok {
		return ErrNotFound
	}

	if t.CustomDomain != "" {
		if owner, claimed := s.domainIdx[t.CustomDomain]; claimed && owner != key {
			return fmt.Errorf("custom domain must be unique: %w", sentinel.ErrAlreadyUsed)
		}
	}
	if t.Subdomain != "" {
		if owner, claimed := s.subdomainIdx[t.Subdomain]; claimed && owner != key {
			return fmt.Errorf("subdomain must be unique: %w", sentinel.ErrAlreadyUsed)
		}
	}

	if prev.CustomDomain != "" && prev.CustomDomain != t.CustomDomain {
		delete(s.domainIdx, prev.CustomDomain)
	}
	if prev.Subdomain != "" && prev.Subdomain != t.Subdomain {
		delete(s.subdomainIdx, prev.Subdomain)
	}
	if t.CustomDomain != "" {
		s.domainIdx[t.CustomDomain] = key
	}
	if t.Subdomain != "" {
		s.subdomainIdx[t.Subdomain] = key
	}

	s.tenants[key] = cloneTenant(t)
	return nil
}

// Count returns the total number of tenants.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tenants), nil
}

// cloneTenant keeps the map's records private: callers mutate their own copy
// and nothing changes in the directory until Update accepts the write. The
// postgres store gets the same isolation for free by scanning fresh rows.
func cloneTenant(t *models.Tenant) *models.Tenant {
	c := *t
	c.Branding = maps.Clone(t.Branding)
	return &c
}
