package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"docport/internal/credentials/models"
	"docport/internal/sentinel"
	id "docport/pkg/domain"
)

// InMemory stores credentials in memory for tests and single-node development.
type InMemory struct {
	mu sync.RWMutex
	// creds[tenantID][name]
	creds map[string]map[string]*models.Credential
}

// NewInMemory creates an in-memory credential store.
func NewInMemory() *InMemory {
	return &InMemory{creds: make(map[string]map[string]*models.Credential)}
}

// Create inserts the credential if the name is free within the tenant.
func (s *InMemory) Create(_ context.Context, c *models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenantKey := c.TenantID.String()
	byName, ok := s.creds[tenantKey]
	if !ok {
		byName = map[string]*models.Credential{}
		s.creds[tenantKey] = byName
	}
	if _, exists := byName[c.Name]; exists {
		return fmt.Errorf("credential name must be unique within the tenant: %w", sentinel.ErrAlreadyUsed)
	}
	byName[c.Name] = c
	return nil
}

// FindByName retrieves a credential by tenant and name.
func (s *InMemory) FindByName(_ context.Context, tenantID id.TenantID, name string) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.creds[tenantID.String()][name]; ok {
		return c, nil
	}
	return nil, sentinel.ErrNotFound
}

// List returns the tenant's credentials ordered by name.
func (s *InMemory) List(_ context.Context, tenantID id.TenantID) ([]*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byName := s.creds[tenantID.String()]
	out := make([]*models.Credential, 0, len(byName))
	for _, c := range byName {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Update persists a mutated credential.
func (s *InMemory) Update(_ context.Context, c *models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byName, ok := s.creds[c.TenantID.String()]
	if !ok {
		return sentinel.ErrNotFound
	}
	if _, exists := byName[c.Name]; !exists {
		return sentinel.ErrNotFound
	}
	byName[c.Name] = c
	return nil
}

// Delete removes the credential by ID.
func (s *InMemory) Delete(_ context.Context, tenantID id.TenantID, credID id.CredentialID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byName := s.creds[tenantID.String()]
	for name, c := range byName {
		if c.ID == credID {
			delete(byName, name)
			return nil
		}
	}
	return sentinel.ErrNotFound
}
