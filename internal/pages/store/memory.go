package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"docport/internal/pages/models"
	"docport/internal/sentinel"
	id "docport/pkg/domain"
)

// InMemory stores pages in memory for tests and single-node development.
type InMemory struct {
	mu sync.RWMutex
	// pages[tenantID][slug]
	pages map[string]map[string]*models.Page
}

// NewInMemory creates an in-memory page store.
func NewInMemory() *InMemory {
	return &InMemory{pages: make(map[string]map[string]*models.Page)}
}

// Create inserts the page if the slug is free within the tenant.
func (s *InMemory) Create(_ context.Context, p *models.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenantKey := p.TenantID.String()
	bySlug, ok := s.pages[tenantKey]
	if !ok {
		bySlug = map[string]*models.Page{}
		s.pages[tenantKey] = bySlug
	}
	if _, exists := bySlug[p.Slug]; exists {
		return fmt.Errorf("slug must be unique within the tenant: %w", sentinel.ErrAlreadyUsed)
	}
	bySlug[p.Slug] = p
	return nil
}

// FindBySlug retrieves one page by tenant and slug.
func (s *InMemory) FindBySlug(_ context.Context, tenantID id.TenantID, slug string) (*models.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.pages[tenantID.String()][slug]; ok {
		return p, nil
	}
	return nil, sentinel.ErrNotFound
}

// List returns the tenant's pages ordered by slug.
func (s *InMemory) List(_ context.Context, tenantID id.TenantID) ([]*models.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bySlug := s.pages[tenantID.String()]
	out := make([]*models.Page, 0, len(bySlug))
	for _, p := range bySlug {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

// Update persists a revised page.
func (s *InMemory) Update(_ context.Context, p *models.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bySlug, ok := s.pages[p.TenantID.String()]
	if !ok {
		return sentinel.ErrNotFound
	}
	if _, exists := bySlug[p.Slug]; !exists {
		return sentinel.ErrNotFound
	}
	bySlug[p.Slug] = p
	return nil
}

// Delete removes the page.
func (s *InMemory) Delete(_ context.Context, tenantID id.TenantID, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bySlug, ok := s.pages[tenantID.String()]
	if !ok {
		return sentinel.ErrNotFound
	}
	if _, exists := bySlug[slug]; !exists {
		return sentinel.ErrNotFound
	}
	delete(bySlug, slug)
	return nil
}
