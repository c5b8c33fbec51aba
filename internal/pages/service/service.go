// Package service owns page writes: validation, slug uniqueness through the
// store, and the markdown mirror side effect.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"docport/internal/pages/models"
	"docport/internal/pages/store"
	"docport/internal/sentinel"
	id "docport/pkg/domain"
	dErrors "docport/pkg/domain-errors"
)

// Service coordinates the page store and the markdown mirror.
type Service struct {
	store  store.Store
	mirror *Mirror
	now    func() time.Time
}

// Option configures the service.
type Option func(*Service)

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New constructs the page service. mirror may be nil to disable mirroring.
func New(st store.Store, mirror *Mirror, opts ...Option) *Service {
	s := &Service{
		store:  st,
		mirror: mirror,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create adds a page to the tenant's docs tree and mirrors it.
func (s *Service) Create(ctx context.Context, tenantID id.TenantID, slug, title, content string) (*models.Page, error) {
	page, err := models.NewPage(id.PageID(uuid.New()), tenantID, slug, title, content, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, page); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "a page with this slug already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create page")
	}
	if err := s.mirrorWrite(page); err != nil {
		return nil, err
	}
	return page, nil
}

// Get retrieves one page.
func (s *Service) Get(ctx context.Context, tenantID id.TenantID, slug string) (*models.Page, error) {
	page, err := s.store.FindBySlug(ctx, tenantID, slug)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return page, nil
}

// List returns all of the tenant's pages ordered by slug.
func (s *Service) List(ctx context.Context, tenantID id.TenantID) ([]*models.Page, error) {
	pages, err := s.store.List(ctx, tenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pages")
	}
	return pages, nil
}

// Update revises an existing page and refreshes its mirror file.
func (s *Service) Update(ctx context.Context, tenantID id.TenantID, slug, title, content string) (*models.Page, error) {
	page, err := s.Get(ctx, tenantID, slug)
	if err != nil {
		return nil, err
	}
	if err := page.Revise(title, content, s.now()); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, page); err != nil {
		return nil, wrapStoreErr(err)
	}
	if err := s.mirrorWrite(page); err != nil {
		return nil, err
	}
	return page, nil
}

// Delete removes a page and its mirror file.
func (s *Service) Delete(ctx context.Context, tenantID id.TenantID, slug string) error {
	if err := s.store.Delete(ctx, tenantID, slug); err != nil {
		return wrapStoreErr(err)
	}
	if s.mirror != nil {
		if err := s.mirror.Remove(tenantID, slug); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove page mirror")
		}
	}
	return nil
}

func (s *Service) mirrorWrite(page *models.Page) error {
	if s.mirror == nil {
		return nil
	}
	if err := s.mirror.Write(page); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mirror page")
	}
	return nil
}

func wrapStoreErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "page not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "page store failure")
}
