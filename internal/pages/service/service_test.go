package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"

	"docport/internal/pages/service"
	"docport/internal/pages/store"
	id "docport/pkg/domain"
	dErrors "docport/pkg/domain-errors"
)

// ServiceSuite tests page CRUD and the markdown mirror side effect against
// the in-memory store and an afero memory filesystem.
type ServiceSuite struct {
	suite.Suite
	fs       afero.Fs
	svc      *service.Service
	tenantID id.TenantID
	now      time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.fs = afero.NewMemMapFs()
	s.tenantID = id.TenantID(uuid.New())
	s.svc = service.New(
		store.NewInMemory(),
		service.NewMirror(s.fs, "/srv/docs"),
		service.WithClock(func() time.Time { return s.now }),
	)
}

func (s *ServiceSuite) TestCreate() {
	page, err := s.svc.Create(context.Background(), s.tenantID, "getting-started", "Getting Started", "Welcome.")
	s.Require().NoError(err)
	s.Equal("getting-started", page.Slug)
	s.False(page.ID.IsNil())

	s.Run("mirrors the markdown file", func() {
		content, err := afero.ReadFile(s.fs, "/srv/docs/"+s.tenantID.String()+"/getting-started.md")
		s.Require().NoError(err)
		s.Equal("# Getting Started\n\nWelcome.", string(content))
	})

	s.Run("duplicate slug conflicts", func() {
		_, err := s.svc.Create(context.Background(), s.tenantID, "getting-started", "Again", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("same slug under another tenant is fine", func() {
		_, err := s.svc.Create(context.Background(), id.TenantID(uuid.New()), "getting-started", "Other", "")
		s.NoError(err)
	})
}

func (s *ServiceSuite) TestNestedSlugs() {
	_, err := s.svc.Create(context.Background(), s.tenantID, "guides/install", "Install", "Steps.")
	s.Require().NoError(err)

	exists, err := afero.Exists(s.fs, "/srv/docs/"+s.tenantID.String()+"/guides/install.md")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *ServiceSuite) TestInvalidSlugRejected() {
	for _, slug := range []string{"", "../escape", "UPPER", "a b", "trailing/", "/leading", "dot.md"} {
		_, err := s.svc.Create(context.Background(), s.tenantID, slug, "T", "")
		s.Require().Error(err, slug)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation), slug)
	}
}

func (s *ServiceSuite) TestUpdate() {
	_, err := s.svc.Create(context.Background(), s.tenantID, "faq", "FAQ", "v1")
	s.Require().NoError(err)

	s.now = s.now.Add(time.Hour)
	page, err := s.svc.Update(context.Background(), s.tenantID, "faq", "FAQ", "v2")
	s.Require().NoError(err)
	s.Equal("v2", page.Content)
	s.Equal(s.now, page.UpdatedAt)

	content, err := afero.ReadFile(s.fs, "/srv/docs/"+s.tenantID.String()+"/faq.md")
	s.Require().NoError(err)
	s.Contains(string(content), "v2")
}

func (s *ServiceSuite) TestDelete() {
	_, err := s.svc.Create(context.Background(), s.tenantID, "faq", "FAQ", "v1")
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Delete(context.Background(), s.tenantID, "faq"))

	_, err = s.svc.Get(context.Background(), s.tenantID, "faq")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	exists, err := afero.Exists(s.fs, "/srv/docs/"+s.tenantID.String()+"/faq.md")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *ServiceSuite) TestList() {
	for _, slug := range []string{"zebra", "alpha", "guides/install"} {
		_, err := s.svc.Create(context.Background(), s.tenantID, slug, "T", "")
		s.Require().NoError(err)
	}
	pages, err := s.svc.List(context.Background(), s.tenantID)
	s.Require().NoError(err)
	s.Require().Len(pages, 3)
	s.Equal("alpha", pages[0].Slug)
	s.Equal("guides/install", pages[1].Slug)
	s.Equal("zebra", pages[2].Slug)
}

func (s *ServiceSuite) TestGetUnknown() {
	_, err := s.svc.Get(context.Background(), s.tenantID, "ghost")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
