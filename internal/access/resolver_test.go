package access_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"docport/internal/access"
	"docport/internal/sentinel"
	"docport/internal/tenant/models"
	id "docport/pkg/domain"
	dErrors "docport/pkg/domain-errors"
	"docport/pkg/secrets"
)

// fakeDirectory is the test double for the tenant directory view. The real
// implementations are the tenant service (api process) and the HTTP client
// (portal process); the access subsystem only sees this interface.
type fakeDirectory struct {
	byDomain    map[string]*models.Tenant
	bySubdomain map[string]*models.Tenant
	byID        map[id.TenantID]*models.Tenant
	err         error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		byDomain:    make(map[string]*models.Tenant),
		bySubdomain: make(map[string]*models.Tenant),
		byID:        make(map[id.TenantID]*models.Tenant),
	}
}

func (d *fakeDirectory) add(t *models.Tenant) {
	if t.CustomDomain != "" {
		d.byDomain[t.CustomDomain] = t
	}
	if t.Subdomain != "" {
		d.bySubdomain[t.Subdomain] = t
	}
	d.byID[t.ID] = t
}

func (d *fakeDirectory) FindByCustomDomain(_ context.Context, domain string) (*models.Tenant, error) {
	if d.err != nil {
		return nil, d.err
	}
	if t, ok := d.byDomain[domain]; ok {
		return t, nil
	}
	return nil, sentinel.ErrNotFound
}

func (d *fakeDirectory) FindBySubdomain(_ context.Context, label string) (*models.Tenant, error) {
	if d.err != nil {
		return nil, d.err
	}
	if t, ok := d.bySubdomain[label]; ok {
		return t, nil
	}
	return nil, sentinel.ErrNotFound
}

func (d *fakeDirectory) FindByID(_ context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	if d.err != nil {
		return nil, d.err
	}
	if t, ok := d.byID[tenantID]; ok {
		return t, nil
	}
	return nil, sentinel.ErrNotFound
}

func (d *fakeDirectory) VerifySubdomainPassword(_ context.Context, label, password string) (*models.Tenant, error) {
	genericFailure := dErrors.New(dErrors.CodeUnauthorized, "invalid subdomain or password")
	if d.err != nil {
		return nil, dErrors.Wrap(d.err, dErrors.CodeUnavailable, "directory lookup failed")
	}
	t, ok := d.bySubdomain[label]
	if !ok || !t.HasSubdomainPassword() {
		return nil, genericFailure
	}
	if err := secrets.Verify(password, t.SubdomainPasswordHash); err != nil {
		return nil, genericFailure
	}
	return t, nil
}

func makeTenant(t *testing.T, name, customDomain, subdomain, password string) *models.Tenant {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tenant, err := models.NewTenant(id.TenantID(uuid.New()), name, "digest-"+name, now)
	if err != nil {
		t.Fatal(err)
	}
	if customDomain != "" {
		if err := tenant.BindCustomDomain(customDomain, now); err != nil {
			t.Fatal(err)
		}
	}
	if subdomain != "" {
		if err := tenant.BindSubdomain(subdomain, now); err != nil {
			t.Fatal(err)
		}
	}
	if password != "" {
		hash, err := secrets.Hash(password)
		if err != nil {
			t.Fatal(err)
		}
		tenant.SetSubdomainPasswordHash(hash, now)
	}
	return tenant
}

// ResolverSuite tests host-to-tenant resolution.
//
// Justification: every request on the portal rides on this mapping; the
// custom-domain-before-suffix ordering and host normalization are the two
// spots where two processes could disagree about tenant identity.
type ResolverSuite struct {
	suite.Suite
	dir      *fakeDirectory
	resolver *access.Resolver
	acme     *models.Tenant
	globex   *models.Tenant
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.dir = newFakeDirectory()
	s.acme = makeTenant(s.T(), "Acme", "docs.acme.com", "acme", "")
	s.globex = makeTenant(s.T(), "Globex", "", "globex", "")
	s.dir.add(s.acme)
	s.dir.add(s.globex)
	s.resolver = access.NewResolver(s.dir, "docport.dev")
}

func (s *ResolverSuite) TestCustomDomainMatch() {
	s.Run("exact match resolves the owning tenant", func() {
		resolved, err := s.resolver.Resolve(context.Background(), "docs.acme.com")
		s.Require().NoError(err)
		s.Require().True(resolved.HasTenant())
		s.Equal(s.acme.ID, resolved.Tenant.ID)
		s.Equal(access.BindingCustomDomain, resolved.Mode)
	})

	s.Run("case and port are normalized", func() {
		resolved, err := s.resolver.Resolve(context.Background(), "DOCS.Acme.COM:8443")
		s.Require().NoError(err)
		s.Require().True(resolved.HasTenant())
		s.Equal(s.acme.ID, resolved.Tenant.ID)
	})

	s.Run("custom domain under the parent suffix beats the label check", func() {
		hijack := makeTenant(s.T(), "Hijack", "special.docport.dev", "", "")
		s.dir.add(hijack)
		resolved, err := s.resolver.Resolve(context.Background(), "special.docport.dev")
		s.Require().NoError(err)
		s.Require().True(resolved.HasTenant())
		s.Equal(hijack.ID, resolved.Tenant.ID)
		s.Equal(access.BindingCustomDomain, resolved.Mode)
	})
}

func (s *ResolverSuite) TestSubdomainMatch() {
	s.Run("label under the parent domain resolves", func() {
		resolved, err := s.resolver.Resolve(context.Background(), "globex.docport.dev")
		s.Require().NoError(err)
		s.Require().True(resolved.HasTenant())
		s.Equal(s.globex.ID, resolved.Tenant.ID)
		s.Equal(access.BindingSubdomain, resolved.Mode)
	})

	s.Run("unknown label resolves to no tenant", func() {
		resolved, err := s.resolver.Resolve(context.Background(), "ghost.docport.dev")
		s.Require().NoError(err)
		s.False(resolved.HasTenant())
		s.Equal(access.BindingNone, resolved.Mode)
	})

	s.Run("bare parent domain is anonymous", func() {
		resolved, err := s.resolver.Resolve(context.Background(), "docport.dev")
		s.Require().NoError(err)
		s.False(resolved.HasTenant())
	})

	s.Run("nested labels do not match", func() {
		resolved, err := s.resolver.Resolve(context.Background(), "deep.acme.docport.dev")
		s.Require().NoError(err)
		s.False(resolved.HasTenant())
	})

	s.Run("unrelated host is anonymous", func() {
		resolved, err := s.resolver.Resolve(context.Background(), "example.org")
		s.Require().NoError(err)
		s.False(resolved.HasTenant())
	})
}

func (s *ResolverSuite) TestDirectoryFailure() {
	s.dir.err = errors.New("connection refused")
	_, err := s.resolver.Resolve(context.Background(), "docs.acme.com")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func (s *ResolverSuite) TestNormalizeHost() {
	s.Equal("acme.docport.dev", access.NormalizeHost(" ACME.docport.dev:443 "))
	s.Equal("", access.NormalizeHost(""))
}
