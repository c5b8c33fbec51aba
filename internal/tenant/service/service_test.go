package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"docport/internal/tenant/store"
	dErrors "docport/pkg/domain-errors"
	"docport/pkg/secrets"
)

// TenantServiceSuite tests tenant registration and domain configuration.
//
// Justification: this is the only writer of tenant records; API key issuance
// and the anti-enumeration shape of password verification live here.
type TenantServiceSuite struct {
	suite.Suite
	svc *Service
	now time.Time
}

func TestTenantServiceSuite(t *testing.T) {
	suite.Run(t, new(TenantServiceSuite))
}

func (s *TenantServiceSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.svc = New(store.NewInMemory(), WithClock(func() time.Time { return s.now }))
}

func (s *TenantServiceSuite) TestRegister() {
	reg, err := s.svc.Register(context.Background(), "Acme")
	s.Require().NoError(err)

	s.Run("issues a prefixed API key returned once", func() {
		s.Contains(reg.APIKey, "dk_")
		s.Equal(secrets.Digest(reg.APIKey), reg.Tenant.APIKeyDigest)
	})

	s.Run("authenticates with the issued key", func() {
		tenant, err := s.svc.Authenticate(context.Background(), reg.APIKey)
		s.Require().NoError(err)
		s.Equal(reg.Tenant.ID, tenant.ID)
	})

	s.Run("rejects unknown keys as unauthorized", func() {
		_, err := s.svc.Authenticate(context.Background(), "dk_bogus")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("rejects duplicate names as conflict", func() {
		_, err := s.svc.Register(context.Background(), "acme")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *TenantServiceSuite) TestConfigureDomain() {
	reg, err := s.svc.Register(context.Background(), "Acme")
	s.Require().NoError(err)

	sub := "acme"
	domain := "docs.acme.com"
	password := "secret123"

	tenant, err := s.svc.ConfigureDomain(context.Background(), reg.Tenant.ID, DomainConfig{
		CustomDomain:      &domain,
		Subdomain:         &sub,
		SubdomainPassword: &password,
	})
	s.Require().NoError(err)

	s.Run("bindings are resolvable", func() {
		byDomain, err := s.svc.FindByCustomDomain(context.Background(), "docs.acme.com")
		s.Require().NoError(err)
		s.Equal(tenant.ID, byDomain.ID)

		bySub, err := s.svc.FindBySubdomain(context.Background(), "acme")
		s.Require().NoError(err)
		s.Equal(tenant.ID, bySub.ID)
	})

	s.Run("password is stored hashed, never in clear", func() {
		s.True(tenant.HasSubdomainPassword())
		s.NotEqual("secret123", tenant.SubdomainPasswordHash)
	})

	s.Run("empty password clears the gate", func() {
		empty := ""
		updated, err := s.svc.ConfigureDomain(context.Background(), reg.Tenant.ID, DomainConfig{
			SubdomainPassword: &empty,
		})
		s.Require().NoError(err)
		s.False(updated.HasSubdomainPassword())
	})

	s.Run("second tenant cannot claim the subdomain", func() {
		other, err := s.svc.Register(context.Background(), "Globex")
		s.Require().NoError(err)
		_, err = s.svc.ConfigureDomain(context.Background(), other.Tenant.ID, DomainConfig{
			Subdomain: &sub,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		// The rejected claim must not stick to the loser's record.
		loser, err := s.svc.Get(context.Background(), other.Tenant.ID)
		s.Require().NoError(err)
		s.Empty(loser.Subdomain)
	})

	s.Run("rejected update leaves the whole record untouched", func() {
		other, err := s.svc.Register(context.Background(), "Initech")
		s.Require().NoError(err)
		otherPassword := "hunter2hunter2"
		otherDomain := "docs.initech.com"
		_, err = s.svc.ConfigureDomain(context.Background(), other.Tenant.ID, DomainConfig{
			CustomDomain:      &otherDomain,
			Subdomain:         &sub,
			SubdomainPassword: &otherPassword,
		})
		s.Require().True(dErrors.HasCode(err, dErrors.CodeConflict))

		loser, err := s.svc.Get(context.Background(), other.Tenant.ID)
		s.Require().NoError(err)
		s.Empty(loser.Subdomain)
		s.Empty(loser.CustomDomain)
		s.False(loser.HasSubdomainPassword())
	})
}

func (s *TenantServiceSuite) TestPasswordRequiresSubdomain() {
	reg, err := s.svc.Register(context.Background(), "Acme")
	s.Require().NoError(err)

	password := "secret123"

	s.Run("password without a subdomain is rejected", func() {
		_, err := s.svc.ConfigureDomain(context.Background(), reg.Tenant.ID, DomainConfig{
			SubdomainPassword: &password,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("binding subdomain and password together works", func() {
		sub := "acme"
		tenant, err := s.svc.ConfigureDomain(context.Background(), reg.Tenant.ID, DomainConfig{
			Subdomain:         &sub,
			SubdomainPassword: &password,
		})
		s.Require().NoError(err)
		s.True(tenant.HasSubdomainPassword())
	})

	s.Run("unbinding the subdomain clears the gate", func() {
		empty := ""
		tenant, err := s.svc.ConfigureDomain(context.Background(), reg.Tenant.ID, DomainConfig{
			Subdomain: &empty,
		})
		s.Require().NoError(err)
		s.Empty(tenant.Subdomain)
		s.False(tenant.HasSubdomainPassword())
	})
}

func (s *TenantServiceSuite) TestVerifySubdomainPassword() {
	reg, err := s.svc.Register(context.Background(), "Acme")
	s.Require().NoError(err)
	sub := "acme"
	password := "secret123"
	_, err = s.svc.ConfigureDomain(context.Background(), reg.Tenant.ID, DomainConfig{
		Subdomain:         &sub,
		SubdomainPassword: &password,
	})
	s.Require().NoError(err)

	s.Run("correct password resolves the tenant", func() {
		tenant, err := s.svc.VerifySubdomainPassword(context.Background(), "acme", "secret123")
		s.Require().NoError(err)
		s.Equal(reg.Tenant.ID, tenant.ID)
	})

	s.Run("wrong password and unknown subdomain fail identically", func() {
		_, errWrong := s.svc.VerifySubdomainPassword(context.Background(), "acme", "nope")
		_, errUnknown := s.svc.VerifySubdomainPassword(context.Background(), "ghost", "secret123")
		s.Require().Error(errWrong)
		s.Require().Error(errUnknown)
		s.Equal(errWrong.Error(), errUnknown.Error())
		s.True(dErrors.HasCode(errWrong, dErrors.CodeUnauthorized))
		s.True(dErrors.HasCode(errUnknown, dErrors.CodeUnauthorized))
	})

	s.Run("gateless tenant rejects password login", func() {
		empty := ""
		_, err := s.svc.ConfigureDomain(context.Background(), reg.Tenant.ID, DomainConfig{
			SubdomainPassword: &empty,
		})
		s.Require().NoError(err)
		_, err = s.svc.VerifySubdomainPassword(context.Background(), "acme", "secret123")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *TenantServiceSuite) TestMarkDomainVerified() {
	reg, err := s.svc.Register(context.Background(), "Acme")
	s.Require().NoError(err)

	_, err = s.svc.MarkDomainVerified(context.Background(), reg.Tenant.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	domain := "docs.acme.com"
	_, err = s.svc.ConfigureDomain(context.Background(), reg.Tenant.ID, DomainConfig{CustomDomain: &domain})
	s.Require().NoError(err)

	tenant, err := s.svc.MarkDomainVerified(context.Background(), reg.Tenant.ID)
	s.Require().NoError(err)
	s.True(tenant.DomainVerified)
}
