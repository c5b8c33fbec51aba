// Package service orchestrates the tenant control plane: registration,
// API-key authentication, and domain/subdomain/password configuration.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"docport/internal/sentinel"
	tenantmetrics "docport/internal/tenant/metrics"
	"docport/internal/tenant/models"
	"docport/internal/tenant/store"
	id "docport/pkg/domain"
	dErrors "docport/pkg/domain-errors"
	"docport/pkg/secrets"
)

// Service owns all tenant mutations. It is the only writer of tenant records.
type Service struct {
	directory store.Directory
	metrics   *tenantmetrics.Metrics
	now       func() time.Time
}

// Option configures the service.
type Option func(*Service)

// WithMetrics attaches prometheus metrics.
func WithMetrics(m *tenantmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New constructs the tenant service.
func New(directory store.Directory, opts ...Option) *Service {
	s := &Service{
		directory: directory,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registration is the one-time response to tenant creation. APIKey is shown
// exactly once; only its digest is stored.
type Registration struct {
	Tenant *models.Tenant
	APIKey string
}

// Register creates a tenant and issues its immutable API key.
func (s *Service) Register(ctx context.Context, name string) (*Registration, error) {
	apiKey, err := secrets.GenerateAPIKey()
	if err != nil {
		return nil, err
	}

	tenant, err := models.NewTenant(id.TenantID(uuid.New()), name, secrets.Digest(apiKey), s.now())
	if err != nil {
		return nil, err
	}

	if err := s.directory.CreateIfNameAvailable(ctx, tenant); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "tenant name must be unique")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register tenant")
	}

	if s.metrics != nil {
		s.metrics.TenantRegistered.Inc()
	}
	return &Registration{Tenant: tenant, APIKey: apiKey}, nil
}

// Get retrieves a tenant by ID.
func (s *Service) Get(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant ID is required")
	}
	tenant, err := s.directory.FindByID(ctx, tenantID)
	if err != nil {
		return nil, wrapDirectoryErr(err)
	}
	return tenant, nil
}

// Authenticate resolves a tenant from a presented API key. Used by the
// data-plane middleware on every request.
func (s *Service) Authenticate(ctx context.Context, apiKey string) (*models.Tenant, error) {
	if apiKey == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "API key is required")
	}
	tenant, err := s.directory.FindByAPIKeyDigest(ctx, secrets.Digest(apiKey))
	if err != nil {
		if s.metrics != nil {
			s.metrics.APIKeyAuthFailures.Inc()
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid API key")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to authenticate API key")
	}
	return tenant, nil
}

// DomainConfig carries a partial domain configuration update. Nil fields are
// left untouched; empty strings clear the binding.
type DomainConfig struct {
	CustomDomain      *string
	Subdomain         *string
	SubdomainPassword *string
}

// ConfigureDomain applies a domain configuration change for the tenant.
func (s *Service) ConfigureDomain(ctx context.Context, tenantID id.TenantID, cfg DomainConfig) (*models.Tenant, error) {
	tenant, err := s.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	if cfg.CustomDomain != nil {
		if err := tenant.BindCustomDomain(*cfg.CustomDomain, now); err != nil {
			return nil, err
		}
	}
	if cfg.Subdomain != nil {
		if err := tenant.BindSubdomain(*cfg.Subdomain, now); err != nil {
			return nil, err
		}
	}
	if cfg.SubdomainPassword != nil {
		if *cfg.SubdomainPassword == "" {
			tenant.SetSubdomainPasswordHash("", now)
		} else {
			// A password without a subdomain would challenge custom-domain
			// visitors with a login that can never succeed.
			if tenant.Subdomain == "" {
				return nil, dErrors.New(dErrors.CodeValidation, "bind a subdomain before setting a subdomain password")
			}
			hash, err := secrets.Hash(*cfg.SubdomainPassword)
			if err != nil {
				return nil, err
			}
			tenant.SetSubdomainPasswordHash(hash, now)
		}
	}

	// Unbinding the subdomain retires its gate along with it.
	if tenant.Subdomain == "" && tenant.HasSubdomainPassword() {
		tenant.SetSubdomainPasswordHash("", now)
	}

	if err := s.directory.Update(ctx, tenant); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "domain or subdomain is already claimed")
		}
		return nil, wrapDirectoryErr(err)
	}

	if s.metrics != nil {
		s.metrics.DomainConfigUpdated.Inc()
	}
	return tenant, nil
}

// MarkDomainVerified records successful domain ownership verification.
func (s *Service) MarkDomainVerified(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	tenant, err := s.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := tenant.MarkDomainVerified(s.now()); err != nil {
		return nil, err
	}
	if err := s.directory.Update(ctx, tenant); err != nil {
		return nil, wrapDirectoryErr(err)
	}
	return tenant, nil
}

// FindByCustomDomain exposes the directory lookup for the domain resolver.
func (s *Service) FindByCustomDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	return s.directory.FindByCustomDomain(ctx, domain)
}

// FindBySubdomain exposes the directory lookup for the domain resolver.
func (s *Service) FindBySubdomain(ctx context.Context, label string) (*models.Tenant, error) {
	return s.directory.FindBySubdomain(ctx, label)
}

// FindByID exposes the directory lookup for session validation.
func (s *Service) FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	return s.directory.FindByID(ctx, tenantID)
}

// VerifySubdomainPassword authenticates a subdomain password attempt. The
// failure is a single generic unauthorized error for unknown subdomains and
// wrong passwords alike, so callers cannot enumerate tenants.
func (s *Service) VerifySubdomainPassword(ctx context.Context, label, password string) (*models.Tenant, error) {
	genericFailure := dErrors.New(dErrors.CodeUnauthorized, "invalid subdomain or password")

	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" || password == "" {
		return nil, genericFailure
	}
	tenant, err := s.directory.FindBySubdomain(ctx, label)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, genericFailure
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "directory lookup failed")
	}
	if !tenant.HasSubdomainPassword() {
		// No gate configured; password login is meaningless here.
		return nil, genericFailure
	}
	if err := secrets.Verify(password, tenant.SubdomainPasswordHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			return nil, genericFailure
		}
		return nil, err
	}
	return tenant, nil
}

func wrapDirectoryErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "tenant not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "tenant directory failure")
}
