// Package service owns credential issuance and verification. Secrets are
// bcrypt-hashed at rest and surfaced exactly once, at creation.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"docport/internal/credentials/models"
	"docport/internal/credentials/store"
	"docport/internal/sentinel"
	id "docport/pkg/domain"
	dErrors "docport/pkg/domain-errors"
	"docport/pkg/secrets"
)

// Service coordinates the credential store.
type Service struct {
	store store.Store
	now   func() time.Time
}

// Option configures the service.
type Option func(*Service)

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New constructs the credential service.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store: st,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issued is the one-time response to credential creation.
type Issued struct {
	Credential *models.Credential
	Secret     string
}

// Create mints a named credential and returns the secret once.
func (s *Service) Create(ctx context.Context, tenantID id.TenantID, name string) (*Issued, error) {
	secret, err := secrets.Generate()
	if err != nil {
		return nil, err
	}
	hash, err := secrets.Hash(secret)
	if err != nil {
		return nil, err
	}

	cred, err := models.NewCredential(id.CredentialID(uuid.New()), tenantID, name, hash, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, cred); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "a credential with this name already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create credential")
	}
	return &Issued{Credential: cred, Secret: secret}, nil
}

// List returns the tenant's credentials, hashes excluded by serialization.
func (s *Service) List(ctx context.Context, tenantID id.TenantID) ([]*models.Credential, error) {
	creds, err := s.store.List(ctx, tenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list credentials")
	}
	return creds, nil
}

// Verify checks a presented secret against the named credential and records
// the use. The failure is generic for unknown names and wrong secrets alike.
func (s *Service) Verify(ctx context.Context, tenantID id.TenantID, name, secret string) (*models.Credential, error) {
	genericFailure := dErrors.New(dErrors.CodeUnauthorized, "invalid credential")

	cred, err := s.store.FindByName(ctx, tenantID, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, genericFailure
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "credential store failure")
	}
	if err := secrets.Verify(secret, cred.SecretHash); err != nil {
		return nil, genericFailure
	}

	cred.Touch(s.now())
	if err := s.store.Update(ctx, cred); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record credential use")
	}
	return cred, nil
}

// Revoke deletes the credential.
func (s *Service) Revoke(ctx context.Context, tenantID id.TenantID, credID id.CredentialID) error {
	if err := s.store.Delete(ctx, tenantID, credID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "credential not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke credential")
	}
	return nil
}
