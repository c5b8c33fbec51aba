package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"docport/internal/credentials/service"
	"docport/internal/credentials/store"
	id "docport/pkg/domain"
	dErrors "docport/pkg/domain-errors"
)

// ServiceSuite tests credential issuance, verification, and revocation.
type ServiceSuite struct {
	suite.Suite
	svc      *service.Service
	tenantID id.TenantID
	now      time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.tenantID = id.TenantID(uuid.New())
	s.svc = service.New(store.NewInMemory(), service.WithClock(func() time.Time { return s.now }))
}

func (s *ServiceSuite) TestCreate() {
	issued, err := s.svc.Create(context.Background(), s.tenantID, "ci-deploy")
	s.Require().NoError(err)
	s.NotEmpty(issued.Secret)
	s.NotEqual(issued.Secret, issued.Credential.SecretHash)
	s.Nil(issued.Credential.LastUsedAt)

	s.Run("duplicate name conflicts", func() {
		_, err := s.svc.Create(context.Background(), s.tenantID, "ci-deploy")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("blank name rejected", func() {
		_, err := s.svc.Create(context.Background(), s.tenantID, "  ")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestVerify() {
	issued, err := s.svc.Create(context.Background(), s.tenantID, "ci-deploy")
	s.Require().NoError(err)

	s.Run("correct secret verifies and records use", func() {
		s.now = s.now.Add(time.Hour)
		cred, err := s.svc.Verify(context.Background(), s.tenantID, "ci-deploy", issued.Secret)
		s.Require().NoError(err)
		s.Require().NotNil(cred.LastUsedAt)
		s.Equal(s.now, *cred.LastUsedAt)
	})

	s.Run("failures are generic", func() {
		_, errWrong := s.svc.Verify(context.Background(), s.tenantID, "ci-deploy", "nope")
		_, errUnknown := s.svc.Verify(context.Background(), s.tenantID, "ghost", issued.Secret)
		s.Require().Error(errWrong)
		s.Require().Error(errUnknown)
		s.Equal(errWrong.Error(), errUnknown.Error())
	})

	s.Run("other tenant cannot verify", func() {
		_, err := s.svc.Verify(context.Background(), id.TenantID(uuid.New()), "ci-deploy", issued.Secret)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *ServiceSuite) TestRevoke() {
	issued, err := s.svc.Create(context.Background(), s.tenantID, "ci-deploy")
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Revoke(context.Background(), s.tenantID, issued.Credential.ID))

	_, err = s.svc.Verify(context.Background(), s.tenantID, "ci-deploy", issued.Secret)
	s.Require().Error(err)

	err = s.svc.Revoke(context.Background(), s.tenantID, issued.Credential.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestList() {
	for _, name := range []string{"zeta", "alpha"} {
		_, err := s.svc.Create(context.Background(), s.tenantID, name)
		s.Require().NoError(err)
	}
	creds, err := s.svc.List(context.Background(), s.tenantID)
	s.Require().NoError(err)
	s.Require().Len(creds, 2)
	s.Equal("alpha", creds[0].Name)
	s.Equal("zeta", creds[1].Name)
}
