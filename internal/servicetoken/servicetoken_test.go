package servicetoken_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"docport/internal/servicetoken"
	dErrors "docport/pkg/domain-errors"
)

// SignerSuite tests the service-to-service token contract.
//
// Justification: the internal API surface trusts these tokens entirely;
// signature, expiry, and key isolation failures would expose every tenant's
// directory data.
type SignerSuite struct {
	suite.Suite
	signer *servicetoken.Signer
	now    time.Time
}

func TestSignerSuite(t *testing.T) {
	suite.Run(t, new(SignerSuite))
}

func (s *SignerSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.signer = servicetoken.New("shared-secret", servicetoken.WithClock(func() time.Time { return s.now }))
}

func (s *SignerSuite) TestMintAndValidate() {
	token, err := s.signer.Mint("portal")
	s.Require().NoError(err)

	claims, err := s.signer.Validate(token)
	s.Require().NoError(err)
	s.Equal("portal", claims.Service)
	s.Equal("portal", claims.Subject)
}

func (s *SignerSuite) TestExpiredTokenRejected() {
	token, err := s.signer.Mint("portal")
	s.Require().NoError(err)

	s.now = s.now.Add(6 * time.Minute)
	_, err = s.signer.Validate(token)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *SignerSuite) TestWrongKeyRejected() {
	other := servicetoken.New("different-secret", servicetoken.WithClock(func() time.Time { return s.now }))
	token, err := other.Mint("portal")
	s.Require().NoError(err)

	_, err = s.signer.Validate(token)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *SignerSuite) TestEmptyTokenRejected() {
	_, err := s.signer.Validate("")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *SignerSuite) TestEmptyServiceNameRejected() {
	_, err := s.signer.Mint("")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
