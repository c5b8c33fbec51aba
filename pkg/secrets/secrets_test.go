package secrets

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "docport/pkg/domain-errors"
)

// SecretsSuite tests the secret primitives.
//
// Justification: these back API keys, subdomain passwords, and session
// tokens. The entropy and verification invariants are security-critical.
type SecretsSuite struct {
	suite.Suite
}

func TestSecretsSuite(t *testing.T) {
	suite.Run(t, new(SecretsSuite))
}

func (s *SecretsSuite) TestGenerate() {
	s.Run("produces 256 bits of entropy", func() {
		secret, err := Generate()
		s.Require().NoError(err)
		raw, err := base64.RawURLEncoding.DecodeString(secret)
		s.Require().NoError(err)
		s.Len(raw, 32)
	})

	s.Run("successive secrets differ", func() {
		a, err := Generate()
		s.Require().NoError(err)
		b, err := Generate()
		s.Require().NoError(err)
		s.NotEqual(a, b)
	})
}

func (s *SecretsSuite) TestGenerateAPIKey() {
	key, err := GenerateAPIKey()
	s.Require().NoError(err)
	s.True(strings.HasPrefix(key, "dk_"))
}

func (s *SecretsSuite) TestHashAndVerify() {
	s.Run("verify succeeds for the original secret", func() {
		hash, err := Hash("secret123")
		s.Require().NoError(err)
		s.NoError(Verify("secret123", hash))
	})

	s.Run("verify fails with unauthorized for a wrong secret", func() {
		hash, err := Hash("secret123")
		s.Require().NoError(err)
		err = Verify("wrong", hash)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("empty secret is rejected at hash time", func() {
		_, err := Hash("")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *SecretsSuite) TestDigest() {
	s.Run("is deterministic", func() {
		s.Equal(Digest("dk_abc"), Digest("dk_abc"))
	})

	s.Run("differs per input", func() {
		s.NotEqual(Digest("dk_abc"), Digest("dk_abd"))
	})
}
