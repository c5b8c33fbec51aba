package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	dErrors "docport/pkg/domain-errors"
)

// IDSuite tests identifier parsing at trust boundaries.
//
// Justification: every handler parses IDs from untrusted input; the
// invariant "invalid input yields CodeInvalidInput, never a panic" must hold.
type IDSuite struct {
	suite.Suite
}

func TestIDSuite(t *testing.T) {
	suite.Run(t, new(IDSuite))
}

func (s *IDSuite) TestParseTenantID() {
	s.Run("round-trips a valid UUID", func() {
		raw := uuid.New().String()
		id, err := ParseTenantID(raw)
		s.Require().NoError(err)
		s.Equal(raw, id.String())
		s.False(id.IsNil())
	})

	s.Run("rejects malformed input with invalid_input", func() {
		_, err := ParseTenantID("not-a-uuid")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("nil UUID parses but reports IsNil", func() {
		id, err := ParseTenantID(uuid.Nil.String())
		s.Require().NoError(err)
		s.True(id.IsNil())
	})
}

func (s *IDSuite) TestParsePageID() {
	_, err := ParsePageID("")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
