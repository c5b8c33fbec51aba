package service_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"

	"docport/internal/files/service"
	id "docport/pkg/domain"
	dErrors "docport/pkg/domain-errors"
)

// ServiceSuite tests file storage against an afero memory filesystem.
type ServiceSuite struct {
	suite.Suite
	svc      *service.Service
	tenantID id.TenantID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.svc = service.New(afero.NewMemMapFs(), "/srv/files")
	s.tenantID = id.TenantID(uuid.New())
}

func (s *ServiceSuite) TestSaveAndOpen() {
	info, err := s.svc.Save(context.Background(), s.tenantID, "logo.png", strings.NewReader("png-bytes"))
	s.Require().NoError(err)
	s.Equal("logo.png", info.Name)
	s.Equal(int64(9), info.Size)

	rc, info, err := s.svc.Open(context.Background(), s.tenantID, "logo.png")
	s.Require().NoError(err)
	defer rc.Close()

	content, err := io.ReadAll(rc)
	s.Require().NoError(err)
	s.Equal("png-bytes", string(content))
	s.Equal(int64(9), info.Size)
}

func (s *ServiceSuite) TestSaveReplaces() {
	_, err := s.svc.Save(context.Background(), s.tenantID, "notes.txt", strings.NewReader("v1"))
	s.Require().NoError(err)
	info, err := s.svc.Save(context.Background(), s.tenantID, "notes.txt", strings.NewReader("longer v2"))
	s.Require().NoError(err)
	s.Equal(int64(9), info.Size)
}

func (s *ServiceSuite) TestInvalidNames() {
	for _, name := range []string{"", "../etc/passwd", "a/b", ".hidden", "sp ace"} {
		_, err := s.svc.Save(context.Background(), s.tenantID, name, strings.NewReader("x"))
		s.Require().Error(err, name)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation), name)
	}
}

func (s *ServiceSuite) TestTenantIsolation() {
	_, err := s.svc.Save(context.Background(), s.tenantID, "logo.png", strings.NewReader("mine"))
	s.Require().NoError(err)

	_, _, err = s.svc.Open(context.Background(), id.TenantID(uuid.New()), "logo.png")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestListAndDelete() {
	s.Run("empty tenant lists nothing", func() {
		infos, err := s.svc.List(context.Background(), s.tenantID)
		s.Require().NoError(err)
		s.Empty(infos)
	})

	for _, name := range []string{"b.txt", "a.txt"} {
		_, err := s.svc.Save(context.Background(), s.tenantID, name, strings.NewReader("x"))
		s.Require().NoError(err)
	}

	infos, err := s.svc.List(context.Background(), s.tenantID)
	s.Require().NoError(err)
	s.Require().Len(infos, 2)
	s.Equal("a.txt", infos[0].Name)

	s.Require().NoError(s.svc.Delete(context.Background(), s.tenantID, "a.txt"))
	err = s.svc.Delete(context.Background(), s.tenantID, "a.txt")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
