package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"

	pageshandler "docport/internal/pages/handler"
	pagesservice "docport/internal/pages/service"
	pagesstore "docport/internal/pages/store"
	"docport/internal/platform/logger"
	"docport/internal/servicetoken"
	tenanthandler "docport/internal/tenant/handler"
	tenantservice "docport/internal/tenant/service"
	tenantstore "docport/internal/tenant/store"
)

// HandlerSuite tests the page routes wired the way the API process wires
// them: CRUD behind the API-key middleware, internal reads behind the
// service token.
type HandlerSuite struct {
	suite.Suite
	router   chi.Router
	apiKey   string
	tenantID string
	token    string
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	log := logger.New()
	tenants := tenantservice.New(tenantstore.NewInMemory())
	pages := pagesservice.New(pagesstore.NewInMemory(), pagesservice.NewMirror(afero.NewMemMapFs(), "/srv/docs"))
	signer := servicetoken.New("shared-secret")

	h := pageshandler.New(pages, log)
	s.router = chi.NewRouter()
	s.router.Group(func(r chi.Router) {
		r.Use(tenanthandler.RequireAPIKey(tenants))
		h.Register(r)
	})
	h.RegisterInternal(s.router, signer)

	reg, err := tenants.Register(context.Background(), "Acme")
	s.Require().NoError(err)
	s.apiKey = reg.APIKey
	s.tenantID = reg.Tenant.ID.String()

	s.token, err = signer.Mint("portal")
	s.Require().NoError(err)
}

func (s *HandlerSuite) do(method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestCRUD() {
	s.Run("create", func() {
		rec := s.do(http.MethodPost, "/api/v1/pages",
			`{"slug":"guides/install","title":"Install","content":"Steps."}`, s.apiKey)
		s.Require().Equal(http.StatusCreated, rec.Code)
		s.Contains(rec.Body.String(), `"slug":"guides/install"`)
	})

	s.Run("get with nested slug", func() {
		rec := s.do(http.MethodGet, "/api/v1/pages/guides/install", "", s.apiKey)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"content":"Steps."`)
	})

	s.Run("list returns summaries without content", func() {
		rec := s.do(http.MethodGet, "/api/v1/pages", "", s.apiKey)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"slug":"guides/install"`)
		s.NotContains(rec.Body.String(), "Steps.")
	})

	s.Run("update", func() {
		rec := s.do(http.MethodPut, "/api/v1/pages/guides/install",
			`{"title":"Install","content":"Revised."}`, s.apiKey)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "Revised.")
	})

	s.Run("delete", func() {
		rec := s.do(http.MethodDelete, "/api/v1/pages/guides/install", "", s.apiKey)
		s.Require().Equal(http.StatusNoContent, rec.Code)

		rec = s.do(http.MethodGet, "/api/v1/pages/guides/install", "", s.apiKey)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *HandlerSuite) TestRequiresAPIKey() {
	rec := s.do(http.MethodGet, "/api/v1/pages", "", "")
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestInternalReads() {
	rec := s.do(http.MethodPost, "/api/v1/pages",
		`{"slug":"faq","title":"FAQ","content":"Answers."}`, s.apiKey)
	s.Require().Equal(http.StatusCreated, rec.Code)

	s.Run("requires a service token", func() {
		rec := s.do(http.MethodGet, "/internal/v1/tenants/"+s.tenantID+"/pages/faq", "", "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("serves content to the portal", func() {
		rec := s.do(http.MethodGet, "/internal/v1/tenants/"+s.tenantID+"/pages/faq", "", s.token)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "Answers.")
	})

	s.Run("lists navigation", func() {
		rec := s.do(http.MethodGet, "/internal/v1/tenants/"+s.tenantID+"/pages", "", s.token)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"slug":"faq"`)
	})
}
