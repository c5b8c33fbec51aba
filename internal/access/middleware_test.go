package access_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"docport/internal/access"
	sessionstore "docport/internal/access/store/session"
	"docport/internal/platform/logger"
)

// MiddlewareSuite drives the full request path: host resolution, gating,
// login, and session validation against a clock the test controls.
//
// Justification: this is the end-to-end contract between the resolver, gate,
// issuer, and session store - the exact flow a subdomain visitor experiences.
type MiddlewareSuite struct {
	suite.Suite
	dir      *fakeDirectory
	sessions *sessionstore.InMemoryStore
	issuer   *access.Issuer
	handler  http.Handler
	now      time.Time
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

func (s *MiddlewareSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.dir = newFakeDirectory()
	s.dir.add(makeTenant(s.T(), "Acme", "", "acme", "secret123"))
	s.dir.add(makeTenant(s.T(), "Globex", "", "globex", ""))
	s.sessions = sessionstore.NewInMemory()

	clock := func() time.Time { return s.now }
	s.issuer = access.NewIssuer(s.dir, s.sessions, 24*time.Hour, access.WithIssuerClock(clock))

	resolver := access.NewResolver(s.dir, "docport.dev")
	gate := access.NewGate(s.sessions)
	mw := access.NewMiddleware(resolver, gate, logger.New(), access.WithClock(clock))

	content := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenant := access.TenantFromContext(r.Context())
		if tenant != nil {
			w.Header().Set("X-Resolved-Tenant", tenant.Subdomain)
		}
		w.WriteHeader(http.StatusOK)
	})
	s.handler = mw.Handler(content)
}

func (s *MiddlewareSuite) get(host, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "http://"+host+path, nil)
	req.Host = host
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *MiddlewareSuite) TestGatedSubdomainLifecycle() {
	host := "acme.docport.dev"

	s.Run("no cookie challenges to the login page", func() {
		rec := s.get(host, "/")
		s.Equal(http.StatusFound, rec.Code)
		s.Contains(rec.Header().Get("Location"), access.LoginPath)
		s.Contains(rec.Header().Get("Location"), "subdomain=acme")
	})

	grant, err := s.issuer.Login(context.Background(), "acme", "secret123", "")
	s.Require().NoError(err)

	cookie := &http.Cookie{Name: grant.CookieName, Value: string(grant.Token)}

	s.Run("valid session cookie allows", func() {
		rec := s.get(host, "/", cookie)
		s.Equal(http.StatusOK, rec.Code)
		s.Equal("acme", rec.Header().Get("X-Resolved-Tenant"))
	})

	s.Run("garbage cookie value challenges", func() {
		rec := s.get(host, "/", &http.Cookie{Name: grant.CookieName, Value: "garbage"})
		s.Equal(http.StatusFound, rec.Code)
	})

	s.Run("previously valid token challenges after expiry", func() {
		s.now = s.now.Add(24*time.Hour + time.Minute)
		rec := s.get(host, "/", cookie)
		s.Equal(http.StatusFound, rec.Code)
	})
}

func (s *MiddlewareSuite) TestCrossTenantCookieRejected() {
	grant, err := s.issuer.Login(context.Background(), "acme", "secret123", "")
	s.Require().NoError(err)

	// Present acme's token under globex's cookie name against a gated globex.
	globex := s.dir.bySubdomain["globex"]
	hash := makeTenant(s.T(), "tmp", "", "tmp", "hunter2").SubdomainPasswordHash
	globex.SetSubdomainPasswordHash(hash, s.now)

	rec := s.get("globex.docport.dev", "/", &http.Cookie{
		Name:  access.CookieName("globex"),
		Value: string(grant.Token),
	})
	s.Equal(http.StatusFound, rec.Code)
}

func (s *MiddlewareSuite) TestUngatedSubdomainAllowed() {
	rec := s.get("globex.docport.dev", "/any/page")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("globex", rec.Header().Get("X-Resolved-Tenant"))
}

func (s *MiddlewareSuite) TestAnonymousHostAllowed() {
	rec := s.get("docport.dev", "/")
	s.Equal(http.StatusOK, rec.Code)
	s.Empty(rec.Header().Get("X-Resolved-Tenant"))
}

func (s *MiddlewareSuite) TestExemptPathsSkipResolution() {
	// Exempt paths never touch the directory, so they survive an outage.
	s.dir.err = errors.New("connection refused")

	for _, path := range []string{"/auth/login", "/css/site.css", "/api/v1/pages"} {
		rec := s.get("acme.docport.dev", path)
		s.Equal(http.StatusOK, rec.Code, path)
	}
}

func (s *MiddlewareSuite) TestDirectoryOutageFailsClosed() {
	s.dir.err = errors.New("connection refused")
	rec := s.get("acme.docport.dev", "/")
	s.Equal(http.StatusServiceUnavailable, rec.Code)
}
