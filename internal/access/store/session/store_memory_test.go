package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"docport/internal/access"
	"docport/internal/sentinel"
	id "docport/pkg/domain"
)

// InMemorySessionStoreSuite tests the process-local session store.
//
// Justification: Get must never return an expired session, and the map is
// hit concurrently by every in-flight request.
type InMemorySessionStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	now   time.Time
}

func TestInMemorySessionStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemorySessionStoreSuite))
}

func (s *InMemorySessionStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *InMemorySessionStoreSuite) newSession(ttl time.Duration) *access.Session {
	return &access.Session{
		Token:     id.SessionToken(uuid.New().String()),
		TenantID:  id.TenantID(uuid.New()),
		Subdomain: "acme",
		CreatedAt: s.now,
		ExpiresAt: s.now.Add(ttl),
	}
}

func (s *InMemorySessionStoreSuite) TestPutAndGet() {
	session := s.newSession(24 * time.Hour)
	s.Require().NoError(s.store.Put(context.Background(), session))

	found, err := s.store.Get(context.Background(), session.Token, s.now)
	s.Require().NoError(err)
	s.Equal(session, found)
}

func (s *InMemorySessionStoreSuite) TestGetUnknownToken() {
	_, err := s.store.Get(context.Background(), "garbage", s.now)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemorySessionStoreSuite) TestGetExpired() {
	session := s.newSession(24 * time.Hour)
	s.Require().NoError(s.store.Put(context.Background(), session))

	s.Run("expired token reads as not found", func() {
		_, err := s.store.Get(context.Background(), session.Token, s.now.Add(24*time.Hour))
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("expired entry was lazily evicted", func() {
		s.Equal(0, s.store.Len())
	})

	s.Run("exact expiry instant is already invalid", func() {
		boundary := s.newSession(time.Hour)
		s.Require().NoError(s.store.Put(context.Background(), boundary))
		_, err := s.store.Get(context.Background(), boundary.Token, boundary.ExpiresAt)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemorySessionStoreSuite) TestDeleteExpired() {
	live := s.newSession(24 * time.Hour)
	dead1 := s.newSession(time.Minute)
	dead2 := s.newSession(2 * time.Minute)
	for _, sess := range []*access.Session{live, dead1, dead2} {
		s.Require().NoError(s.store.Put(context.Background(), sess))
	}

	deleted, err := s.store.DeleteExpired(context.Background(), s.now.Add(time.Hour))
	s.Require().NoError(err)
	s.Equal(2, deleted)
	s.Equal(1, s.store.Len())

	_, err = s.store.Get(context.Background(), live.Token, s.now.Add(time.Hour))
	s.NoError(err)
}

func (s *InMemorySessionStoreSuite) TestConcurrentAccess() {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.store.Put(context.Background(), s.newSession(time.Hour))
		}()
		go func() {
			defer wg.Done()
			_, _ = s.store.Get(context.Background(), "missing", s.now)
		}()
	}
	wg.Wait()
	s.Equal(50, s.store.Len())
}
