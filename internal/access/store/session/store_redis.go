package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"docport/internal/access"
	"docport/internal/sentinel"
	id "docport/pkg/domain"
)

const sessionKeyPrefix = "subdomain_session:"

// sessionJSON is the JSON-serializable representation of a Session.
// Explicit tags and Unix-nano timestamps keep the wire format stable across
// portal instances.
type sessionJSON struct {
	Token             string `json:"token"`
	TenantID          string `json:"tenant_id"`
	Subdomain         string `json:"subdomain"`
	DeviceDisplayName string `json:"device_display_name,omitempty"`
	CreatedAt         int64  `json:"created_at"`
	ExpiresAt         int64  `json:"expires_at"`
}

func sessionToJSON(s *access.Session) *sessionJSON {
	return &sessionJSON{
		Token:             string(s.Token),
		TenantID:          s.TenantID.String(),
		Subdomain:         s.Subdomain,
		DeviceDisplayName: s.DeviceDisplayName,
		CreatedAt:         s.CreatedAt.UnixNano(),
		ExpiresAt:         s.ExpiresAt.UnixNano(),
	}
}

func sessionFromJSON(j *sessionJSON) (*access.Session, error) {
	tenantID, err := uuid.Parse(j.TenantID)
	if err != nil {
		return nil, fmt.Errorf("parse tenant id: %w", err)
	}
	return &access.Session{
		Token:             id.SessionToken(j.Token),
		TenantID:          id.TenantID(tenantID),
		Subdomain:         j.Subdomain,
		DeviceDisplayName: j.DeviceDisplayName,
		CreatedAt:         time.Unix(0, j.CreatedAt),
		ExpiresAt:         time.Unix(0, j.ExpiresAt),
	}, nil
}

// RedisStore persists sessions in Redis. This is the recommended
// implementation for multi-instance deployments: sessions minted by one
// portal instance are visible to all others and survive restarts.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed session store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Put inserts a session with a TTL matching its expiry so Redis evicts on its own.
func (s *RedisStore) Put(ctx context.Context, session *access.Session) error {
	payload, err := json.Marshal(sessionToJSON(session))
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired: %w", sentinel.ErrInvalidState)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+string(session.Token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Get returns the session for a token. Redis TTL handles most eviction; the
// expiry is still checked here because the injected clock may run ahead of
// the wall clock in tests and the contract is that Get never returns an
// expired session.
func (s *RedisStore) Get(ctx context.Context, token id.SessionToken, now time.Time) (*access.Session, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+string(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("session not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("fetch session: %w", err)
	}
	var j sessionJSON
	if err := json.Unmarshal(payload, &j); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	session, err := sessionFromJSON(&j)
	if err != nil {
		return nil, err
	}
	if session.Expired(now) {
		return nil, fmt.Errorf("session expired: %w", sentinel.ErrNotFound)
	}
	return session, nil
}

// DeleteExpired is a no-op for Redis: per-key TTLs already bound memory.
func (s *RedisStore) DeleteExpired(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}
