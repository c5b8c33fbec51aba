// Package servicetoken signs and validates the short-lived HMAC JWTs the
// portal presents when calling the data API's internal endpoints. These are
// service-to-service credentials only; visitor sessions never use JWTs.
package servicetoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "docport/pkg/domain-errors"
)

const (
	audience = "docport-api"
	// Tokens are minted per request batch; a narrow window limits replay.
	tokenTTL = 5 * time.Minute
)

// Claims identifies the calling service.
type Claims struct {
	Service string `json:"service"`
	jwt.RegisteredClaims
}

// Signer mints and validates service tokens with a shared HMAC secret.
type Signer struct {
	signingKey []byte
	now        func() time.Time
}

// Option configures the signer.
type Option func(*Signer)

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) { s.now = now }
}

// New constructs a signer from the shared secret.
func New(secret string, opts ...Option) *Signer {
	s := &Signer{
		signingKey: []byte(secret),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mint issues a token naming the calling service.
func (s *Signer) Mint(service string) (string, error) {
	if service == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "service name cannot be empty")
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Service: service,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   service,
			Audience:  []string{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign service token")
	}
	return signed, nil
}

// Validate checks the signature, algorithm, audience, and expiry.
func (s *Signer) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing service token")
	}

	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "service token expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid service token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid service token")
	}
	return claims, nil
}
