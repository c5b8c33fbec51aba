package handler

import (
	"context"
	"net/http"
	"strings"

	"docport/internal/servicetoken"
	"docport/internal/tenant/models"
	dErrors "docport/pkg/domain-errors"
	"docport/pkg/httputil"
)

// Authenticator resolves a tenant from a presented API key.
type Authenticator interface {
	Authenticate(ctx context.Context, apiKey string) (*models.Tenant, error)
}

type authedTenantKey struct{}

// AuthedTenant returns the tenant authenticated by RequireAPIKey, nil outside
// an authenticated route.
func AuthedTenant(ctx context.Context) *models.Tenant {
	if t, ok := ctx.Value(authedTenantKey{}).(*models.Tenant); ok {
		return t
	}
	return nil
}

// RequireAPIKey authenticates every data-plane request with the tenant's API
// key from the Authorization header and stores the tenant in the context.
func RequireAPIKey(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := bearerToken(r)
			if !ok {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing API key"))
				return
			}
			tenant, err := auth.Authenticate(r.Context(), key)
			if err != nil {
				httputil.WriteError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), authedTenantKey{}, tenant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireServiceToken guards the internal surface with the shared-secret JWT
// minted by the portal.
func RequireServiceToken(signer *servicetoken.Signer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing service token"))
				return
			}
			if _, err := signer.Validate(token); err != nil {
				httputil.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
