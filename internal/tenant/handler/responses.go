package handler

import (
	"time"

	"docport/internal/tenant/models"
)

// TenantResponse is the external view of a tenant. The password hash never
// appears; only the protection flag does.
type TenantResponse struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	CustomDomain      string            `json:"custom_domain,omitempty"`
	DomainVerified    bool              `json:"domain_verified"`
	Subdomain         string            `json:"subdomain,omitempty"`
	PasswordProtected bool              `json:"password_protected"`
	Branding          map[string]string `json:"branding,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// RegistrationResponse carries the API key exactly once, at creation.
type RegistrationResponse struct {
	Tenant *TenantResponse `json:"tenant"`
	APIKey string          `json:"api_key"`
}

func toTenantResponse(t *models.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:                t.ID.String(),
		Name:              t.Name,
		CustomDomain:      t.CustomDomain,
		DomainVerified:    t.DomainVerified,
		Subdomain:         t.Subdomain,
		PasswordProtected: t.HasSubdomainPassword(),
		Branding:          t.Branding,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}
