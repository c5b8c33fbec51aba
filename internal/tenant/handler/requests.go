package handler

import (
	"strings"

	"docport/internal/tenant/service"
	dErrors "docport/pkg/domain-errors"
)

// RegisterTenantRequest creates a tenant. The name must be unique.
type RegisterTenantRequest struct {
	Name string `json:"name"`
}

func (r *RegisterTenantRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

// UpdateDomainRequest is a partial update of the tenant's domain
// configuration. Omitted fields are untouched; empty strings clear.
type UpdateDomainRequest struct {
	CustomDomain      *string `json:"custom_domain,omitempty"`
	Subdomain         *string `json:"subdomain,omitempty"`
	SubdomainPassword *string `json:"subdomain_password,omitempty"`
}

func (r *UpdateDomainRequest) ToConfig() service.DomainConfig {
	return service.DomainConfig{
		CustomDomain:      r.CustomDomain,
		Subdomain:         r.Subdomain,
		SubdomainPassword: r.SubdomainPassword,
	}
}

// VerifyPasswordRequest is the internal password check the portal performs
// on behalf of a subdomain visitor.
type VerifyPasswordRequest struct {
	Subdomain string `json:"subdomain"`
	Password  string `json:"password"`
}
