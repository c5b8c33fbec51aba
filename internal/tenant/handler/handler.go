// Package handler exposes the tenant control plane on the data API, plus the
// internal directory surface the portal resolves against.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"docport/internal/sentinel"
	"docport/internal/servicetoken"
	"docport/internal/tenant/models"
	"docport/internal/tenant/service"
	id "docport/pkg/domain"
	dErrors "docport/pkg/domain-errors"
	"docport/pkg/httputil"
)

// Service defines the tenant operations the handler needs. Returns domain
// objects, not HTTP DTOs.
type Service interface {
	Register(ctx context.Context, name string) (*service.Registration, error)
	Get(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	Authenticate(ctx context.Context, apiKey string) (*models.Tenant, error)
	ConfigureDomain(ctx context.Context, tenantID id.TenantID, cfg service.DomainConfig) (*models.Tenant, error)
	MarkDomainVerified(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	FindByCustomDomain(ctx context.Context, domain string) (*models.Tenant, error)
	FindBySubdomain(ctx context.Context, label string) (*models.Tenant, error)
	VerifySubdomainPassword(ctx context.Context, label, password string) (*models.Tenant, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public control plane. Registration is open; everything
// else requires the tenant's API key.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/v1/tenants", h.HandleRegister)
	r.Group(func(r chi.Router) {
		r.Use(RequireAPIKey(h.service))
		r.Get("/api/v1/tenants/me", h.HandleGetMe)
		r.Patch("/api/v1/tenants/me/domain", h.HandleUpdateDomain)
		r.Post("/api/v1/tenants/me/domain/verify", h.HandleVerifyDomain)
	})
}

// RegisterInternal mounts the portal-facing directory surface behind the
// service-token check.
func (h *Handler) RegisterInternal(r chi.Router, signer *servicetoken.Signer) {
	r.Group(func(r chi.Router) {
		r.Use(RequireServiceToken(signer))
		r.Get("/internal/v1/tenants/resolve", h.HandleResolve)
		r.Post("/internal/v1/tenants/verify-password", h.HandleVerifyPassword)
		r.Get("/internal/v1/tenants/{id}", h.HandleGetByID)
	})
}

// HandleRegister creates a tenant and returns its API key, once.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[RegisterTenantRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	reg, err := h.service.Register(r.Context(), req.Name)
	if err != nil {
		h.logger.Error("tenant registration failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, &RegistrationResponse{
		Tenant: toTenantResponse(reg.Tenant),
		APIKey: reg.APIKey,
	})
}

// HandleGetMe returns the authenticated tenant's own record.
func (h *Handler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	tenant := AuthedTenant(r.Context())
	httputil.WriteJSON(w, http.StatusOK, toTenantResponse(tenant))
}

// HandleUpdateDomain applies a partial domain configuration change.
func (h *Handler) HandleUpdateDomain(w http.ResponseWriter, r *http.Request) {
	tenant := AuthedTenant(r.Context())

	req, ok := httputil.Decode[UpdateDomainRequest](w, r)
	if !ok {
		return
	}

	updated, err := h.service.ConfigureDomain(r.Context(), tenant.ID, req.ToConfig())
	if err != nil {
		h.logger.Error("domain configuration failed", "error", err, "tenant_id", tenant.ID.String())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toTenantResponse(updated))
}

// HandleVerifyDomain marks the tenant's custom domain as verified.
func (h *Handler) HandleVerifyDomain(w http.ResponseWriter, r *http.Request) {
	tenant := AuthedTenant(r.Context())

	updated, err := h.service.MarkDomainVerified(r.Context(), tenant.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toTenantResponse(updated))
}

// HandleResolve looks up a tenant by custom_domain or subdomain query
// parameter. A miss is a plain 404; the portal treats it as anonymous.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	var (
		tenant *models.Tenant
		err    error
	)
	switch {
	case r.URL.Query().Get("custom_domain") != "":
		tenant, err = h.service.FindByCustomDomain(r.Context(), r.URL.Query().Get("custom_domain"))
	case r.URL.Query().Get("subdomain") != "":
		tenant, err = h.service.FindBySubdomain(r.Context(), r.URL.Query().Get("subdomain"))
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "custom_domain or subdomain is required"))
		return
	}
	if err != nil {
		h.writeLookupErr(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toTenantResponse(tenant))
}

// HandleVerifyPassword checks a subdomain password attempt for the portal.
func (h *Handler) HandleVerifyPassword(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[VerifyPasswordRequest](w, r)
	if !ok {
		return
	}

	tenant, err := h.service.VerifySubdomainPassword(r.Context(), req.Subdomain, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toTenantResponse(tenant))
}

// HandleGetByID returns a tenant by ID for session revalidation.
func (h *Handler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	tenantID, err := id.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid tenant id"))
		return
	}

	tenant, err := h.service.Get(r.Context(), tenantID)
	if err != nil {
		h.writeLookupErr(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toTenantResponse(tenant))
}

// writeLookupErr translates store sentinels that reach the handler through
// the raw directory passthroughs.
func (h *Handler) writeLookupErr(w http.ResponseWriter, err error) {
	if errors.Is(err, sentinel.ErrNotFound) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "tenant not found"))
		return
	}
	httputil.WriteError(w, err)
}
