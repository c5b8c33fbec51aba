// Package handler exposes service-credential management on the data API.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"docport/internal/credentials/models"
	"docport/internal/credentials/service"
	tenanthandler "docport/internal/tenant/handler"
	id "docport/pkg/domain"
	dErrors "docport/pkg/domain-errors"
	"docport/pkg/httputil"
)

// Service defines the credential operations the handler needs.
type Service interface {
	Create(ctx context.Context, tenantID id.TenantID, name string) (*service.Issued, error)
	List(ctx context.Context, tenantID id.TenantID) ([]*models.Credential, error)
	Revoke(ctx context.Context, tenantID id.TenantID, credID id.CredentialID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the credential routes. The caller wraps them with the
// API-key middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/v1/credentials", h.HandleCreate)
	r.Get("/api/v1/credentials", h.HandleList)
	r.Delete("/api/v1/credentials/{id}", h.HandleRevoke)
}

type createRequest struct {
	Name string `json:"name"`
}

type issuedResponse struct {
	Credential *models.Credential `json:"credential"`
	Secret     string             `json:"secret"`
}

// HandleCreate issues a credential, returning the secret once.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	tenant := tenanthandler.AuthedTenant(r.Context())

	req, ok := httputil.Decode[createRequest](w, r)
	if !ok {
		return
	}

	issued, err := h.service.Create(r.Context(), tenant.ID, req.Name)
	if err != nil {
		h.logger.Error("create credential failed", "error", err, "tenant_id", tenant.ID.String())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, issuedResponse{
		Credential: issued.Credential,
		Secret:     issued.Secret,
	})
}

// HandleList returns the tenant's credentials; hashes never serialize.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	tenant := tenanthandler.AuthedTenant(r.Context())

	creds, err := h.service.List(r.Context(), tenant.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, creds)
}

// HandleRevoke deletes a credential.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	tenant := tenanthandler.AuthedTenant(r.Context())

	credID, err := id.ParseCredentialID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid credential id"))
		return
	}
	if err := h.service.Revoke(r.Context(), tenant.ID, credID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
