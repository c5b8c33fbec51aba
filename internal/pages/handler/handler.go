// Package handler exposes page CRUD on the data API and the read-only
// internal surface the portal renders from.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"docport/internal/pages/models"
	"docport/internal/servicetoken"
	tenanthandler "docport/internal/tenant/handler"
	id "docport/pkg/domain"
	dErrors "docport/pkg/domain-errors"
	"docport/pkg/httputil"
)

// Service defines the page operations the handler needs.
type Service interface {
	Create(ctx context.Context, tenantID id.TenantID, slug, title, content string) (*models.Page, error)
	Get(ctx context.Context, tenantID id.TenantID, slug string) (*models.Page, error)
	List(ctx context.Context, tenantID id.TenantID) ([]*models.Page, error)
	Update(ctx context.Context, tenantID id.TenantID, slug, title, content string) (*models.Page, error)
	Delete(ctx context.Context, tenantID id.TenantID, slug string) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the tenant-facing CRUD. The caller wraps these routes with
// the API-key middleware; slugs may be nested, hence the wildcards.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/v1/pages", h.HandleCreate)
	r.Get("/api/v1/pages", h.HandleList)
	r.Get("/api/v1/pages/*", h.HandleGet)
	r.Put("/api/v1/pages/*", h.HandleUpdate)
	r.Delete("/api/v1/pages/*", h.HandleDelete)
}

// RegisterInternal mounts the portal's read-only content surface.
func (h *Handler) RegisterInternal(r chi.Router, signer *servicetoken.Signer) {
	r.Group(func(r chi.Router) {
		r.Use(tenanthandler.RequireServiceToken(signer))
		r.Get("/internal/v1/tenants/{id}/pages", h.HandleInternalList)
		r.Get("/internal/v1/tenants/{id}/pages/*", h.HandleInternalGet)
	})
}

type pageRequest struct {
	Slug    string `json:"slug,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type pageSummary struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HandleCreate adds a page to the authenticated tenant's docs tree.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	tenant := tenanthandler.AuthedTenant(r.Context())

	req, ok := httputil.Decode[pageRequest](w, r)
	if !ok {
		return
	}

	page, err := h.service.Create(r.Context(), tenant.ID, req.Slug, req.Title, req.Content)
	if err != nil {
		h.logger.Error("create page failed", "error", err, "tenant_id", tenant.ID.String())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, page)
}

// HandleList returns slug/title summaries of the tenant's pages.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	tenant := tenanthandler.AuthedTenant(r.Context())

	pages, err := h.service.List(r.Context(), tenant.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSummaries(pages))
}

// HandleGet returns one page with content.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	tenant := tenanthandler.AuthedTenant(r.Context())
	h.writePage(w, r, tenant.ID)
}

// HandleUpdate revises a page.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	tenant := tenanthandler.AuthedTenant(r.Context())
	slug := chi.URLParam(r, "*")

	req, ok := httputil.Decode[pageRequest](w, r)
	if !ok {
		return
	}

	page, err := h.service.Update(r.Context(), tenant.ID, slug, req.Title, req.Content)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

// HandleDelete removes a page.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	tenant := tenanthandler.AuthedTenant(r.Context())
	slug := chi.URLParam(r, "*")

	if err := h.service.Delete(r.Context(), tenant.ID, slug); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleInternalList serves the portal's navigation listing.
func (h *Handler) HandleInternalList(w http.ResponseWriter, r *http.Request) {
	tenantID, err := id.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid tenant id"))
		return
	}
	pages, err := h.service.List(r.Context(), tenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSummaries(pages))
}

// HandleInternalGet serves page content for the portal renderer.
func (h *Handler) HandleInternalGet(w http.ResponseWriter, r *http.Request) {
	tenantID, err := id.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid tenant id"))
		return
	}
	h.writePage(w, r, tenantID)
}

func (h *Handler) writePage(w http.ResponseWriter, r *http.Request, tenantID id.TenantID) {
	slug := chi.URLParam(r, "*")
	page, err := h.service.Get(r.Context(), tenantID, slug)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func toSummaries(pages []*models.Page) []pageSummary {
	out := make([]pageSummary, 0, len(pages))
	for _, p := range pages {
		out = append(out, pageSummary{Slug: p.Slug, Title: p.Title, UpdatedAt: p.UpdatedAt})
	}
	return out
}
