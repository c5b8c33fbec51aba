// Package handler exposes tenant file uploads on the data API.
package handler

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"docport/internal/files/service"
	tenanthandler "docport/internal/tenant/handler"
	id "docport/pkg/domain"
	dErrors "docport/pkg/domain-errors"
	"docport/pkg/httputil"
)

// Service defines the file operations the handler needs.
type Service interface {
	Save(ctx context.Context, tenantID id.TenantID, name string, r io.Reader) (*service.Info, error)
	Open(ctx context.Context, tenantID id.TenantID, name string) (io.ReadCloser, *service.Info, error)
	List(ctx context.Context, tenantID id.TenantID) ([]*service.Info, error)
	Delete(ctx context.Context, tenantID id.TenantID, name string) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the file routes. The caller wraps them with the API-key
// middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/v1/files", h.HandleUpload)
	r.Get("/api/v1/files", h.HandleList)
	r.Get("/api/v1/files/{name}", h.HandleDownload)
	r.Delete("/api/v1/files/{name}", h.HandleDelete)
}

// HandleUpload stores a multipart upload under the field name "file".
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	tenant := tenanthandler.AuthedTenant(r.Context())

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "multipart field 'file' is required"))
		return
	}
	defer file.Close()

	info, err := h.service.Save(r.Context(), tenant.ID, header.Filename, file)
	if err != nil {
		h.logger.Error("file upload failed", "error", err, "tenant_id", tenant.ID.String())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, info)
}

// HandleList returns the tenant's stored files.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	tenant := tenanthandler.AuthedTenant(r.Context())

	infos, err := h.service.List(r.Context(), tenant.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, infos)
}

// HandleDownload streams a stored file back with a content type inferred
// from the extension.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	tenant := tenanthandler.AuthedTenant(r.Context())
	name := chi.URLParam(r, "name")

	rc, info, err := h.service.Open(r.Context(), tenant.ID, name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(path.Ext(info.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}

// HandleDelete removes a stored file.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	tenant := tenanthandler.AuthedTenant(r.Context())

	if err := h.service.Delete(r.Context(), tenant.ID, chi.URLParam(r, "name")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
