// Package portal serves tenant documentation on the public hostnames. It
// renders nothing fancy on purpose: pages come back from the data API as
// markdown and are served in a minimal HTML shell.
package portal

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"docport/internal/access"
	"docport/internal/apiclient"
	pagesmodels "docport/internal/pages/models"
	id "docport/pkg/domain"
	dErrors "docport/pkg/domain-errors"
)

// ContentSource is the slice of the data API the renderer reads from.
type ContentSource interface {
	GetPage(ctx context.Context, tenantID id.TenantID, slug string) (*apiclient.Page, error)
	ListPages(ctx context.Context, tenantID id.TenantID) ([]apiclient.PageSummary, error)
}

// Handler serves the docs tree for the resolved tenant.
type Handler struct {
	content ContentSource
	logger  *slog.Logger
}

// New constructs the portal content handler.
func New(content ContentSource, logger *slog.Logger) *Handler {
	return &Handler{content: content, logger: logger}
}

// Register mounts the catch-all content routes. The access middleware has
// already resolved and gated the request by the time these run.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Get("/*", h.handlePage)
}

// handleIndex lists the tenant's pages, or shows the platform landing page
// on anonymous hosts.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	tenant := access.TenantFromContext(r.Context())
	if tenant == nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, landingHTML)
		return
	}

	summaries, err := h.content.ListPages(r.Context(), tenant.ID)
	if err != nil {
		h.logger.Error("page listing failed", "error", err, "tenant_id", tenant.ID.String())
		h.renderError(w, err)
		return
	}

	var nav strings.Builder
	for _, p := range summaries {
		fmt.Fprintf(&nav, `<li><a href="/%s">%s</a></li>`, html.EscapeString(p.Slug), html.EscapeString(p.Title))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	name := html.EscapeString(tenant.Name)
	fmt.Fprintf(w, indexHTML, name, name, nav.String())
}

// handlePage serves one page, treating the request path as the slug.
func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	tenant := access.TenantFromContext(r.Context())
	if tenant == nil {
		http.NotFound(w, r)
		return
	}

	slug := strings.Trim(r.URL.Path, "/")
	if !pagesmodels.ValidSlug(slug) {
		http.NotFound(w, r)
		return
	}

	page, err := h.content.GetPage(r.Context(), tenant.ID, slug)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("page fetch failed", "error", err, "tenant_id", tenant.ID.String(), "slug", slug)
		h.renderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, pageHTML,
		html.EscapeString(page.Title),
		html.EscapeString(tenant.Name),
		html.EscapeString(page.Title),
		html.EscapeString(page.Content),
	)
}

func (h *Handler) renderError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	if dErrors.HasCode(err, dErrors.CodeUnavailable) {
		status = http.StatusServiceUnavailable
	}
	http.Error(w, "documentation is temporarily unavailable", status)
}

const landingHTML = `<!doctype html>
<html>
<head><title>docport</title></head>
<body><h1>docport</h1><p>Documentation hosting for teams.</p></body>
</html>
`

const indexHTML = `<!doctype html>
<html>
<head><title>%s</title></head>
<body>
<h1>%s documentation</h1>
<ul>%s</ul>
</body>
</html>
`

const pageHTML = `<!doctype html>
<html>
<head><title>%s - %s</title></head>
<body>
<h1>%s</h1>
<pre>%s</pre>
</body>
</html>
`
