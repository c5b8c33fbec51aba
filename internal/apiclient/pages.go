package apiclient

import (
	"context"
	"net/http"
	"time"

	id "docport/pkg/domain"
)

// Page mirrors the API's page response.
type Page struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PageSummary mirrors the API's page listing entries.
type PageSummary struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetPage fetches one page's content for rendering.
func (d *Directory) GetPage(ctx context.Context, tenantID id.TenantID, slug string) (*Page, error) {
	token, err := d.signer.Mint("portal")
	if err != nil {
		return nil, err
	}
	var page Page
	path := "/internal/v1/tenants/" + tenantID.String() + "/pages/" + slug
	if err := d.client.do(ctx, http.MethodGet, path, token, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListPages fetches the tenant's navigation listing.
func (d *Directory) ListPages(ctx context.Context, tenantID id.TenantID) ([]PageSummary, error) {
	token, err := d.signer.Mint("portal")
	if err != nil {
		return nil, err
	}
	var summaries []PageSummary
	path := "/internal/v1/tenants/" + tenantID.String() + "/pages"
	if err := d.client.do(ctx, http.MethodGet, path, token, nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}
