package apiclient

import (
	"context"
	"net/http"
)

// Data is the API-key-authenticated view of the data API, used by the MCP
// companion acting on behalf of one tenant.
type Data struct {
	client *Client
	apiKey string
}

// NewData constructs the data-plane view for the given API key.
func NewData(client *Client, apiKey string) *Data {
	return &Data{client: client, apiKey: apiKey}
}

// DomainUpdate is a partial domain configuration change.
type DomainUpdate struct {
	CustomDomain      *string `json:"custom_domain,omitempty"`
	Subdomain         *string `json:"subdomain,omitempty"`
	SubdomainPassword *string `json:"subdomain_password,omitempty"`
}

// Me returns the authenticated tenant.
func (d *Data) Me(ctx context.Context) (*Tenant, error) {
	var t Tenant
	if err := d.client.do(ctx, http.MethodGet, "/api/v1/tenants/me", d.apiKey, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ConfigureDomain applies a domain configuration change.
func (d *Data) ConfigureDomain(ctx context.Context, update DomainUpdate) (*Tenant, error) {
	var t Tenant
	if err := d.client.do(ctx, http.MethodPatch, "/api/v1/tenants/me/domain", d.apiKey, update, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListPages returns the tenant's page summaries.
func (d *Data) ListPages(ctx context.Context) ([]PageSummary, error) {
	var summaries []PageSummary
	if err := d.client.do(ctx, http.MethodGet, "/api/v1/pages", d.apiKey, nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// GetPage returns one page with content.
func (d *Data) GetPage(ctx context.Context, slug string) (*Page, error) {
	var page Page
	if err := d.client.do(ctx, http.MethodGet, "/api/v1/pages/"+slug, d.apiKey, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreatePage adds a page.
func (d *Data) CreatePage(ctx context.Context, slug, title, content string) (*Page, error) {
	body := map[string]string{"slug": slug, "title": title, "content": content}
	var page Page
	if err := d.client.do(ctx, http.MethodPost, "/api/v1/pages", d.apiKey, body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdatePage revises a page.
func (d *Data) UpdatePage(ctx context.Context, slug, title, content string) (*Page, error) {
	body := map[string]string{"title": title, "content": content}
	var page Page
	if err := d.client.do(ctx, http.MethodPut, "/api/v1/pages/"+slug, d.apiKey, body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// DeletePage removes a page.
func (d *Data) DeletePage(ctx context.Context, slug string) error {
	return d.client.do(ctx, http.MethodDelete, "/api/v1/pages/"+slug, d.apiKey, nil, nil)
}
