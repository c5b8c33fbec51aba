package models

import (
	"strings"
	"time"

	id "docport/pkg/domain"
	dErrors "docport/pkg/domain-errors"
)

// Page is one markdown document in a tenant's documentation tree, addressed
// by slug. Content is raw markdown; rendering happens elsewhere.
type Page struct {
	ID       id.PageID   `json:"id"`
	TenantID id.TenantID `json:"tenant_id"`
	Slug     string      `json:"slug"`
	Title    string      `json:"title"`
	Content  string      `json:"content"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const maxContentBytes = 1 << 20 // 1 MiB of markdown per page

// NewPage constructs a page after validating slug, title, and content size.
func NewPage(pageID id.PageID, tenantID id.TenantID, slug, title, content string, now time.Time) (*Page, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !ValidSlug(slug) {
		return nil, dErrors.New(dErrors.CodeValidation, "slug must be lowercase letters, digits, and hyphens, optionally nested with slashes")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if len(content) > maxContentBytes {
		return nil, dErrors.New(dErrors.CodeValidation, "content exceeds the 1 MiB page limit")
	}
	return &Page{
		ID:        pageID,
		TenantID:  tenantID,
		Slug:      slug,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Revise replaces the title and content in place.
func (p *Page) Revise(title, content string, now time.Time) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if len(content) > maxContentBytes {
		return dErrors.New(dErrors.CodeValidation, "content exceeds the 1 MiB page limit")
	}
	p.Title = title
	p.Content = content
	p.UpdatedAt = now
	return nil
}

// ValidSlug accepts lowercase DNS-ish segments joined by single slashes, e.g.
// "getting-started" or "guides/install". Path traversal cannot be expressed.
func ValidSlug(slug string) bool {
	if slug == "" || len(slug) > 256 {
		return false
	}
	for _, segment := range strings.Split(slug, "/") {
		if !validSegment(segment) {
			return false
		}
	}
	return true
}

func validSegment(segment string) bool {
	if segment == "" {
		return false
	}
	for i := 0; i < len(segment); i++ {
		c := segment[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-' && i > 0 && i < len(segment)-1:
		default:
			return false
		}
	}
	return true
}
