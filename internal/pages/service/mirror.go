package service

import (
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/spf13/afero"

	"docport/internal/pages/models"
	id "docport/pkg/domain"
)

// Mirror maintains an on-disk markdown copy of every page under
// <root>/<tenant-id>/<slug>.md, so a tenant's docs tree can be inspected,
// backed up, or served statically without the database.
type Mirror struct {
	fs   afero.Fs
	root string
}

// NewMirror mirrors pages onto fs under root. Tests pass afero.NewMemMapFs.
func NewMirror(fs afero.Fs, root string) *Mirror {
	return &Mirror{fs: fs, root: root}
}

// Write creates or replaces the page's markdown file.
func (m *Mirror) Write(p *models.Page) error {
	target := m.pathFor(p.TenantID, p.Slug)
	if err := m.fs.MkdirAll(path.Dir(target), 0o755); err != nil {
		return fmt.Errorf("mirror page %s: %w", p.Slug, err)
	}
	content := "# " + p.Title + "\n\n" + p.Content
	if err := afero.WriteFile(m.fs, target, []byte(content), 0o644); err != nil {
		return fmt.Errorf("mirror page %s: %w", p.Slug, err)
	}
	return nil
}

// Remove deletes the page's markdown file. A missing file is not an error;
// the store is the source of truth.
func (m *Mirror) Remove(tenantID id.TenantID, slug string) error {
	err := m.fs.Remove(m.pathFor(tenantID, slug))
	if err != nil && !isNotExist(err) {
		return fmt.Errorf("unmirror page %s: %w", slug, err)
	}
	return nil
}

// Read returns the mirrored markdown, mostly for tests and tooling.
func (m *Mirror) Read(tenantID id.TenantID, slug string) ([]byte, error) {
	return afero.ReadFile(m.fs, m.pathFor(tenantID, slug))
}

func (m *Mirror) pathFor(tenantID id.TenantID, slug string) string {
	// Slugs are validated to exclude traversal; join is safe.
	return path.Join(m.root, tenantID.String(), slug+".md")
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
