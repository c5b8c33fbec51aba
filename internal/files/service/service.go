// Package service stores tenant file uploads (images, downloads referenced
// from docs pages) on an afero filesystem, one directory per tenant.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	id "docport/pkg/domain"
	dErrors "docport/pkg/domain-errors"
)

const maxFileBytes = 16 << 20 // 16 MiB per upload

// Info describes one stored file.
type Info struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Service reads and writes tenant files.
type Service struct {
	fs   afero.Fs
	root string
}

// New constructs the file service rooted at root. Tests pass afero.NewMemMapFs.
func New(fs afero.Fs, root string) *Service {
	return &Service{fs: fs, root: root}
}

// Save stores the upload under the tenant's directory, replacing any
// previous file of the same name.
func (s *Service) Save(_ context.Context, tenantID id.TenantID, name string, r io.Reader) (*Info, error) {
	if !ValidName(name) {
		return nil, dErrors.New(dErrors.CodeValidation, "file name must be a plain name without path separators")
	}

	dir := s.dirFor(tenantID)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to prepare file storage")
	}

	target := path.Join(dir, name)
	f, err := s.fs.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store file")
	}
	defer f.Close()

	written, err := io.Copy(f, io.LimitReader(r, maxFileBytes+1))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store file")
	}
	if written > maxFileBytes {
		_ = s.fs.Remove(target)
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("file exceeds the %d byte limit", maxFileBytes))
	}

	return s.stat(tenantID, name)
}

// Open returns the file contents for streaming to the client.
func (s *Service) Open(_ context.Context, tenantID id.TenantID, name string) (io.ReadCloser, *Info, error) {
	if !ValidName(name) {
		return nil, nil, dErrors.New(dErrors.CodeValidation, "file name must be a plain name without path separators")
	}
	f, err := s.fs.Open(path.Join(s.dirFor(tenantID), name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, dErrors.New(dErrors.CodeNotFound, "file not found")
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open file")
	}
	info, err := s.stat(tenantID, name)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, info, nil
}

// List returns the tenant's files ordered by name.
func (s *Service) List(_ context.Context, tenantID id.TenantID) ([]*Info, error) {
	entries, err := afero.ReadDir(s.fs, s.dirFor(tenantID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*Info{}, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list files")
	}

	out := make([]*Info, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, &Info{Name: e.Name(), Size: e.Size(), ModifiedAt: e.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes a stored file.
func (s *Service) Delete(_ context.Context, tenantID id.TenantID, name string) error {
	if !ValidName(name) {
		return dErrors.New(dErrors.CodeValidation, "file name must be a plain name without path separators")
	}
	err := s.fs.Remove(path.Join(s.dirFor(tenantID), name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return dErrors.New(dErrors.CodeNotFound, "file not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete file")
	}
	return nil
}

func (s *Service) stat(tenantID id.TenantID, name string) (*Info, error) {
	fi, err := s.fs.Stat(path.Join(s.dirFor(tenantID), name))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to stat file")
	}
	return &Info{Name: name, Size: fi.Size(), ModifiedAt: fi.ModTime()}, nil
}

func (s *Service) dirFor(tenantID id.TenantID) string {
	return path.Join(s.root, tenantID.String())
}

// ValidName accepts plain file names: no separators, no leading dot, and a
// conservative character set.
func ValidName(name string) bool {
	if name == "" || len(name) > 255 {
		return false
	}
	if strings.HasPrefix(name, ".") {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == '.':
		default:
			return false
		}
	}
	return true
}
