package access

import (
	"context"
	"errors"
	"net"
	"strings"

	"docport/internal/sentinel"
	"docport/internal/tenant/models"
	dErrors "docport/pkg/domain-errors"
)

// BindingMode states how a host was matched to a tenant.
type BindingMode string

const (
	BindingNone         BindingMode = "none"
	BindingCustomDomain BindingMode = "custom_domain"
	BindingSubdomain    BindingMode = "subdomain"
)

// Resolved is the outcome of host resolution for one request: the tenant (if
// any) and the binding mode. A nil Tenant with BindingNone means anonymous
// platform-level browsing.
type Resolved struct {
	Tenant *models.Tenant
	Mode   BindingMode
}

// HasTenant reports whether a tenant owns the request.
func (r *Resolved) HasTenant() bool {
	return r != nil && r.Tenant != nil
}

// Resolver maps an inbound Host header to the owning tenant. Pure read over
// the directory.
type Resolver struct {
	directory    Directory
	parentSuffix string
}

// NewResolver constructs a resolver for the given platform parent domain
// (e.g. "docport.dev", matching hosts like "acme.docport.dev").
func NewResolver(directory Directory, parentDomain string) *Resolver {
	return &Resolver{
		directory:    directory,
		parentSuffix: "." + strings.ToLower(strings.TrimPrefix(parentDomain, ".")),
	}
}

// Resolve determines which tenant owns the host, in strict order:
//  1. exact custom-domain match
//  2. parent-domain suffix match on the leftmost label
//  3. no tenant (anonymous)
//
// The order matters: a custom domain that coincidentally ends with the parent
// suffix must win the exact match before the suffix check runs. Not-found is
// never an error for a well-formed host; the returned error signals directory
// transport failure only, and callers fail closed on it (a lookup that cannot
// complete must not silently serve gated content as anonymous).
func (r *Resolver) Resolve(ctx context.Context, host string) (*Resolved, error) {
	host = NormalizeHost(host)
	if host == "" {
		return &Resolved{Mode: BindingNone}, nil
	}

	tenant, err := r.directory.FindByCustomDomain(ctx, host)
	switch {
	case err == nil:
		return &Resolved{Tenant: tenant, Mode: BindingCustomDomain}, nil
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "tenant directory unreachable")
	}

	if label, ok := r.subdomainLabel(host); ok {
		tenant, err := r.directory.FindBySubdomain(ctx, label)
		switch {
		case err == nil:
			return &Resolved{Tenant: tenant, Mode: BindingSubdomain}, nil
		case !errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "tenant directory unreachable")
		}
	}

	return &Resolved{Mode: BindingNone}, nil
}

// subdomainLabel extracts the leftmost label when the host sits directly
// under the parent domain. "acme.docport.dev" yields "acme"; the bare parent
// domain and deeper nestings yield false.
func (r *Resolver) subdomainLabel(host string) (string, bool) {
	if !strings.HasSuffix(host, r.parentSuffix) {
		return "", false
	}
	label := strings.TrimSuffix(host, r.parentSuffix)
	if label == "" || strings.Contains(label, ".") {
		return "", false
	}
	return label, true
}

// NormalizeHost lowercases the host and strips any port so the same tenant
// resolves identically in both processes.
func NormalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(host)
}
