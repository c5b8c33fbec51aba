// Package migrations carries the docport schema: tenants with their domain
// bindings and uniqueness indexes, pages, and service credentials. The SQL
// files are embedded so tooling and integration tests can apply them without
// a source checkout.
package migrations

import "embed"

//go:embed *.sql
var Schema embed.FS
