// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "docport/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a PageID where a TenantID is expected.
type (
	TenantID     uuid.UUID
	PageID       uuid.UUID
	CredentialID uuid.UUID
	FileID       uuid.UUID
)

// SessionToken is the opaque random token handed to subdomain visitors.
// It is a lookup key, never parsed or decoded.
type SessionToken string

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseTenantID(s string) (TenantID, error) {
	id, err := parseUUID(s, "tenant ID")
	return TenantID(id), err
}

func ParsePageID(s string) (PageID, error) {
	id, err := parseUUID(s, "page ID")
	return PageID(id), err
}

func ParseCredentialID(s string) (CredentialID, error) {
	id, err := parseUUID(s, "credential ID")
	return CredentialID(id), err
}

func ParseFileID(s string) (FileID, error) {
	id, err := parseUUID(s, "file ID")
	return FileID(id), err
}

func parseUUID(s, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+what)
	}
	return id, nil
}

// String methods - for logging and debugging.

func (id TenantID) String() string     { return uuid.UUID(id).String() }
func (id PageID) String() string       { return uuid.UUID(id).String() }
func (id CredentialID) String() string { return uuid.UUID(id).String() }
func (id FileID) String() string       { return uuid.UUID(id).String() }
func (t SessionToken) String() string  { return string(t) }

// IsNil checks - used for service-layer validation.

func (id TenantID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id PageID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id CredentialID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id FileID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
