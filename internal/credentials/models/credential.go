package models

import (
	"strings"
	"time"

	id "docport/pkg/domain"
	dErrors "docport/pkg/domain-errors"
)

// Credential is a named service secret a tenant hands to its own tooling
// (CI pipelines, the MCP companion). Only the bcrypt hash is stored; the
// secret value is shown once at creation.
type Credential struct {
	ID         id.CredentialID `json:"id"`
	TenantID   id.TenantID     `json:"tenant_id"`
	Name       string          `json:"name"`
	SecretHash string          `json:"-"`

	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// NewCredential constructs a credential with its secret hash.
func NewCredential(credID id.CredentialID, tenantID id.TenantID, name, secretHash string, now time.Time) (*Credential, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "credential name is required")
	}
	if len(name) > 64 {
		return nil, dErrors.New(dErrors.CodeValidation, "credential name must be 64 characters or less")
	}
	if secretHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "credential requires a secret hash")
	}
	return &Credential{
		ID:         credID,
		TenantID:   tenantID,
		Name:       name,
		SecretHash: secretHash,
		CreatedAt:  now,
	}, nil
}

// Touch records a successful use of the credential.
func (c *Credential) Touch(now time.Time) {
	c.LastUsedAt = &now
}
