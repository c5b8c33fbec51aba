package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"docport/internal/sentinel"
	"docport/internal/tenant/models"
	id "docport/pkg/domain"
)

// PostgresStore persists tenants in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed tenant directory.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const tenantColumns = `id, name, api_key_digest, custom_domain, domain_verified, subdomain, subdomain_password_hash, created_at, updated_at`

// CreateIfNameAvailable atomically creates the tenant if the name is not already taken (case-insensitive).
func (s *PostgresStore) CreateIfNameAvailable(ctx context.Context, t *models.Tenant) error {
	if t == nil {
		return fmt.Errorf("tenant is required")
	}
	query := `
		INSERT INTO tenants (id, name, api_key_digest, custom_domain, domain_verified, subdomain, subdomain_password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(t.ID),
		t.Name,
		t.APIKeyDigest,
		t.CustomDomain,
		t.DomainVerified,
		t.Subdomain,
		t.SubdomainPasswordHash,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("tenant name must be unique: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

// FindByID retrieves a tenant by its UUID.
func (s *PostgresStore) FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	return s.findOne(ctx, query, uuid.UUID(tenantID))
}

// FindByName retrieves a tenant by name (case-insensitive).
func (s *PostgresStore) FindByName(ctx context.Context, name string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE lower(name) = lower($1)`
	return s.findOne(ctx, query, name)
}

// FindByAPIKeyDigest retrieves a tenant by the sha256 digest of its API key.
func (s *PostgresStore) FindByAPIKeyDigest(ctx context.Context, digest string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE api_key_digest = $1`
	return s.findOne(ctx, query, digest)
}

// FindByCustomDomain retrieves a tenant whose custom domain matches exactly (case-insensitive).
func (s *PostgresStore) FindByCustomDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE custom_domain = lower($1)`
	return s.findOne(ctx, query, domain)
}

// FindBySubdomain retrieves a tenant by its managed subdomain label (case-insensitive).
func (s *PostgresStore) FindBySubdomain(ctx context.Context, label string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE subdomain = lower($1)`
	return s.findOne(ctx, query, label)
}

// Update persists a mutated tenant. Custom domain and subdomain uniqueness is
// enforced by partial unique indexes in the schema; violations surface as
// sentinel.ErrAlreadyUsed.
func (s *PostgresStore) Update(ctx context.Context, t *models.Tenant) error {
	query := `
		UPDATE tenants
		SET name = $2,
		    custom_domain = NULLIF($3, ''),
		    domain_verified = $4,
		    subdomain = NULLIF($5, ''),
		    subdomain_password_hash = $6,
		    updated_at = $7
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(t.ID),
		t.Name,
		t.CustomDomain,
		t.DomainVerified,
		t.Subdomain,
		t.SubdomainPasswordHash,
		t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("domain binding must be unique: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("update tenant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Count returns the total number of tenants.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tenants`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tenants: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg any) (*models.Tenant, error) {
	t, err := scanTenant(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find tenant: %w", err)
	}
	return t, nil
}

func scanTenant(row *sql.Row) (*models.Tenant, error) {
	var (
		t            models.Tenant
		tenantID     uuid.UUID
		customDomain sql.NullString
		subdomain    sql.NullString
		passwordHash sql.NullString
	)
	err := row.Scan(
		&tenantID,
		&t.Name,
		&t.APIKeyDigest,
		&customDomain,
		&t.DomainVerified,
		&subdomain,
		&passwordHash,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.ID = id.TenantID(tenantID)
	t.CustomDomain = customDomain.String
	t.Subdomain = subdomain.String
	t.SubdomainPasswordHash = passwordHash.String
	return &t, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
