package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"docport/internal/credentials/models"
	"docport/internal/sentinel"
	id "docport/pkg/domain"
)

// PostgresStore persists credentials in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed credential store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const credentialColumns = `id, tenant_id, name, secret_hash, created_at, last_used_at`

// Create inserts the credential; the (tenant_id, name) unique index enforces
// name uniqueness within the tenant.
func (s *PostgresStore) Create(ctx context.Context, c *models.Credential) error {
	query := `
		INSERT INTO credentials (id, tenant_id, name, secret_hash, created_at, last_used_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(c.ID),
		uuid.UUID(c.TenantID),
		c.Name,
		c.SecretHash,
		c.CreatedAt,
		c.LastUsedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("credential name must be unique within the tenant: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create credential: %w", err)
	}
	return nil
}

// FindByName retrieves a credential by tenant and name.
func (s *PostgresStore) FindByName(ctx context.Context, tenantID id.TenantID, name string) (*models.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials WHERE tenant_id = $1 AND name = $2`
	c, err := scanCredential(s.db.QueryRowContext(ctx, query, uuid.UUID(tenantID), name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	return c, nil
}

// List returns the tenant's credentials ordered by name.
func (s *PostgresStore) List(ctx context.Context, tenantID id.TenantID) ([]*models.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials WHERE tenant_id = $1 ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var out []*models.Credential
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("list credentials: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	return out, nil
}

// Update persists a mutated credential.
func (s *PostgresStore) Update(ctx context.Context, c *models.Credential) error {
	query := `UPDATE credentials SET last_used_at = $3 WHERE tenant_id = $1 AND id = $2`
	res, err := s.db.ExecContext(ctx, query, uuid.UUID(c.TenantID), uuid.UUID(c.ID), c.LastUsedAt)
	if err != nil {
		return fmt.Errorf("update credential: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update credential: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Delete removes the credential.
func (s *PostgresStore) Delete(ctx context.Context, tenantID id.TenantID, credID id.CredentialID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE tenant_id = $1 AND id = $2`,
		uuid.UUID(tenantID), uuid.UUID(credID))
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCredential(row rowScanner) (*models.Credential, error) {
	var (
		c        models.Credential
		credID   uuid.UUID
		tenantID uuid.UUID
		lastUsed sql.NullTime
	)
	err := row.Scan(
		&credID,
		&tenantID,
		&c.Name,
		&c.SecretHash,
		&c.CreatedAt,
		&lastUsed,
	)
	if err != nil {
		return nil, err
	}
	c.ID = id.CredentialID(credID)
	c.TenantID = id.TenantID(tenantID)
	if lastUsed.Valid {
		t := lastUsed.Time
		c.LastUsedAt = &t
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
