package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"docport/internal/pages/models"
	"docport/internal/sentinel"
	id "docport/pkg/domain"
)

// PostgresStore persists pages in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed page store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const pageColumns = `id, tenant_id, slug, title, content, created_at, updated_at`

// Create inserts the page; the (tenant_id, slug) unique index enforces slug
// uniqueness within the tenant.
func (s *PostgresStore) Create(ctx context.Context, p *models.Page) error {
	query := `
		INSERT INTO pages (id, tenant_id, slug, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(p.ID),
		uuid.UUID(p.TenantID),
		p.Slug,
		p.Title,
		p.Content,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("slug must be unique within the tenant: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create page: %w", err)
	}
	return nil
}

// FindBySlug retrieves one page by tenant and slug.
func (s *PostgresStore) FindBySlug(ctx context.Context, tenantID id.TenantID, slug string) (*models.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages WHERE tenant_id = $1 AND slug = $2`
	p, err := scanPage(s.db.QueryRowContext(ctx, query, uuid.UUID(tenantID), slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find page: %w", err)
	}
	return p, nil
}

// List returns the tenant's pages ordered by slug.
func (s *PostgresStore) List(ctx context.Context, tenantID id.TenantID) ([]*models.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages WHERE tenant_id = $1 ORDER BY slug`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var out []*models.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("list pages: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return out, nil
}

// Update persists a revised page.
func (s *PostgresStore) Update(ctx context.Context, p *models.Page) error {
	query := `
		UPDATE pages
		SET title = $3, content = $4, updated_at = $5
		WHERE tenant_id = $1 AND slug = $2
	`
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(p.TenantID),
		p.Slug,
		p.Title,
		p.Content,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update page: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update page: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Delete removes the page.
func (s *PostgresStore) Delete(ctx context.Context, tenantID id.TenantID, slug string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE tenant_id = $1 AND slug = $2`,
		uuid.UUID(tenantID), slug)
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (*models.Page, error) {
	var (
		p        models.Page
		pageID   uuid.UUID
		tenantID uuid.UUID
	)
	err := row.Scan(
		&pageID,
		&tenantID,
		&p.Slug,
		&p.Title,
		&p.Content,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ID = id.PageID(pageID)
	p.TenantID = id.TenantID(tenantID)
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
