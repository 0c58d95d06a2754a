package legal

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solmak-erp/solmak-erp/internal/platform/db"
	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
)

// Repository persists legal documents in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const docColumns = `id, tenant_id, title, doc_type, expiry_date, status`

func scanDoc(row pgx.Row) (Document, error) {
	var d Document
	var docType, expiry *string
	if err := row.Scan(&d.ID, &d.TenantID, &d.Title, &docType, &expiry, &d.Status); err != nil {
		return Document{}, err
	}
	if docType != nil {
		d.Type = *docType
	}
	if expiry != nil {
		d.ExpiryDate = *expiry
	}
	return d, nil
}

// List returns the tenant's documents ordered by expiry.
func (r *Repository) List(ctx context.Context, tenantID string) ([]Document, error) {
	rows, err := db.Querier(ctx, r.pool).Query(ctx, `SELECT `+docColumns+` FROM legal_documents WHERE tenant_id=$1 ORDER BY expiry_date NULLS LAST`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Document
	for rows.Next() {
		d, err := scanDoc(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListAllTenants returns every document regardless of tenant, for the
// expiry scan job.
func (r *Repository) ListAllTenants(ctx context.Context) ([]Document, error) {
	rows, err := db.Querier(ctx, r.pool).Query(ctx, `SELECT `+docColumns+` FROM legal_documents WHERE status <> $1`, DocExpired)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Document
	for rows.Next() {
		d, err := scanDoc(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Get returns one document.
func (r *Repository) Get(ctx context.Context, tenantID, id string) (Document, error) {
	row := db.Querier(ctx, r.pool).QueryRow(ctx, `SELECT `+docColumns+` FROM legal_documents WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	d, err := scanDoc(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, httpx.ErrNotFound
		}
		return Document{}, err
	}
	return d, nil
}

// Insert stores a new document.
func (r *Repository) Insert(ctx context.Context, d Document) error {
	_, err := db.Querier(ctx, r.pool).Exec(ctx, `INSERT INTO legal_documents (id, tenant_id, title, doc_type, expiry_date, status, created_at)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, NOW())`,
		d.ID, d.TenantID, d.Title, d.Type, d.ExpiryDate, d.Status)
	return err
}

// Update overwrites a document.
func (r *Repository) Update(ctx context.Context, d Document) error {
	tag, err := db.Querier(ctx, r.pool).Exec(ctx, `UPDATE legal_documents
SET title=$3, doc_type=NULLIF($4, ''), expiry_date=NULLIF($5, ''), status=$6, updated_at=NOW()
WHERE tenant_id=$1 AND id=$2`,
		d.TenantID, d.ID, d.Title, d.Type, d.ExpiryDate, d.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Delete removes a document.
func (r *Repository) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := db.Querier(ctx, r.pool).Exec(ctx, `DELETE FROM legal_documents WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
