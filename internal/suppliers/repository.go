package suppliers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solmak-erp/solmak-erp/internal/platform/db"
	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
)

// Repository persists suppliers in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const supplierColumns = `id, tenant_id, name, contact_person, phone, email, address, category, balance, status, is_pending_deletion`

func scanSupplier(row pgx.Row) (Supplier, error) {
	var sp Supplier
	var contact, phone, email, address, category *string
	if err := row.Scan(&sp.ID, &sp.TenantID, &sp.Name, &contact, &phone, &email, &address, &category, &sp.Balance, &sp.Status, &sp.PendingDeletion); err != nil {
		return Supplier{}, err
	}
	if contact != nil {
		sp.ContactPerson = *contact
	}
	if phone != nil {
		sp.Phone = *phone
	}
	if email != nil {
		sp.Email = *email
	}
	if address != nil {
		sp.Address = *address
	}
	if category != nil {
		sp.Category = *category
	}
	return sp, nil
}

// List returns the tenant's suppliers ordered by name.
func (r *Repository) List(ctx context.Context, tenantID string) ([]Supplier, error) {
	rows, err := db.Querier(ctx, r.pool).Query(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE tenant_id=$1 ORDER BY name`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Supplier
	for rows.Next() {
		sp, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// Get returns a single supplier.
func (r *Repository) Get(ctx context.Context, tenantID, id string) (Supplier, error) {
	row := db.Querier(ctx, r.pool).QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	sp, err := scanSupplier(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Supplier{}, httpx.ErrNotFound
		}
		return Supplier{}, err
	}
	return sp, nil
}

// Insert stores a new supplier.
func (r *Repository) Insert(ctx context.Context, sp Supplier) error {
	_, err := db.Querier(ctx, r.pool).Exec(ctx, `INSERT INTO suppliers (id, tenant_id, name, contact_person, phone, email, address, category, balance, status, is_pending_deletion, created_at)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11, NOW())`,
		sp.ID, sp.TenantID, sp.Name, sp.ContactPerson, sp.Phone, sp.Email, sp.Address, sp.Category, sp.Balance, sp.Status, sp.PendingDeletion)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return httpx.ErrDuplicate
		}
		return err
	}
	return nil
}

// Update overwrites supplier fields.
func (r *Repository) Update(ctx context.Context, sp Supplier) error {
	tag, err := db.Querier(ctx, r.pool).Exec(ctx, `UPDATE suppliers
SET name=$3, contact_person=NULLIF($4, ''), phone=NULLIF($5, ''), email=NULLIF($6, ''), address=NULLIF($7, ''), category=NULLIF($8, ''), balance=$9, status=$10, updated_at=NOW()
WHERE tenant_id=$1 AND id=$2`,
		sp.TenantID, sp.ID, sp.Name, sp.ContactPerson, sp.Phone, sp.Email, sp.Address, sp.Category, sp.Balance, sp.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// SetStatus flips Active/Blocked.
func (r *Repository) SetStatus(ctx context.Context, tenantID, id, status string) error {
	tag, err := db.Querier(ctx, r.pool).Exec(ctx, `UPDATE suppliers SET status=$3, updated_at=NOW() WHERE tenant_id=$1 AND id=$2`, tenantID, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// ListPendingDeletion returns suppliers awaiting approval.
func (r *Repository) ListPendingDeletion(ctx context.Context, tenantID string) ([]Supplier, error) {
	rows, err := db.Querier(ctx, r.pool).Query(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE tenant_id=$1 AND is_pending_deletion ORDER BY name`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Supplier
	for rows.Next() {
		sp, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// SetPendingDeletion flips the deletion flag. Missing IDs affect zero
// rows and are treated as a no-op.
func (r *Repository) SetPendingDeletion(ctx context.Context, tenantID, id string, pending bool) error {
	_, err := db.Querier(ctx, r.pool).Exec(ctx, `UPDATE suppliers SET is_pending_deletion=$3 WHERE tenant_id=$1 AND id=$2`, tenantID, id, pending)
	return err
}

// DeleteApproved permanently removes a supplier.
func (r *Repository) DeleteApproved(ctx context.Context, tenantID, id string) error {
	_, err := db.Querier(ctx, r.pool).Exec(ctx, `DELETE FROM suppliers WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	return err
}
