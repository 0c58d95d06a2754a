package procurement

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solmak-erp/solmak-erp/internal/platform/db"
	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
)

// Repository persists purchase orders in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const poColumns = `id, tenant_id, supplier_id, supplier_name, date, purchaser_name, lines, total, delivery_date, payment_terms, status`

func scanPO(row pgx.Row) (PurchaseOrder, error) {
	var po PurchaseOrder
	var lines []byte
	var purchaser, delivery *string
	if err := row.Scan(&po.ID, &po.TenantID, &po.SupplierID, &po.SupplierName, &po.Date, &purchaser, &lines, &po.Total, &delivery, &po.PaymentTerms, &po.Status); err != nil {
		return PurchaseOrder{}, err
	}
	if err := json.Unmarshal(lines, &po.Lines); err != nil {
		return PurchaseOrder{}, err
	}
	if purchaser != nil {
		po.PurchaserName = *purchaser
	}
	if delivery != nil {
		po.DeliveryDate = *delivery
	}
	return po, nil
}

// Insert stores a new purchase order.
func (r *Repository) Insert(ctx context.Context, po PurchaseOrder) error {
	lines, err := json.Marshal(po.Lines)
	if err != nil {
		return err
	}
	_, err = db.Querier(ctx, r.pool).Exec(ctx, `INSERT INTO purchase_orders (id, tenant_id, supplier_id, supplier_name, date, purchaser_name, lines, total, delivery_date, payment_terms, status, created_at)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, NULLIF($9, ''), $10, $11, NOW())`,
		po.ID, po.TenantID, po.SupplierID, po.SupplierName, po.Date, po.PurchaserName, lines, po.Total, po.DeliveryDate, po.PaymentTerms, po.Status)
	return err
}

// Get returns one purchase order.
func (r *Repository) Get(ctx context.Context, tenantID, id string) (PurchaseOrder, error) {
	row := db.Querier(ctx, r.pool).QueryRow(ctx, `SELECT `+poColumns+` FROM purchase_orders WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	po, err := scanPO(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PurchaseOrder{}, httpx.ErrNotFound
		}
		return PurchaseOrder{}, err
	}
	return po, nil
}

// List returns purchase orders, newest first.
func (r *Repository) List(ctx context.Context, tenantID string) ([]PurchaseOrder, error) {
	rows, err := db.Querier(ctx, r.pool).Query(ctx, `SELECT `+poColumns+` FROM purchase_orders WHERE tenant_id=$1 ORDER BY date DESC, created_at DESC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PurchaseOrder
	for rows.Next() {
		po, err := scanPO(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, po)
	}
	return out, rows.Err()
}

// SetStatus transitions a purchase order.
func (r *Repository) SetStatus(ctx context.Context, tenantID, id, status string) error {
	tag, err := db.Querier(ctx, r.pool).Exec(ctx, `UPDATE purchase_orders SET status=$3, updated_at=NOW() WHERE tenant_id=$1 AND id=$2`, tenantID, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
