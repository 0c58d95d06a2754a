package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solmak-erp/solmak-erp/internal/platform/db"
	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
)

// Repository persists inventory items in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const itemColumns = `id, tenant_id, sku, name, category, stock, sale_price, purchase_price, unit, supplier_id, low_stock_level, is_pending_deletion`

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	var sku, unit, supplierID *string
	if err := row.Scan(&it.ID, &it.TenantID, &sku, &it.Name, &it.Category, &it.Stock, &it.SalePrice, &it.PurchasePrice, &unit, &supplierID, &it.LowStockLevel, &it.PendingDeletion); err != nil {
		return Item{}, err
	}
	if sku != nil {
		it.SKU = *sku
	}
	if unit != nil {
		it.Unit = *unit
	}
	if supplierID != nil {
		it.SupplierID = *supplierID
	}
	return it, nil
}

// List returns all items for the tenant, ordered by name.
func (r *Repository) List(ctx context.Context, tenantID string) ([]Item, error) {
	rows, err := db.Querier(ctx, r.pool).Query(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE tenant_id=$1 ORDER BY name`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Get returns one item.
func (r *Repository) Get(ctx context.Context, tenantID, id string) (Item, error) {
	row := db.Querier(ctx, r.pool).QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, httpx.ErrNotFound
		}
		return Item{}, err
	}
	return it, nil
}

// Insert stores a new item.
func (r *Repository) Insert(ctx context.Context, it Item) error {
	_, err := db.Querier(ctx, r.pool).Exec(ctx, `INSERT INTO inventory_items (id, tenant_id, sku, name, category, stock, sale_price, purchase_price, unit, supplier_id, low_stock_level, is_pending_deletion, created_at)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''), $11, $12, NOW())`,
		it.ID, it.TenantID, it.SKU, it.Name, it.Category, it.Stock, it.SalePrice, it.PurchasePrice, it.Unit, it.SupplierID, it.LowStockLevel, it.PendingDeletion)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return httpx.ErrDuplicate
		}
		return err
	}
	return nil
}

// Update overwrites an item's descriptive fields and stock.
func (r *Repository) Update(ctx context.Context, it Item) error {
	tag, err := db.Querier(ctx, r.pool).Exec(ctx, `UPDATE inventory_items
SET sku=NULLIF($3, ''), name=$4, category=$5, stock=$6, sale_price=$7, purchase_price=$8, unit=NULLIF($9, ''), supplier_id=NULLIF($10, ''), low_stock_level=$11, updated_at=NOW()
WHERE tenant_id=$1 AND id=$2`,
		it.TenantID, it.ID, it.SKU, it.Name, it.Category, it.Stock, it.SalePrice, it.PurchasePrice, it.Unit, it.SupplierID, it.LowStockLevel)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// ListPendingDeletion returns items awaiting approval.
func (r *Repository) ListPendingDeletion(ctx context.Context, tenantID string) ([]Item, error) {
	rows, err := db.Querier(ctx, r.pool).Query(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE tenant_id=$1 AND is_pending_deletion ORDER BY name`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// SetPendingDeletion flips the deletion flag. Missing IDs affect zero
// rows and are treated as a no-op.
func (r *Repository) SetPendingDeletion(ctx context.Context, tenantID, id string, pending bool) error {
	_, err := db.Querier(ctx, r.pool).Exec(ctx, `UPDATE inventory_items SET is_pending_deletion=$3 WHERE tenant_id=$1 AND id=$2`, tenantID, id, pending)
	return err
}

// DeleteApproved permanently removes an item.
func (r *Repository) DeleteApproved(ctx context.Context, tenantID, id string) error {
	_, err := db.Querier(ctx, r.pool).Exec(ctx, `DELETE FROM inventory_items WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	return err
}
