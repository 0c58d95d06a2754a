package sales

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solmak-erp/solmak-erp/internal/platform/db"
	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
)

// Repository persists sale records in PostgreSQL. Lines are stored as
// JSONB since they are only ever read back whole.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const saleColumns = `id, tenant_id, date, customer, lines, total, status, tx_id`

func scanSale(row pgx.Row) (SaleRecord, error) {
	var sr SaleRecord
	var lines []byte
	var txID *string
	if err := row.Scan(&sr.ID, &sr.TenantID, &sr.Date, &sr.Customer, &lines, &sr.Total, &sr.Status, &txID); err != nil {
		return SaleRecord{}, err
	}
	if err := json.Unmarshal(lines, &sr.Lines); err != nil {
		return SaleRecord{}, err
	}
	if txID != nil {
		sr.TxID = *txID
	}
	return sr, nil
}

// Insert stores a sale record.
func (r *Repository) Insert(ctx context.Context, sr SaleRecord) error {
	lines, err := json.Marshal(sr.Lines)
	if err != nil {
		return err
	}
	_, err = db.Querier(ctx, r.pool).Exec(ctx, `INSERT INTO sale_records (id, tenant_id, date, customer, lines, total, status, tx_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NOW())`,
		sr.ID, sr.TenantID, sr.Date, sr.Customer, lines, sr.Total, sr.Status, sr.TxID)
	return err
}

// Get returns one sale record.
func (r *Repository) Get(ctx context.Context, tenantID, id string) (SaleRecord, error) {
	row := db.Querier(ctx, r.pool).QueryRow(ctx, `SELECT `+saleColumns+` FROM sale_records WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	sr, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SaleRecord{}, httpx.ErrNotFound
		}
		return SaleRecord{}, err
	}
	return sr, nil
}

// List returns sale records, newest first.
func (r *Repository) List(ctx context.Context, tenantID string) ([]SaleRecord, error) {
	rows, err := db.Querier(ctx, r.pool).Query(ctx, `SELECT `+saleColumns+` FROM sale_records WHERE tenant_id=$1 ORDER BY date DESC, created_at DESC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SaleRecord
	for rows.Next() {
		sr, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}
