package finance

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solmak-erp/solmak-erp/internal/platform/db"
	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
)

// Repository persists ledger transactions in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const txColumns = `id, tenant_id, date, category, amount, tx_type, status, method, supplier_id, employee_id, is_pending_deletion`

func scanTx(row pgx.Row) (Transaction, error) {
	var tx Transaction
	var txType string
	var method, supplierID, employeeID *string
	if err := row.Scan(&tx.ID, &tx.TenantID, &tx.Date, &tx.Category, &tx.Amount, &txType, &tx.Status, &method, &supplierID, &employeeID, &tx.PendingDeletion); err != nil {
		return Transaction{}, err
	}
	tx.Type = TxType(txType)
	if method != nil {
		tx.Method = *method
	}
	if supplierID != nil {
		tx.SupplierID = *supplierID
	}
	if employeeID != nil {
		tx.EmployeeID = *employeeID
	}
	return tx, nil
}

// Append inserts a new ledger entry. There is no update counterpart by
// design.
func (r *Repository) Append(ctx context.Context, tx Transaction) error {
	_, err := db.Querier(ctx, r.pool).Exec(ctx, `INSERT INTO transactions (id, tenant_id, date, category, amount, tx_type, status, method, supplier_id, employee_id, is_pending_deletion, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), $11, NOW())`,
		tx.ID, tx.TenantID, tx.Date, tx.Category, tx.Amount, string(tx.Type), tx.Status, tx.Method, tx.SupplierID, tx.EmployeeID, tx.PendingDeletion)
	return err
}

// Get returns a single transaction.
func (r *Repository) Get(ctx context.Context, tenantID, id string) (Transaction, error) {
	row := db.Querier(ctx, r.pool).QueryRow(ctx, `SELECT `+txColumns+` FROM transactions WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	tx, err := scanTx(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, httpx.ErrNotFound
		}
		return Transaction{}, err
	}
	return tx, nil
}

// ListRange returns transactions inside the inclusive date range,
// newest first. Empty bounds are open.
func (r *Repository) ListRange(ctx context.Context, tenantID string, rng Range) ([]Transaction, error) {
	rows, err := db.Querier(ctx, r.pool).Query(ctx, `SELECT `+txColumns+` FROM transactions
WHERE tenant_id=$1 AND ($2 = '' OR date >= $2) AND ($3 = '' OR date <= $3)
ORDER BY date DESC, created_at DESC`, tenantID, rng.From, rng.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Transaction
	for rows.Next() {
		tx, err := scanTx(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// ListByEmployee returns ledger entries referencing an employee.
func (r *Repository) ListByEmployee(ctx context.Context, tenantID, employeeID string) ([]Transaction, error) {
	rows, err := db.Querier(ctx, r.pool).Query(ctx, `SELECT `+txColumns+` FROM transactions
WHERE tenant_id=$1 AND employee_id=$2 ORDER BY date DESC, created_at DESC`, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Transaction
	for rows.Next() {
		tx, err := scanTx(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// ListPendingDeletion returns entries awaiting approval.
func (r *Repository) ListPendingDeletion(ctx context.Context, tenantID string) ([]Transaction, error) {
	rows, err := db.Querier(ctx, r.pool).Query(ctx, `SELECT `+txColumns+` FROM transactions
WHERE tenant_id=$1 AND is_pending_deletion ORDER BY date DESC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Transaction
	for rows.Next() {
		tx, err := scanTx(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// SetPendingDeletion flips the deletion flag. A missing ID affects zero
// rows, which callers treat as a silent no-op.
func (r *Repository) SetPendingDeletion(ctx context.Context, tenantID, id string, pending bool) error {
	_, err := db.Querier(ctx, r.pool).Exec(ctx, `UPDATE transactions SET is_pending_deletion=$3 WHERE tenant_id=$1 AND id=$2`, tenantID, id, pending)
	return err
}

// DeleteApproved permanently removes a transaction.
func (r *Repository) DeleteApproved(ctx context.Context, tenantID, id string) error {
	_, err := db.Querier(ctx, r.pool).Exec(ctx, `DELETE FROM transactions WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	return err
}
