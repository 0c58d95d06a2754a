package accounts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solmak-erp/solmak-erp/internal/platform/db"
	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
)

// Repository persists the chart of accounts in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const accountColumns = `id, tenant_id, name, account_type, balance`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	if err := row.Scan(&a.ID, &a.TenantID, &a.Name, &a.Type, &a.Balance); err != nil {
		return Account{}, err
	}
	return a, nil
}

// List returns the tenant's accounts grouped by type.
func (r *Repository) List(ctx context.Context, tenantID string) ([]Account, error) {
	rows, err := db.Querier(ctx, r.pool).Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE tenant_id=$1 ORDER BY account_type, name`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Get returns one account.
func (r *Repository) Get(ctx context.Context, tenantID, id string) (Account, error) {
	row := db.Querier(ctx, r.pool).QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, httpx.ErrNotFound
		}
		return Account{}, err
	}
	return a, nil
}

// Insert stores a new account.
func (r *Repository) Insert(ctx context.Context, a Account) error {
	_, err := db.Querier(ctx, r.pool).Exec(ctx, `INSERT INTO accounts (id, tenant_id, name, account_type, balance, created_at)
VALUES ($1, $2, $3, $4, $5, NOW())`,
		a.ID, a.TenantID, a.Name, a.Type, a.Balance)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return httpx.ErrDuplicate
		}
		return err
	}
	return nil
}

// Update overwrites an account.
func (r *Repository) Update(ctx context.Context, a Account) error {
	tag, err := db.Querier(ctx, r.pool).Exec(ctx, `UPDATE accounts SET name=$3, account_type=$4, balance=$5, updated_at=NOW() WHERE tenant_id=$1 AND id=$2`,
		a.TenantID, a.ID, a.Name, a.Type, a.Balance)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Delete removes an account.
func (r *Repository) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := db.Querier(ctx, r.pool).Exec(ctx, `DELETE FROM accounts WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
