package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, tenant_id, name, email, role, permissions, theme_color, layout, password_hash, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	var role string
	var theme, layout *string
	if err := row.Scan(&u.ID, &u.TenantID, &u.Name, &u.Email, &role, &u.Permissions, &theme, &layout, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return User{}, err
	}
	u.Role = shared.Role(role)
	if theme != nil {
		u.ThemeColor = *theme
	}
	if layout != nil {
		u.Layout = *layout
	}
	return u, nil
}

// List returns all users of a tenant ordered by creation.
func (r *Repository) List(ctx context.Context, tenantID string) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE tenant_id=$1 ORDER BY created_at`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Get returns a user by ID within a tenant.
func (r *Repository) Get(ctx context.Context, tenantID, id string) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, httpx.ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// FindByEmail looks a user up for authentication; email is unique per
// tenant.
func (r *Repository) FindByEmail(ctx context.Context, tenantID, email string) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE tenant_id=$1 AND email=$2`, tenantID, email)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, httpx.ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// Insert stores a new user.
func (r *Repository) Insert(ctx context.Context, u User) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO users (id, tenant_id, name, email, role, permissions, theme_color, layout, password_hash, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10, NOW(), NOW())`,
		u.ID, u.TenantID, u.Name, u.Email, string(u.Role), u.Permissions, u.ThemeColor, u.Layout, u.PasswordHash, u.IsActive)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return httpx.ErrDuplicate
		}
		return err
	}
	return nil
}

// Update replaces mutable user fields.
func (r *Repository) Update(ctx context.Context, u User) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET name=$3, email=$4, role=$5, permissions=$6, theme_color=NULLIF($7, ''), layout=NULLIF($8, ''), is_active=$9, updated_at=NOW()
WHERE tenant_id=$1 AND id=$2`,
		u.TenantID, u.ID, u.Name, u.Email, string(u.Role), u.Permissions, u.ThemeColor, u.Layout, u.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// SetPermissions replaces a user's permission set.
func (r *Repository) SetPermissions(ctx context.Context, tenantID, id string, permissions []string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET permissions=$3, updated_at=NOW() WHERE tenant_id=$1 AND id=$2`, tenantID, id, permissions)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Delete removes a user.
func (r *Repository) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
