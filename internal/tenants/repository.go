package tenants

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const tenantColumns = `id, name, theme, dark_mode, modules, module_order, logo_url, created_at`

func scanTenant(row pgx.Row) (Tenant, error) {
	var t Tenant
	var modules, order []string
	var logo *string
	if err := row.Scan(&t.ID, &t.Name, &t.Config.Theme, &t.Config.DarkMode, &modules, &order, &logo, &t.CreatedAt); err != nil {
		return Tenant{}, err
	}
	t.Config.Modules = toModules(modules)
	t.Config.ModuleOrder = toModules(order)
	if logo != nil {
		t.Config.LogoURL = *logo
	}
	return t, nil
}

// Get returns a tenant by ID.
func (r *Repository) Get(ctx context.Context, id string) (Tenant, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id=$1`, id)
	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tenant{}, httpx.ErrNotFound
		}
		return Tenant{}, err
	}
	return t, nil
}

// List returns all tenants ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]Tenant, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+tenantColumns+` FROM tenants ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Insert stores a new tenant.
func (r *Repository) Insert(ctx context.Context, t Tenant) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO tenants (id, name, theme, dark_mode, modules, module_order, logo_url, created_at)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)`,
		t.ID, t.Name, t.Config.Theme, t.Config.DarkMode, fromModules(t.Config.Modules), fromModules(t.Config.ModuleOrder), t.Config.LogoURL, touchTime(t.CreatedAt))
	return err
}

// UpdateConfig replaces the tenant's configuration.
func (r *Repository) UpdateConfig(ctx context.Context, id string, config AppConfig) error {
	tag, err := r.pool.Exec(ctx, `UPDATE tenants SET theme=$2, dark_mode=$3, modules=$4, module_order=$5, logo_url=NULLIF($6, '') WHERE id=$1`,
		id, config.Theme, config.DarkMode, fromModules(config.Modules), fromModules(config.ModuleOrder), config.LogoURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Count returns the number of tenants.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tenants`).Scan(&n)
	return n, err
}

func toModules(names []string) []Module {
	if len(names) == 0 {
		return nil
	}
	out := make([]Module, len(names))
	for i, n := range names {
		out[i] = Module(n)
	}
	return out
}

func fromModules(modules []Module) []string {
	out := make([]string, len(modules))
	for i, m := range modules {
		out[i] = string(m)
	}
	return out
}

// touchTime keeps zero timestamps out of inserts.
func touchTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
