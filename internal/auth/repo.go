package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository records session metadata in PostgreSQL for audit and
// forced logout.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateSession stores metadata about a login session.
func (r *Repository) CreateSession(ctx context.Context, id, userID, tenantID string, expiresAt time.Time, ip, userAgent string) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO sessions (id, user_id, tenant_id, expires_at, ip, user_agent, created_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW())
ON CONFLICT (id) DO UPDATE SET user_id=EXCLUDED.user_id, tenant_id=EXCLUDED.tenant_id, expires_at=EXCLUDED.expires_at`,
		id, userID, tenantID, expiresAt, ip, userAgent)
	return err
}

// DeleteSession removes a session record.
func (r *Repository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id=$1`, id)
	return err
}
