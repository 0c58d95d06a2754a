package office

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solmak-erp/solmak-erp/internal/platform/db"
	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
)

// Repository persists office tasks in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const taskColumns = `id, tenant_id, task, priority, assigned_to, deadline, status`

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	var priority, assigned, deadline *string
	if err := row.Scan(&t.ID, &t.TenantID, &t.Task, &priority, &assigned, &deadline, &t.Status); err != nil {
		return Task{}, err
	}
	if priority != nil {
		t.Priority = *priority
	}
	if assigned != nil {
		t.AssignedTo = *assigned
	}
	if deadline != nil {
		t.Deadline = *deadline
	}
	return t, nil
}

// List returns the tenant's tasks, earliest deadline first.
func (r *Repository) List(ctx context.Context, tenantID string) ([]Task, error) {
	rows, err := db.Querier(ctx, r.pool).Query(ctx, `SELECT `+taskColumns+` FROM office_tasks WHERE tenant_id=$1 ORDER BY deadline NULLS LAST, created_at`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Get returns one task.
func (r *Repository) Get(ctx context.Context, tenantID, id string) (Task, error) {
	row := db.Querier(ctx, r.pool).QueryRow(ctx, `SELECT `+taskColumns+` FROM office_tasks WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, httpx.ErrNotFound
		}
		return Task{}, err
	}
	return t, nil
}

// Insert stores a new task.
func (r *Repository) Insert(ctx context.Context, t Task) error {
	_, err := db.Querier(ctx, r.pool).Exec(ctx, `INSERT INTO office_tasks (id, tenant_id, task, priority, assigned_to, deadline, status, created_at)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, NOW())`,
		t.ID, t.TenantID, t.Task, t.Priority, t.AssignedTo, t.Deadline, t.Status)
	return err
}

// Update overwrites a task.
func (r *Repository) Update(ctx context.Context, t Task) error {
	tag, err := db.Querier(ctx, r.pool).Exec(ctx, `UPDATE office_tasks
SET task=$3, priority=NULLIF($4, ''), assigned_to=NULLIF($5, ''), deadline=NULLIF($6, ''), status=$7, updated_at=NOW()
WHERE tenant_id=$1 AND id=$2`,
		t.TenantID, t.ID, t.Task, t.Priority, t.AssignedTo, t.Deadline, t.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Delete removes a task.
func (r *Repository) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := db.Querier(ctx, r.pool).Exec(ctx, `DELETE FROM office_tasks WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
