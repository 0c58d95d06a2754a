package office

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
	"github.com/solmak-erp/solmak-erp/internal/tenants"
)

type memoryTasks struct {
	tasks map[string]Task
}

func newMemoryTasks() *memoryTasks {
	return &memoryTasks{tasks: make(map[string]Task)}
}

func (r *memoryTasks) List(ctx context.Context, tenantID string) ([]Task, error) {
	var out []Task
	for _, t := range r.tasks {
		if t.TenantID == tenantID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memoryTasks) Get(ctx context.Context, tenantID, id string) (Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.TenantID != tenantID {
		return Task{}, httpx.ErrNotFound
	}
	return t, nil
}

func (r *memoryTasks) Insert(ctx context.Context, t Task) error {
	r.tasks[t.ID] = t
	return nil
}

func (r *memoryTasks) Update(ctx context.Context, t Task) error {
	if _, ok := r.tasks[t.ID]; !ok {
		return httpx.ErrNotFound
	}
	r.tasks[t.ID] = t
	return nil
}

func (r *memoryTasks) Delete(ctx context.Context, tenantID, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func officeActor() shared.Actor {
	return shared.Actor{
		UserID:      "USR-1",
		TenantID:    "tenant-1",
		Role:        shared.RoleUser,
		Permissions: []string{string(tenants.ModuleOffice)},
	}
}

func newOfficeService(repo RepositoryPort) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateTaskStartsPending(t *testing.T) {
	svc := newOfficeService(newMemoryTasks())

	task, err := svc.Create(context.Background(), officeActor(), TaskInput{
		Task:       "  Renew trade license  ",
		Priority:   "High",
		AssignedTo: "Karim Uddin",
		Deadline:   "2025-06-30",
	})
	require.NoError(t, err)
	require.Equal(t, TaskPending, task.Status)
	require.Equal(t, "Renew trade license", task.Task)
	require.NotEmpty(t, task.ID)
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	repo := newMemoryTasks()
	svc := newOfficeService(repo)
	task, err := svc.Create(context.Background(), officeActor(), TaskInput{Task: "File VAT return"})
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), officeActor(), task.ID, "Archived")
	require.ErrorIs(t, err, httpx.ErrValidation)

	updated, err := svc.SetStatus(context.Background(), officeActor(), task.ID, TaskDone)
	require.NoError(t, err)
	require.Equal(t, TaskDone, updated.Status)
}

func TestTasksRequireOfficeModule(t *testing.T) {
	svc := newOfficeService(newMemoryTasks())
	actor := officeActor()
	actor.Permissions = []string{string(tenants.ModuleSales)}

	_, err := svc.Create(context.Background(), actor, TaskInput{Task: "x"})
	require.ErrorIs(t, err, httpx.ErrForbidden)
	_, err = svc.List(context.Background(), actor)
	require.ErrorIs(t, err, httpx.ErrForbidden)
}
