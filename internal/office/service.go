package office

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
	"github.com/solmak-erp/solmak-erp/internal/tenants"
)

// RepositoryPort abstracts task persistence.
type RepositoryPort interface {
	List(ctx context.Context, tenantID string) ([]Task, error)
	Get(ctx context.Context, tenantID, id string) (Task, error)
	Insert(ctx context.Context, t Task) error
	Update(ctx context.Context, t Task) error
	Delete(ctx context.Context, tenantID, id string) error
}

// Service manages office tasks.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

// NewService constructs Service.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// TaskInput carries create/update fields.
type TaskInput struct {
	Task       string `json:"task" validate:"required"`
	Priority   string `json:"priority"`
	AssignedTo string `json:"assignedTo"`
	Deadline   string `json:"deadline"`
}

func (s *Service) guard(actor shared.Actor) error {
	if !actor.HasModule(string(tenants.ModuleOffice)) {
		return httpx.ErrForbidden
	}
	return nil
}

// List returns tasks.
func (s *Service) List(ctx context.Context, actor shared.Actor) ([]Task, error) {
	if err := s.guard(actor); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return s.repo.List(ctx, actor.TenantID)
}

// Create adds a Pending task.
func (s *Service) Create(ctx context.Context, actor shared.Actor, in TaskInput) (Task, error) {
	if err := s.guard(actor); err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	t := Task{
		ID:         shared.NewID("TASK"),
		TenantID:   actor.TenantID,
		Task:       strings.TrimSpace(in.Task),
		Priority:   strings.TrimSpace(in.Priority),
		AssignedTo: strings.TrimSpace(in.AssignedTo),
		Deadline:   in.Deadline,
		Status:     TaskPending,
	}
	if err := s.repo.Insert(ctx, t); err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// Update overwrites a task's fields.
func (s *Service) Update(ctx context.Context, actor shared.Actor, id string, in TaskInput) (Task, error) {
	if err := s.guard(actor); err != nil {
		return Task{}, fmt.Errorf("update task: %w", err)
	}
	t, err := s.repo.Get(ctx, actor.TenantID, id)
	if err != nil {
		return Task{}, fmt.Errorf("update task: %w", err)
	}
	t.Task = strings.TrimSpace(in.Task)
	t.Priority = strings.TrimSpace(in.Priority)
	t.AssignedTo = strings.TrimSpace(in.AssignedTo)
	t.Deadline = in.Deadline
	if err := s.repo.Update(ctx, t); err != nil {
		return Task{}, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

// SetStatus transitions a task.
func (s *Service) SetStatus(ctx context.Context, actor shared.Actor, id, status string) (Task, error) {
	if err := s.guard(actor); err != nil {
		return Task{}, fmt.Errorf("set task status: %w", err)
	}
	if !ValidStatus(status) {
		return Task{}, fmt.Errorf("task status %q: %w", status, httpx.ErrValidation)
	}
	t, err := s.repo.Get(ctx, actor.TenantID, id)
	if err != nil {
		return Task{}, fmt.Errorf("set task status: %w", err)
	}
	t.Status = status
	if err := s.repo.Update(ctx, t); err != nil {
		return Task{}, fmt.Errorf("set task status: %w", err)
	}
	return t, nil
}

// Delete removes a task.
func (s *Service) Delete(ctx context.Context, actor shared.Actor, id string) error {
	if err := s.guard(actor); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if err := s.repo.Delete(ctx, actor.TenantID, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
