package suppliers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
	"github.com/solmak-erp/solmak-erp/internal/tenants"
)

// RepositoryPort abstracts supplier persistence.
type RepositoryPort interface {
	List(ctx context.Context, tenantID string) ([]Supplier, error)
	Get(ctx context.Context, tenantID, id string) (Supplier, error)
	Insert(ctx context.Context, sp Supplier) error
	Update(ctx context.Context, sp Supplier) error
	SetStatus(ctx context.Context, tenantID, id, status string) error
}

// Service manages the vendor directory.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

// NewService constructs Service.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// SupplierInput carries create/update fields.
type SupplierInput struct {
	Name          string `json:"name" validate:"required,min=2"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Email         string `json:"email" validate:"omitempty,email"`
	Address       string `json:"address"`
	Category      string `json:"category"`
}

func (s *Service) guard(actor shared.Actor) error {
	if !actor.HasModule(string(tenants.ModuleSuppliers)) {
		return httpx.ErrForbidden
	}
	return nil
}

// List returns the tenant's suppliers.
func (s *Service) List(ctx context.Context, actor shared.Actor) ([]Supplier, error) {
	if err := s.guard(actor); err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return s.repo.List(ctx, actor.TenantID)
}

// Get returns one supplier.
func (s *Service) Get(ctx context.Context, actor shared.Actor, id string) (Supplier, error) {
	if err := s.guard(actor); err != nil {
		return Supplier{}, fmt.Errorf("get supplier: %w", err)
	}
	return s.repo.Get(ctx, actor.TenantID, id)
}

// Create adds a supplier.
func (s *Service) Create(ctx context.Context, actor shared.Actor, in SupplierInput) (Supplier, error) {
	if err := s.guard(actor); err != nil {
		return Supplier{}, fmt.Errorf("create supplier: %w", err)
	}
	sp := Supplier{
		ID:            shared.NewID("SUP"),
		TenantID:      actor.TenantID,
		Name:          strings.TrimSpace(in.Name),
		ContactPerson: strings.TrimSpace(in.ContactPerson),
		Phone:         strings.TrimSpace(in.Phone),
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
		Address:       strings.TrimSpace(in.Address),
		Category:      strings.TrimSpace(in.Category),
		Status:        StatusActive,
	}
	if err := s.repo.Insert(ctx, sp); err != nil {
		return Supplier{}, fmt.Errorf("create supplier: %w", err)
	}
	s.logger.InfoContext(ctx, "supplier created", "supplier_id", sp.ID, "name", sp.Name)
	return sp, nil
}

// Update overwrites a supplier.
func (s *Service) Update(ctx context.Context, actor shared.Actor, id string, in SupplierInput) (Supplier, error) {
	if err := s.guard(actor); err != nil {
		return Supplier{}, fmt.Errorf("update supplier: %w", err)
	}
	sp, err := s.repo.Get(ctx, actor.TenantID, id)
	if err != nil {
		return Supplier{}, fmt.Errorf("update supplier: %w", err)
	}
	sp.Name = strings.TrimSpace(in.Name)
	sp.ContactPerson = strings.TrimSpace(in.ContactPerson)
	sp.Phone = strings.TrimSpace(in.Phone)
	sp.Email = strings.ToLower(strings.TrimSpace(in.Email))
	sp.Address = strings.TrimSpace(in.Address)
	sp.Category = strings.TrimSpace(in.Category)
	if err := s.repo.Update(ctx, sp); err != nil {
		return Supplier{}, fmt.Errorf("update supplier: %w", err)
	}
	return sp, nil
}

// Block stops new purchase orders against a supplier.
func (s *Service) Block(ctx context.Context, actor shared.Actor, id string) error {
	return s.setStatus(ctx, actor, id, StatusBlocked)
}

// Unblock re-activates a supplier.
func (s *Service) Unblock(ctx context.Context, actor shared.Actor, id string) error {
	return s.setStatus(ctx, actor, id, StatusActive)
}

func (s *Service) setStatus(ctx context.Context, actor shared.Actor, id, status string) error {
	if err := s.guard(actor); err != nil {
		return fmt.Errorf("set supplier status: %w", err)
	}
	if actor.Role != shared.RoleAdmin && !actor.IsSuperAdmin() {
		return fmt.Errorf("set supplier status: %w", httpx.ErrForbidden)
	}
	if err := s.repo.SetStatus(ctx, actor.TenantID, id, status); err != nil {
		return fmt.Errorf("set supplier status: %w", err)
	}
	s.logger.InfoContext(ctx, "supplier status changed", "supplier_id", id, "status", status)
	return nil
}
