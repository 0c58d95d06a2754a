package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
	"github.com/solmak-erp/solmak-erp/internal/tenants"
)

// RepositoryPort abstracts account persistence.
type RepositoryPort interface {
	List(ctx context.Context, tenantID string) ([]Account, error)
	Get(ctx context.Context, tenantID, id string) (Account, error)
	Insert(ctx context.Context, a Account) error
	Update(ctx context.Context, a Account) error
	Delete(ctx context.Context, tenantID, id string) error
}

// Service manages the chart of accounts.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

// NewService constructs Service.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// AccountInput carries create/update fields.
type AccountInput struct {
	Name    string  `json:"name" validate:"required"`
	Type    string  `json:"type" validate:"required,oneof=Asset Liability Equity Revenue Expense"`
	Balance float64 `json:"balance"`
}

func (s *Service) guard(actor shared.Actor) error {
	if !actor.HasModule(string(tenants.ModuleAccounts)) {
		return httpx.ErrForbidden
	}
	return nil
}

// List returns the tenant's accounts.
func (s *Service) List(ctx context.Context, actor shared.Actor) ([]Account, error) {
	if err := s.guard(actor); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return s.repo.List(ctx, actor.TenantID)
}

// Create adds an account.
func (s *Service) Create(ctx context.Context, actor shared.Actor, in AccountInput) (Account, error) {
	if err := s.guard(actor); err != nil {
		return Account{}, fmt.Errorf("create account: %w", err)
	}
	a := Account{
		ID:       shared.NewID("ACC"),
		TenantID: actor.TenantID,
		Name:     strings.TrimSpace(in.Name),
		Type:     in.Type,
		Balance:  in.Balance,
	}
	if err := s.repo.Insert(ctx, a); err != nil {
		return Account{}, fmt.Errorf("create account: %w", err)
	}
	return a, nil
}

// Update overwrites an account.
func (s *Service) Update(ctx context.Context, actor shared.Actor, id string, in AccountInput) (Account, error) {
	if err := s.guard(actor); err != nil {
		return Account{}, fmt.Errorf("update account: %w", err)
	}
	a, err := s.repo.Get(ctx, actor.TenantID, id)
	if err != nil {
		return Account{}, fmt.Errorf("update account: %w", err)
	}
	a.Name = strings.TrimSpace(in.Name)
	a.Type = in.Type
	a.Balance = in.Balance
	if err := s.repo.Update(ctx, a); err != nil {
		return Account{}, fmt.Errorf("update account: %w", err)
	}
	return a, nil
}

// Delete removes an account. Admin only.
func (s *Service) Delete(ctx context.Context, actor shared.Actor, id string) error {
	if err := s.guard(actor); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if actor.Role != shared.RoleAdmin && !actor.IsSuperAdmin() {
		return fmt.Errorf("delete account: %w", httpx.ErrForbidden)
	}
	if err := s.repo.Delete(ctx, actor.TenantID, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}
