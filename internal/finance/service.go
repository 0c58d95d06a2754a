package finance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
	"github.com/solmak-erp/solmak-erp/internal/tenants"
)

// RepositoryPort abstracts ledger persistence for the service layer.
type RepositoryPort interface {
	Append(ctx context.Context, tx Transaction) error
	Get(ctx context.Context, tenantID, id string) (Transaction, error)
	ListRange(ctx context.Context, tenantID string, rng Range) ([]Transaction, error)
	ListByEmployee(ctx context.Context, tenantID, employeeID string) ([]Transaction, error)
	ListPendingDeletion(ctx context.Context, tenantID string) ([]Transaction, error)
	SetPendingDeletion(ctx context.Context, tenantID, id string, pending bool) error
	DeleteApproved(ctx context.Context, tenantID, id string) error
}

// Service guards the append-only ledger.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

// NewService constructs Service.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// AppendInput describes a new ledger entry.
type AppendInput struct {
	Date       string  `json:"date" validate:"required"`
	Category   string  `json:"category" validate:"required"`
	Amount     float64 `json:"amount" validate:"ne=0"`
	Type       TxType  `json:"type" validate:"required,oneof=credit debit"`
	Status     string  `json:"status"`
	Method     string  `json:"method"`
	SupplierID string  `json:"supplierId"`
	EmployeeID string  `json:"employeeId"`
}

// Append records a new transaction. Existing entries are never mutated;
// corrections arrive as fresh entries.
func (s *Service) Append(ctx context.Context, actor shared.Actor, in AppendInput) (Transaction, error) {
	if !actor.HasModule(string(tenants.ModuleFinance)) {
		return Transaction{}, fmt.Errorf("append transaction: %w", httpx.ErrForbidden)
	}
	if in.Type != TxCredit && in.Type != TxDebit {
		return Transaction{}, fmt.Errorf("transaction type %q: %w", in.Type, httpx.ErrValidation)
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = StatusCompleted
	}
	tx := Transaction{
		ID:         shared.NewID("TXN"),
		TenantID:   actor.TenantID,
		Date:       in.Date,
		Category:   strings.TrimSpace(in.Category),
		Amount:     in.Amount,
		Type:       in.Type,
		Status:     status,
		Method:     strings.TrimSpace(in.Method),
		SupplierID: strings.TrimSpace(in.SupplierID),
		EmployeeID: strings.TrimSpace(in.EmployeeID),
	}
	if err := s.repo.Append(ctx, tx); err != nil {
		return Transaction{}, fmt.Errorf("append transaction: %w", err)
	}
	s.logger.InfoContext(ctx, "transaction appended", "tx_id", tx.ID, "type", tx.Type, "amount", tx.Amount)
	return tx, nil
}

// AppendSystem records a transaction produced by another module, such
// as a sale or a payroll disbursement. The caller already passed its
// own authorization checks.
func (s *Service) AppendSystem(ctx context.Context, tenantID string, tx Transaction) (Transaction, error) {
	if tx.ID == "" {
		tx.ID = shared.NewID("TXN")
	}
	tx.TenantID = tenantID
	if tx.Status == "" {
		tx.Status = StatusCompleted
	}
	if err := s.repo.Append(ctx, tx); err != nil {
		return Transaction{}, fmt.Errorf("append system transaction: %w", err)
	}
	return tx, nil
}

// ListByEmployee returns ledger entries booked against an employee.
func (s *Service) ListByEmployee(ctx context.Context, tenantID, employeeID string) ([]Transaction, error) {
	return s.repo.ListByEmployee(ctx, tenantID, employeeID)
}

// List returns ledger entries within a date range.
func (s *Service) List(ctx context.Context, actor shared.Actor, rng Range) ([]Transaction, error) {
	if !actor.HasModule(string(tenants.ModuleFinance)) {
		return nil, fmt.Errorf("list transactions: %w", httpx.ErrForbidden)
	}
	txs, err := s.repo.ListRange(ctx, actor.TenantID, rng)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Get returns a single transaction.
func (s *Service) Get(ctx context.Context, actor shared.Actor, id string) (Transaction, error) {
	if !actor.HasModule(string(tenants.ModuleFinance)) {
		return Transaction{}, fmt.Errorf("get transaction: %w", httpx.ErrForbidden)
	}
	return s.repo.Get(ctx, actor.TenantID, id)
}

// Summary aggregates balance, income and expense over a range,
// skipping entries that await deletion approval.
func (s *Service) Summary(ctx context.Context, actor shared.Actor, rng Range) (Summary, error) {
	if !actor.HasModule(string(tenants.ModuleFinance)) && !actor.HasModule(string(tenants.ModuleDashboard)) {
		return Summary{}, fmt.Errorf("finance summary: %w", httpx.ErrForbidden)
	}
	txs, err := s.repo.ListRange(ctx, actor.TenantID, Range{})
	if err != nil {
		return Summary{}, fmt.Errorf("finance summary: %w", err)
	}
	return Summarize(txs, rng), nil
}
