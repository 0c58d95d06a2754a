package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/solmak-erp/solmak-erp/internal/finance"
	"github.com/solmak-erp/solmak-erp/internal/inventory"
	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
	"github.com/solmak-erp/solmak-erp/internal/tenants"
)

// TxRunner executes fn atomically. Production wires db.InTx; tests run
// fn directly.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// RepositoryPort abstracts sale record persistence.
type RepositoryPort interface {
	Insert(ctx context.Context, sr SaleRecord) error
	Get(ctx context.Context, tenantID, id string) (SaleRecord, error)
	List(ctx context.Context, tenantID string) ([]SaleRecord, error)
}

// CatalogPort is the slice of the inventory repository a sale touches.
type CatalogPort interface {
	Get(ctx context.Context, tenantID, id string) (inventory.Item, error)
	Update(ctx context.Context, it inventory.Item) error
}

// LedgerPort appends the sale's credit entry.
type LedgerPort interface {
	AppendSystem(ctx context.Context, tenantID string, tx finance.Transaction) (finance.Transaction, error)
}

// Service records sales. Stock deduction, ledger credit and the sale
// record itself commit together or not at all.
type Service struct {
	repo    RepositoryPort
	catalog CatalogPort
	ledger  LedgerPort
	inTx    TxRunner
	logger  *slog.Logger
}

// NewService constructs Service.
func NewService(repo RepositoryPort, catalog CatalogPort, ledger LedgerPort, inTx TxRunner, logger *slog.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, ledger: ledger, inTx: inTx, logger: logger}
}

// SaleLineInput is one requested line. UnitPrice comes from the point
// of sale; it may differ from the catalog price.
type SaleLineInput struct {
	ItemID    string  `json:"itemId" validate:"required"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
}

// SaleInput describes a sale to record.
type SaleInput struct {
	Date     string          `json:"date" validate:"required"`
	Customer string          `json:"customer" validate:"required"`
	Lines    []SaleLineInput `json:"items" validate:"required,min=1,dive"`
}

// Record books a sale: deducts stock for every line (clamping at
// zero), appends one credit transaction for the total and stores the
// record marked Paid.
func (s *Service) Record(ctx context.Context, actor shared.Actor, in SaleInput) (SaleRecord, error) {
	if !actor.HasModule(string(tenants.ModuleSales)) {
		return SaleRecord{}, fmt.Errorf("record sale: %w", httpx.ErrForbidden)
	}
	var sr SaleRecord
	err := s.inTx(ctx, func(ctx context.Context) error {
		lines := make([]SaleLine, 0, len(in.Lines))
		for _, l := range in.Lines {
			line := SaleLine{ItemID: l.ItemID, Quantity: l.Quantity, Price: l.UnitPrice}
			it, err := s.catalog.Get(ctx, actor.TenantID, l.ItemID)
			switch {
			case err == nil:
				it.Deduct(l.Quantity)
				if err := s.catalog.Update(ctx, it); err != nil {
					return fmt.Errorf("sale line %s: %w", l.ItemID, err)
				}
				line.Name = it.Name
			case errors.Is(err, httpx.ErrNotFound):
				// Unmatched lines still sell; only stock tracking is skipped.
			default:
				return fmt.Errorf("sale line %s: %w", l.ItemID, err)
			}
			lines = append(lines, line)
		}
		total := Total(lines)
		tx, err := s.ledger.AppendSystem(ctx, actor.TenantID, finance.Transaction{
			Date:     in.Date,
			Category: "Sale: " + strings.TrimSpace(in.Customer),
			Amount:   total,
			Type:     finance.TxCredit,
			Status:   finance.StatusCompleted,
		})
		if err != nil {
			return err
		}
		sr = SaleRecord{
			ID:       shared.NewID("SALE"),
			TenantID: actor.TenantID,
			Date:     in.Date,
			Customer: strings.TrimSpace(in.Customer),
			Lines:    lines,
			Total:    total,
			Status:   finance.StatusPaid,
			TxID:     tx.ID,
		}
		return s.repo.Insert(ctx, sr)
	})
	if err != nil {
		return SaleRecord{}, fmt.Errorf("record sale: %w", err)
	}
	s.logger.InfoContext(ctx, "sale recorded", "sale_id", sr.ID, "total", sr.Total)
	return sr, nil
}

// List returns sale records.
func (s *Service) List(ctx context.Context, actor shared.Actor) ([]SaleRecord, error) {
	if !actor.HasModule(string(tenants.ModuleSales)) {
		return nil, fmt.Errorf("list sales: %w", httpx.ErrForbidden)
	}
	return s.repo.List(ctx, actor.TenantID)
}

// Get returns one sale record.
func (s *Service) Get(ctx context.Context, actor shared.Actor, id string) (SaleRecord, error) {
	if !actor.HasModule(string(tenants.ModuleSales)) {
		return SaleRecord{}, fmt.Errorf("get sale: %w", httpx.ErrForbidden)
	}
	return s.repo.Get(ctx, actor.TenantID, id)
}
