package procurement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/solmak-erp/solmak-erp/internal/inventory"
	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
	"github.com/solmak-erp/solmak-erp/internal/suppliers"
	"github.com/solmak-erp/solmak-erp/internal/tenants"
)

// TxRunner executes fn atomically.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// RepositoryPort abstracts purchase order persistence.
type RepositoryPort interface {
	Insert(ctx context.Context, po PurchaseOrder) error
	Get(ctx context.Context, tenantID, id string) (PurchaseOrder, error)
	List(ctx context.Context, tenantID string) ([]PurchaseOrder, error)
	SetStatus(ctx context.Context, tenantID, id, status string) error
}

// CatalogPort is the slice of the inventory repository receiving
// touches.
type CatalogPort interface {
	Get(ctx context.Context, tenantID, id string) (inventory.Item, error)
	Update(ctx context.Context, it inventory.Item) error
}

// DirectoryPort looks up the supplier a PO references.
type DirectoryPort interface {
	Get(ctx context.Context, tenantID, id string) (suppliers.Supplier, error)
}

// Service manages purchase orders and goods receipt.
type Service struct {
	repo      RepositoryPort
	catalog   CatalogPort
	directory DirectoryPort
	inTx      TxRunner
	logger    *slog.Logger
}

// NewService constructs Service.
func NewService(repo RepositoryPort, catalog CatalogPort, directory DirectoryPort, inTx TxRunner, logger *slog.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, directory: directory, inTx: inTx, logger: logger}
}

// POLineInput is one requested line.
type POLineInput struct {
	ItemID    string  `json:"itemId" validate:"required"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
}

// POInput describes a purchase order to create.
type POInput struct {
	SupplierID    string        `json:"supplierId" validate:"required"`
	Date          string        `json:"date" validate:"required"`
	PurchaserName string        `json:"purchaserName"`
	Lines         []POLineInput `json:"items" validate:"required,min=1,dive"`
	DeliveryDate  string        `json:"deliveryDate"`
	PaymentTerms  string        `json:"paymentTerms" validate:"required,oneof=Cash Credit"`
}

func (s *Service) guard(actor shared.Actor) error {
	if !actor.HasModule(string(tenants.ModulePurchase)) {
		return httpx.ErrForbidden
	}
	return nil
}

// Create opens a Pending purchase order against an active supplier.
func (s *Service) Create(ctx context.Context, actor shared.Actor, in POInput) (PurchaseOrder, error) {
	if err := s.guard(actor); err != nil {
		return PurchaseOrder{}, fmt.Errorf("create purchase order: %w", err)
	}
	sp, err := s.directory.Get(ctx, actor.TenantID, in.SupplierID)
	if err != nil {
		return PurchaseOrder{}, fmt.Errorf("create purchase order: supplier %s: %w", in.SupplierID, err)
	}
	if sp.Blocked() {
		return PurchaseOrder{}, fmt.Errorf("create purchase order: supplier %s is blocked: %w", sp.ID, httpx.ErrInvalidState)
	}
	lines := make([]POLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, POLine{ItemID: l.ItemID, Name: strings.TrimSpace(l.Name), Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	po := PurchaseOrder{
		ID:            shared.NewID("PO"),
		TenantID:      actor.TenantID,
		SupplierID:    sp.ID,
		SupplierName:  sp.Name,
		Date:          in.Date,
		PurchaserName: strings.TrimSpace(in.PurchaserName),
		Lines:         lines,
		Total:         Total(lines),
		DeliveryDate:  in.DeliveryDate,
		PaymentTerms:  in.PaymentTerms,
		Status:        StatusPending,
	}
	if err := s.repo.Insert(ctx, po); err != nil {
		return PurchaseOrder{}, fmt.Errorf("create purchase order: %w", err)
	}
	s.logger.InfoContext(ctx, "purchase order created", "po_id", po.ID, "supplier", po.SupplierID, "total", po.Total)
	return po, nil
}

// Receive books the goods of a Pending order: each matched item's
// stock goes up by the ordered quantity and its purchase price is
// overwritten with the line's unit price, last write wins. Lines whose
// item no longer exists are skipped. Receiving is irreversible.
func (s *Service) Receive(ctx context.Context, actor shared.Actor, poID string) (PurchaseOrder, error) {
	if err := s.guard(actor); err != nil {
		return PurchaseOrder{}, fmt.Errorf("receive purchase order: %w", err)
	}
	var po PurchaseOrder
	err := s.inTx(ctx, func(ctx context.Context) error {
		var err error
		po, err = s.repo.Get(ctx, actor.TenantID, poID)
		if err != nil {
			return err
		}
		if po.Status != StatusPending {
			return fmt.Errorf("purchase order %s is %s: %w", po.ID, po.Status, httpx.ErrInvalidState)
		}
		for _, l := range po.Lines {
			it, err := s.catalog.Get(ctx, actor.TenantID, l.ItemID)
			if errors.Is(err, httpx.ErrNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("receive line %s: %w", l.ItemID, err)
			}
			it.Stock += l.Quantity
			it.PurchasePrice = l.UnitPrice
			if err := s.catalog.Update(ctx, it); err != nil {
				return fmt.Errorf("receive line %s: %w", l.ItemID, err)
			}
		}
		po.Status = StatusReceived
		return s.repo.SetStatus(ctx, actor.TenantID, po.ID, StatusReceived)
	})
	if err != nil {
		return PurchaseOrder{}, fmt.Errorf("receive purchase order: %w", err)
	}
	s.logger.InfoContext(ctx, "purchase order received", "po_id", po.ID)
	return po, nil
}

// Cancel closes a Pending order without stock movement.
func (s *Service) Cancel(ctx context.Context, actor shared.Actor, poID string) (PurchaseOrder, error) {
	if err := s.guard(actor); err != nil {
		return PurchaseOrder{}, fmt.Errorf("cancel purchase order: %w", err)
	}
	po, err := s.repo.Get(ctx, actor.TenantID, poID)
	if err != nil {
		return PurchaseOrder{}, fmt.Errorf("cancel purchase order: %w", err)
	}
	if po.Status != StatusPending {
		return PurchaseOrder{}, fmt.Errorf("purchase order %s is %s: %w", po.ID, po.Status, httpx.ErrInvalidState)
	}
	if err := s.repo.SetStatus(ctx, actor.TenantID, po.ID, StatusCancelled); err != nil {
		return PurchaseOrder{}, fmt.Errorf("cancel purchase order: %w", err)
	}
	po.Status = StatusCancelled
	return po, nil
}

// List returns purchase orders.
func (s *Service) List(ctx context.Context, actor shared.Actor) ([]PurchaseOrder, error) {
	if err := s.guard(actor); err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	return s.repo.List(ctx, actor.TenantID)
}

// Get returns one purchase order.
func (s *Service) Get(ctx context.Context, actor shared.Actor, id string) (PurchaseOrder, error) {
	if err := s.guard(actor); err != nil {
		return PurchaseOrder{}, fmt.Errorf("get purchase order: %w", err)
	}
	return s.repo.Get(ctx, actor.TenantID, id)
}
