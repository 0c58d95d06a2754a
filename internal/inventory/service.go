package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
	"github.com/solmak-erp/solmak-erp/internal/tenants"
)

// RepositoryPort abstracts item persistence for the service layer.
type RepositoryPort interface {
	List(ctx context.Context, tenantID string) ([]Item, error)
	Get(ctx context.Context, tenantID, id string) (Item, error)
	Insert(ctx context.Context, it Item) error
	Update(ctx context.Context, it Item) error
	ListPendingDeletion(ctx context.Context, tenantID string) ([]Item, error)
	SetPendingDeletion(ctx context.Context, tenantID, id string, pending bool) error
	DeleteApproved(ctx context.Context, tenantID, id string) error
}

// Service manages the product catalog and stock levels.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

// NewService constructs Service.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ItemInput carries create/update fields for an item.
type ItemInput struct {
	SKU           string  `json:"sku"`
	Name          string  `json:"name" validate:"required,min=2"`
	Category      string  `json:"category" validate:"required"`
	Stock         int     `json:"stock" validate:"gte=0"`
	SalePrice     float64 `json:"salePrice" validate:"gte=0"`
	PurchasePrice float64 `json:"purchasePrice" validate:"gte=0"`
	Unit          string  `json:"unit"`
	SupplierID    string  `json:"supplierId"`
	LowStockLevel int     `json:"lowStockLevel" validate:"gte=0"`
}

func (s *Service) guard(actor shared.Actor) error {
	if !actor.HasModule(string(tenants.ModuleInventory)) {
		return httpx.ErrForbidden
	}
	return nil
}

// List returns the tenant's catalog.
func (s *Service) List(ctx context.Context, actor shared.Actor) ([]Item, error) {
	if err := s.guard(actor); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return s.repo.List(ctx, actor.TenantID)
}

// Get returns a single item.
func (s *Service) Get(ctx context.Context, actor shared.Actor, id string) (Item, error) {
	if err := s.guard(actor); err != nil {
		return Item{}, fmt.Errorf("get item: %w", err)
	}
	return s.repo.Get(ctx, actor.TenantID, id)
}

// Create adds an item to the catalog.
func (s *Service) Create(ctx context.Context, actor shared.Actor, in ItemInput) (Item, error) {
	if err := s.guard(actor); err != nil {
		return Item{}, fmt.Errorf("create item: %w", err)
	}
	it := Item{
		ID:            shared.NewID("ITM"),
		TenantID:      actor.TenantID,
		SKU:           strings.TrimSpace(in.SKU),
		Name:          strings.TrimSpace(in.Name),
		Category:      strings.TrimSpace(in.Category),
		Stock:         in.Stock,
		SalePrice:     in.SalePrice,
		PurchasePrice: in.PurchasePrice,
		Unit:          strings.TrimSpace(in.Unit),
		SupplierID:    strings.TrimSpace(in.SupplierID),
		LowStockLevel: in.LowStockLevel,
	}
	if err := s.repo.Insert(ctx, it); err != nil {
		return Item{}, fmt.Errorf("create item: %w", err)
	}
	s.logger.InfoContext(ctx, "item created", "item_id", it.ID, "name", it.Name)
	return it, nil
}

// Update overwrites item fields. Stock written here is an absolute
// correction; sales and receiving adjust it relatively.
func (s *Service) Update(ctx context.Context, actor shared.Actor, id string, in ItemInput) (Item, error) {
	if err := s.guard(actor); err != nil {
		return Item{}, fmt.Errorf("update item: %w", err)
	}
	it, err := s.repo.Get(ctx, actor.TenantID, id)
	if err != nil {
		return Item{}, fmt.Errorf("update item: %w", err)
	}
	it.SKU = strings.TrimSpace(in.SKU)
	it.Name = strings.TrimSpace(in.Name)
	it.Category = strings.TrimSpace(in.Category)
	it.Stock = in.Stock
	it.SalePrice = in.SalePrice
	it.PurchasePrice = in.PurchasePrice
	it.Unit = strings.TrimSpace(in.Unit)
	it.SupplierID = strings.TrimSpace(in.SupplierID)
	it.LowStockLevel = in.LowStockLevel
	if err := s.repo.Update(ctx, it); err != nil {
		return Item{}, fmt.Errorf("update item: %w", err)
	}
	return it, nil
}

// LowStock returns items at or below their alert threshold.
func (s *Service) LowStock(ctx context.Context, actor shared.Actor) ([]Item, error) {
	if err := s.guard(actor); err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	items, err := s.repo.List(ctx, actor.TenantID)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	var out []Item
	for _, it := range items {
		if !it.PendingDeletion && it.LowOnStock() {
			out = append(out, it)
		}
	}
	return out, nil
}
