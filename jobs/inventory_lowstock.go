package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/solmak-erp/solmak-erp/internal/inventory"
)

// InventoryLowStockJob logs items at or below their reorder level so
// operators can act on the worker's output or alerting pipeline.
type InventoryLowStockJob struct {
	invService *inventory.Service
	tenantSrc  TenantLister
	logger     *slog.Logger
}

func NewInventoryLowStockJob(invService *inventory.Service, tenantSrc TenantLister, logger *slog.Logger) *InventoryLowStockJob {
	return &InventoryLowStockJob{invService: invService, tenantSrc: tenantSrc, logger: logger}
}

// Handle processes TaskInventoryLowStock tasks.
func (j *InventoryLowStockJob) Handle(ctx context.Context, t *asynq.Task) error {
	tns, err := j.tenantSrc.List(ctx)
	if err != nil {
		return err
	}
	for _, tn := range tns {
		items, err := j.invService.LowStock(ctx, systemActor(tn.ID))
		if err != nil {
			j.logger.ErrorContext(ctx, "low stock scan failed",
				slog.String("tenant_id", tn.ID), slog.Any("error", err))
			return err
		}
		for _, it := range items {
			j.logger.WarnContext(ctx, "item low on stock",
				slog.String("tenant_id", tn.ID),
				slog.String("item_id", it.ID),
				slog.String("name", it.Name),
				slog.Int("stock", it.Stock),
				slog.Int("reorder_level", it.LowStockLevel))
		}
	}
	return nil
}
