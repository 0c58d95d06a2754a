package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/solmak-erp/solmak-erp/internal/hr"
	"github.com/solmak-erp/solmak-erp/internal/shared"
	"github.com/solmak-erp/solmak-erp/internal/tenants"
)

// TenantLister enumerates tenants for cross-tenant jobs.
type TenantLister interface {
	List(ctx context.Context) ([]tenants.Tenant, error)
}

// PayrollGenerateJob drafts the month's payroll for every tenant. A
// redis lock per tenant and month keeps overlapping runs from doing
// the same work twice; generation itself is idempotent either way.
type PayrollGenerateJob struct {
	hrService *hr.Service
	tenantSrc TenantLister
	rdb       *redis.Client
	logger    *slog.Logger
	now       func() time.Time
}

func NewPayrollGenerateJob(hrService *hr.Service, tenantSrc TenantLister, rdb *redis.Client, logger *slog.Logger, now func() time.Time) *PayrollGenerateJob {
	if now == nil {
		now = time.Now
	}
	return &PayrollGenerateJob{hrService: hrService, tenantSrc: tenantSrc, rdb: rdb, logger: logger, now: now}
}

func systemActor(tenantID string) shared.Actor {
	return shared.Actor{UserID: "system", TenantID: tenantID, Role: shared.RoleSuperAdmin}
}

func (j *PayrollGenerateJob) acquireLock(ctx context.Context, tenantID, month string) bool {
	if j.rdb == nil {
		return true
	}
	ok, err := j.rdb.SetNX(ctx, shared.PayrollLockKey(tenantID, month), "1", 10*time.Minute).Result()
	if err != nil {
		j.logger.WarnContext(ctx, "payroll lock unavailable, proceeding",
			slog.String("tenant_id", tenantID), slog.Any("error", err))
		return true
	}
	return ok
}

// Handle processes TaskPayrollGenerate tasks.
func (j *PayrollGenerateJob) Handle(ctx context.Context, t *asynq.Task) error {
	month, err := payloadMonth(t, j.now)
	if err != nil {
		return err
	}
	tns, err := j.tenantSrc.List(ctx)
	if err != nil {
		return err
	}
	for _, tn := range tns {
		if !j.acquireLock(ctx, tn.ID, month) {
			j.logger.InfoContext(ctx, "payroll generation already running",
				slog.String("tenant_id", tn.ID), slog.String("month", month))
			continue
		}
		records, err := j.hrService.GeneratePayroll(ctx, systemActor(tn.ID), month)
		if err != nil {
			j.logger.ErrorContext(ctx, "payroll generation failed",
				slog.String("tenant_id", tn.ID), slog.String("month", month), slog.Any("error", err))
			return err
		}
		j.logger.InfoContext(ctx, "payroll generated",
			slog.String("tenant_id", tn.ID), slog.String("month", month), slog.Int("drafted", len(records)))
	}
	return nil
}
