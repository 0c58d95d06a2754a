package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/solmak-erp/solmak-erp/internal/legal"
)

// LegalExpiryJob flags documents whose expiry date has passed.
type LegalExpiryJob struct {
	legalService *legal.Service
	logger       *slog.Logger
}

func NewLegalExpiryJob(legalService *legal.Service, logger *slog.Logger) *LegalExpiryJob {
	return &LegalExpiryJob{legalService: legalService, logger: logger}
}

// Handle processes TaskLegalExpiry tasks.
func (j *LegalExpiryJob) Handle(ctx context.Context, t *asynq.Task) error {
	flagged, err := j.legalService.FlagExpired(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "legal expiry scan failed", slog.Any("error", err))
		return err
	}
	j.logger.InfoContext(ctx, "legal expiry scan complete", slog.Int("flagged", flagged))
	return nil
}
