package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskPayrollGenerate drafts payroll records for the current month.
	TaskPayrollGenerate = "payroll:generate"
	// TaskLegalExpiry flags legal documents past their expiry date.
	TaskLegalExpiry = "legal:expiry"
	// TaskInventoryLowStock reports items at or below their reorder level.
	TaskInventoryLowStock = "inventory:lowstock"
)

// PayrollGeneratePayload optionally pins the payroll month; empty means
// the month the task runs in.
type PayrollGeneratePayload struct {
	Month string `json:"month,omitempty"`
}

// NewPayrollGenerateTask constructs an Asynq task.
func NewPayrollGenerateTask(month string) (*asynq.Task, error) {
	data, err := json.Marshal(PayrollGeneratePayload{Month: month})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPayrollGenerate, data), nil
}

// NewLegalExpiryTask constructs an Asynq task.
func NewLegalExpiryTask() (*asynq.Task, error) {
	return asynq.NewTask(TaskLegalExpiry, nil), nil
}

// NewInventoryLowStockTask constructs an Asynq task.
func NewInventoryLowStockTask() (*asynq.Task, error) {
	return asynq.NewTask(TaskInventoryLowStock, nil), nil
}

func payloadMonth(t *asynq.Task, now func() time.Time) (string, error) {
	var payload PayrollGeneratePayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return "", asynq.SkipRetry
		}
	}
	if payload.Month != "" {
		return payload.Month, nil
	}
	return now().UTC().Format("2006-01"), nil
}
