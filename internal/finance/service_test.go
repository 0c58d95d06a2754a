package finance

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
)

type memoryLedger struct {
	txs []Transaction
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{}
}

func (r *memoryLedger) Append(ctx context.Context, tx Transaction) error {
	r.txs = append(r.txs, tx)
	return nil
}

func (r *memoryLedger) Get(ctx context.Context, tenantID, id string) (Transaction, error) {
	for _, tx := range r.txs {
		if tx.TenantID == tenantID && tx.ID == id {
			return tx, nil
		}
	}
	return Transaction{}, httpx.ErrNotFound
}

func (r *memoryLedger) ListRange(ctx context.Context, tenantID string, rng Range) ([]Transaction, error) {
	var out []Transaction
	for _, tx := range r.txs {
		if tx.TenantID == tenantID && rng.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *memoryLedger) ListByEmployee(ctx context.Context, tenantID, employeeID string) ([]Transaction, error) {
	var out []Transaction
	for _, tx := range r.txs {
		if tx.TenantID == tenantID && tx.EmployeeID == employeeID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *memoryLedger) ListPendingDeletion(ctx context.Context, tenantID string) ([]Transaction, error) {
	var out []Transaction
	for _, tx := range r.txs {
		if tx.TenantID == tenantID && tx.PendingDeletion {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *memoryLedger) SetPendingDeletion(ctx context.Context, tenantID, id string, pending bool) error {
	for i, tx := range r.txs {
		if tx.TenantID == tenantID && tx.ID == id {
			r.txs[i].PendingDeletion = pending
			return nil
		}
	}
	return nil
}

func (r *memoryLedger) DeleteApproved(ctx context.Context, tenantID, id string) error {
	for i, tx := range r.txs {
		if tx.TenantID == tenantID && tx.ID == id {
			r.txs = append(r.txs[:i], r.txs[i+1:]...)
			return nil
		}
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func financeActor() shared.Actor {
	return shared.Actor{UserID: "usr-1", TenantID: "tenant-1", Role: shared.RoleUser, Permissions: []string{"FINANCE"}}
}

func TestAppendRequiresFinanceModule(t *testing.T) {
	svc := NewService(newMemoryLedger(), testLogger())
	actor := shared.Actor{UserID: "usr-2", TenantID: "tenant-1", Role: shared.RoleUser, Permissions: []string{"SALES"}}

	_, err := svc.Append(context.Background(), actor, AppendInput{Date: "2025-03-01", Category: "Misc", Amount: 10, Type: TxCredit})
	require.ErrorIs(t, err, httpx.ErrForbidden)
}

func TestAppendDefaultsStatusAndAssignsID(t *testing.T) {
	repo := newMemoryLedger()
	svc := NewService(repo, testLogger())

	tx, err := svc.Append(context.Background(), financeActor(), AppendInput{Date: "2025-03-01", Category: "Consulting", Amount: 500, Type: TxCredit})
	require.NoError(t, err)
	require.NotEmpty(t, tx.ID)
	require.Equal(t, StatusCompleted, tx.Status)
	require.Equal(t, "tenant-1", tx.TenantID)
	require.Len(t, repo.txs, 1)
}

func TestSummaryExcludesPendingDeletion(t *testing.T) {
	repo := newMemoryLedger()
	svc := NewService(repo, testLogger())
	actor := financeActor()

	for _, in := range []AppendInput{
		{Date: "2025-03-01", Category: "Sale", Amount: 300, Type: TxCredit},
		{Date: "2025-03-02", Category: "Rent", Amount: -100, Type: TxDebit},
		{Date: "2025-03-03", Category: "Sale", Amount: 200, Type: TxCredit},
	} {
		_, err := svc.Append(context.Background(), actor, in)
		require.NoError(t, err)
	}
	require.NoError(t, repo.SetPendingDeletion(context.Background(), "tenant-1", repo.txs[2].ID, true))

	sum, err := svc.Summary(context.Background(), actor, Range{})
	require.NoError(t, err)
	require.InDelta(t, 200.0, sum.Balance, 1e-9)
	require.InDelta(t, 300.0, sum.Income, 1e-9)
	require.InDelta(t, -100.0, sum.Expense, 1e-9)
}

func TestSummaryRangeIsLexicographicOnISODates(t *testing.T) {
	repo := newMemoryLedger()
	svc := NewService(repo, testLogger())
	actor := financeActor()

	for _, in := range []AppendInput{
		{Date: "2025-01-31", Category: "Jan", Amount: 10, Type: TxCredit},
		{Date: "2025-02-01", Category: "Feb", Amount: 20, Type: TxCredit},
		{Date: "2025-02-28", Category: "Feb", Amount: 30, Type: TxCredit},
		{Date: "2025-03-01", Category: "Mar", Amount: 40, Type: TxCredit},
	} {
		_, err := svc.Append(context.Background(), actor, in)
		require.NoError(t, err)
	}

	sum, err := svc.Summary(context.Background(), actor, Range{From: "2025-02-01", To: "2025-02-28"})
	require.NoError(t, err)
	require.InDelta(t, 50.0, sum.Balance, 1e-9)
}

func TestLedgerHasNoUpdatePath(t *testing.T) {
	repo := newMemoryLedger()
	svc := NewService(repo, testLogger())
	actor := financeActor()

	first, err := svc.Append(context.Background(), actor, AppendInput{Date: "2025-03-01", Category: "Sale", Amount: 100, Type: TxCredit})
	require.NoError(t, err)

	// Corrections land as new entries; the original stays intact.
	_, err = svc.Append(context.Background(), actor, AppendInput{Date: "2025-03-01", Category: "Sale correction", Amount: -100, Type: TxDebit})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), actor, first.ID)
	require.NoError(t, err)
	require.Equal(t, first, got)
	require.Len(t, repo.txs, 2)
}
