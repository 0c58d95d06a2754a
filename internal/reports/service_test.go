package reports

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/solmak-erp/solmak-erp/internal/finance"
	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/sales"
	"github.com/solmak-erp/solmak-erp/internal/shared"
	"github.com/solmak-erp/solmak-erp/internal/tenants"
)

type memoryLedger struct {
	txs []finance.Transaction
}

func (r *memoryLedger) ListRange(ctx context.Context, tenantID string, rng finance.Range) ([]finance.Transaction, error) {
	var out []finance.Transaction
	for _, tx := range r.txs {
		if tx.TenantID == tenantID && rng.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out, nil
}

type memorySales struct {
	records []sales.SaleRecord
}

func (r *memorySales) List(ctx context.Context, tenantID string) ([]sales.SaleRecord, error) {
	var out []sales.SaleRecord
	for _, sr := range r.records {
		if sr.TenantID == tenantID {
			out = append(out, sr)
		}
	}
	return out, nil
}

func reportsActor() shared.Actor {
	return shared.Actor{
		UserID:      "USR-1",
		TenantID:    "tenant-1",
		Role:        shared.RoleUser,
		Permissions: []string{string(tenants.ModuleReports)},
	}
}

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixtureLedger() *memoryLedger {
	return &memoryLedger{txs: []finance.Transaction{
		{ID: "TXN-1", TenantID: "tenant-1", Date: "2025-02-01", Category: "Sale: Acme", Amount: 500, Type: finance.TxCredit, Status: finance.StatusCompleted},
		{ID: "TXN-2", TenantID: "tenant-1", Date: "2025-02-10", Category: "Rent", Amount: -200, Type: finance.TxDebit, Status: finance.StatusCompleted},
	}}
}

func fixtureSales() *memorySales {
	return &memorySales{records: []sales.SaleRecord{
		{ID: "SALE-1", TenantID: "tenant-1", Date: "2025-02-01", Customer: "Acme", Total: 500, Status: finance.StatusPaid},
		{ID: "SALE-2", TenantID: "tenant-1", Date: "2025-02-03", Customer: "Globex", Total: 120, Status: finance.StatusPending},
	}}
}

func TestSalesSummaryCountsUnpaidOrders(t *testing.T) {
	svc := NewService(fixtureLedger(), fixtureSales(), nil, time.Minute, quietLogger())

	sum, err := svc.SalesSummary(context.Background(), reportsActor())
	require.NoError(t, err)
	require.Equal(t, 2, sum.OrderCount)
	require.Equal(t, 1, sum.UnpaidCount)
	require.InDelta(t, 620, sum.TotalRevenue, 0.001)
}

func TestFinanceSummaryIsServedFromCache(t *testing.T) {
	ledger := fixtureLedger()
	svc := NewService(ledger, fixtureSales(), testRedis(t), time.Minute, quietLogger())
	actor := reportsActor()

	first, err := svc.FinanceSummary(context.Background(), actor, finance.Range{})
	require.NoError(t, err)
	require.InDelta(t, 300, first.Balance, 0.001)

	// New ledger activity is invisible until the cache entry expires.
	ledger.txs = append(ledger.txs, finance.Transaction{
		ID: "TXN-3", TenantID: "tenant-1", Date: "2025-02-20", Amount: 1000, Type: finance.TxCredit,
	})
	second, err := svc.FinanceSummary(context.Background(), actor, finance.Range{})
	require.NoError(t, err)
	require.InDelta(t, first.Balance, second.Balance, 0.001)
}

func TestOverviewCombinesBothSummaries(t *testing.T) {
	svc := NewService(fixtureLedger(), fixtureSales(), nil, time.Minute, quietLogger())

	out, err := svc.Overview(context.Background(), reportsActor(), finance.Range{})
	require.NoError(t, err)
	require.InDelta(t, 300, out.Finance.Balance, 0.001)
	require.Equal(t, 2, out.Sales.OrderCount)
}

func TestExportLedgerXLSXWritesRows(t *testing.T) {
	svc := NewService(fixtureLedger(), fixtureSales(), nil, time.Minute, quietLogger())

	data, err := svc.ExportLedgerXLSX(context.Background(), reportsActor(), finance.Range{})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Ledger")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Date", rows[0][0])
	require.Equal(t, "Rent", rows[2][1])
}

func TestSummariesRequireReportsModule(t *testing.T) {
	svc := NewService(fixtureLedger(), fixtureSales(), nil, time.Minute, quietLogger())
	actor := reportsActor()
	actor.Permissions = []string{string(tenants.ModuleSales)}

	_, err := svc.SalesSummary(context.Background(), actor)
	require.ErrorIs(t, err, httpx.ErrForbidden)
	_, err = svc.FinanceSummary(context.Background(), actor, finance.Range{})
	require.ErrorIs(t, err, httpx.ErrForbidden)
}
