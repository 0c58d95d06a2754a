package sales

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solmak-erp/solmak-erp/internal/finance"
	"github.com/solmak-erp/solmak-erp/internal/inventory"
	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
)

type memorySales struct {
	records map[string]SaleRecord
}

func (r *memorySales) Insert(ctx context.Context, sr SaleRecord) error {
	r.records[sr.ID] = sr
	return nil
}

func (r *memorySales) Get(ctx context.Context, tenantID, id string) (SaleRecord, error) {
	sr, ok := r.records[id]
	if !ok || sr.TenantID != tenantID {
		return SaleRecord{}, httpx.ErrNotFound
	}
	return sr, nil
}

func (r *memorySales) List(ctx context.Context, tenantID string) ([]SaleRecord, error) {
	var out []SaleRecord
	for _, sr := range r.records {
		if sr.TenantID == tenantID {
			out = append(out, sr)
		}
	}
	return out, nil
}

type memoryCatalog struct {
	items map[string]inventory.Item
}

func (r *memoryCatalog) Get(ctx context.Context, tenantID, id string) (inventory.Item, error) {
	it, ok := r.items[id]
	if !ok || it.TenantID != tenantID {
		return inventory.Item{}, httpx.ErrNotFound
	}
	return it, nil
}

func (r *memoryCatalog) Update(ctx context.Context, it inventory.Item) error {
	r.items[it.ID] = it
	return nil
}

type memoryLedger struct {
	txs []finance.Transaction
}

func (r *memoryLedger) AppendSystem(ctx context.Context, tenantID string, tx finance.Transaction) (finance.Transaction, error) {
	if tx.ID == "" {
		tx.ID = shared.NewID("TXN")
	}
	tx.TenantID = tenantID
	r.txs = append(r.txs, tx)
	return tx, nil
}

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newFixture() (*Service, *memorySales, *memoryCatalog, *memoryLedger) {
	repo := &memorySales{records: make(map[string]SaleRecord)}
	catalog := &memoryCatalog{items: map[string]inventory.Item{
		"ITM-1": {ID: "ITM-1", TenantID: "tenant-1", Name: "Widget", Stock: 10, SalePrice: 100},
		"ITM-2": {ID: "ITM-2", TenantID: "tenant-1", Name: "Gadget", Stock: 2, SalePrice: 50},
	}}
	ledger := &memoryLedger{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, catalog, ledger, passthroughTx, logger), repo, catalog, ledger
}

func salesActor() shared.Actor {
	return shared.Actor{UserID: "usr-1", TenantID: "tenant-1", Role: shared.RoleUser, Permissions: []string{"SALES"}}
}

func TestRecordSaleDeductsStockAndCreditsLedger(t *testing.T) {
	svc, repo, catalog, ledger := newFixture()

	sr, err := svc.Record(context.Background(), salesActor(), SaleInput{
		Date:     "2025-03-10",
		Customer: "Acme Ltd",
		Lines:    []SaleLineInput{{ItemID: "ITM-1", Quantity: 3, UnitPrice: 100}},
	})
	require.NoError(t, err)

	require.Equal(t, 7, catalog.items["ITM-1"].Stock)
	require.InDelta(t, 300.0, sr.Total, 1e-9)
	require.Equal(t, finance.StatusPaid, sr.Status)

	require.Len(t, ledger.txs, 1)
	tx := ledger.txs[0]
	require.Equal(t, finance.TxCredit, tx.Type)
	require.InDelta(t, 300.0, tx.Amount, 1e-9)
	require.Equal(t, "Sale: Acme Ltd", tx.Category)
	require.Equal(t, tx.ID, sr.TxID)

	require.Contains(t, repo.records, sr.ID)
}

func TestRecordSaleClampsOversoldStockAtZero(t *testing.T) {
	svc, _, catalog, ledger := newFixture()

	sr, err := svc.Record(context.Background(), salesActor(), SaleInput{
		Date:     "2025-03-10",
		Customer: "Walk-in",
		Lines:    []SaleLineInput{{ItemID: "ITM-2", Quantity: 5, UnitPrice: 50}},
	})
	require.NoError(t, err)

	require.Equal(t, 0, catalog.items["ITM-2"].Stock)
	// The sale still books the requested quantity.
	require.InDelta(t, 250.0, sr.Total, 1e-9)
	require.Len(t, ledger.txs, 1)
}

func TestRecordSaleSkipsUnmatchedLinesForStock(t *testing.T) {
	svc, repo, catalog, ledger := newFixture()

	sr, err := svc.Record(context.Background(), salesActor(), SaleInput{
		Date:     "2025-03-10",
		Customer: "Acme Ltd",
		Lines: []SaleLineInput{
			{ItemID: "ITM-missing", Quantity: 1, UnitPrice: 40},
			{ItemID: "ITM-1", Quantity: 1, UnitPrice: 100},
		},
	})
	require.NoError(t, err)

	// The unmatched line still sells; only stock tracking skipped it.
	require.InDelta(t, 140.0, sr.Total, 1e-9)
	require.Equal(t, 9, catalog.items["ITM-1"].Stock)
	require.Len(t, ledger.txs, 1)
	require.Contains(t, repo.records, sr.ID)
}

func TestRecordSaleRequiresSalesModule(t *testing.T) {
	svc, _, _, _ := newFixture()
	actor := shared.Actor{UserID: "usr-2", TenantID: "tenant-1", Role: shared.RoleUser, Permissions: []string{"FINANCE"}}

	_, err := svc.Record(context.Background(), actor, SaleInput{Date: "2025-03-10", Customer: "x", Lines: []SaleLineInput{{ItemID: "ITM-1", Quantity: 1, UnitPrice: 100}}})
	require.ErrorIs(t, err, httpx.ErrForbidden)
}
