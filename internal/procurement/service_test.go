package procurement

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solmak-erp/solmak-erp/internal/inventory"
	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
	"github.com/solmak-erp/solmak-erp/internal/suppliers"
)

type memoryPOs struct {
	orders map[string]PurchaseOrder
}

func (r *memoryPOs) Insert(ctx context.Context, po PurchaseOrder) error {
	r.orders[po.ID] = po
	return nil
}

func (r *memoryPOs) Get(ctx context.Context, tenantID, id string) (PurchaseOrder, error) {
	po, ok := r.orders[id]
	if !ok || po.TenantID != tenantID {
		return PurchaseOrder{}, httpx.ErrNotFound
	}
	return po, nil
}

func (r *memoryPOs) List(ctx context.Context, tenantID string) ([]PurchaseOrder, error) {
	var out []PurchaseOrder
	for _, po := range r.orders {
		if po.TenantID == tenantID {
			out = append(out, po)
		}
	}
	return out, nil
}

func (r *memoryPOs) SetStatus(ctx context.Context, tenantID, id, status string) error {
	po, ok := r.orders[id]
	if !ok || po.TenantID != tenantID {
		return httpx.ErrNotFound
	}
	po.Status = status
	r.orders[id] = po
	return nil
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

type memoryDirectory struct {
	vendors map[string]suppliers.Supplier
}

func (r *memoryDirectory) Get(ctx context.Context, tenantID, id string) (suppliers.Supplier, error) {
	sp, ok := r.vendors[id]
	if !ok || sp.TenantID != tenantID {
		return suppliers.Supplier{}, httpx.ErrNotFound
	}
	return sp, nil
}

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newFixture() (*Service, *memoryPOs, *memoryCatalog) {
	repo := &memoryPOs{orders: make(map[string]PurchaseOrder)}
	catalog := &memoryCatalog{items: map[string]inventory.Item{
		"ITM-1": {ID: "ITM-1", TenantID: "tenant-1", Name: "Widget", Stock: 7, PurchasePrice: 80},
	}}
	directory := &memoryDirectory{vendors: map[string]suppliers.Supplier{
		"SUP-1": {ID: "SUP-1", TenantID: "tenant-1", Name: "Paper Co", Status: suppliers.StatusActive},
		"SUP-2": {ID: "SUP-2", TenantID: "tenant-1", Name: "Blocked Co", Status: suppliers.StatusBlocked},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, catalog, directory, passthroughTx, logger), repo, catalog
}

func purchaseActor() shared.Actor {
	return shared.Actor{UserID: "usr-1", TenantID: "tenant-1", Role: shared.RoleUser, Permissions: []string{"PURCHASE"}}
}

func pendingOrder(t *testing.T, svc *Service) PurchaseOrder {
	t.Helper()
	po, err := svc.Create(context.Background(), purchaseActor(), POInput{
		SupplierID:   "SUP-1",
		Date:         "2025-03-12",
		Lines:        []POLineInput{{ItemID: "ITM-1", Name: "Widget", Quantity: 5, UnitPrice: 90}},
		PaymentTerms: TermsCash,
	})
	require.NoError(t, err)
	return po
}

func TestCreateRejectsBlockedSupplier(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.Create(context.Background(), purchaseActor(), POInput{
		SupplierID:   "SUP-2",
		Date:         "2025-03-12",
		Lines:        []POLineInput{{ItemID: "ITM-1", Quantity: 1, UnitPrice: 90}},
		PaymentTerms: TermsCredit,
	})
	require.ErrorIs(t, err, httpx.ErrInvalidState)
}

func TestReceiveIncreasesStockAndOverwritesPurchasePrice(t *testing.T) {
	svc, _, catalog := newFixture()
	po := pendingOrder(t, svc)

	got, err := svc.Receive(context.Background(), purchaseActor(), po.ID)
	require.NoError(t, err)
	require.Equal(t, StatusReceived, got.Status)

	it := catalog.items["ITM-1"]
	require.Equal(t, 12, it.Stock)
	require.InDelta(t, 90.0, it.PurchasePrice, 1e-9)
}

func TestReceiveTwiceIsInvalidState(t *testing.T) {
	svc, _, catalog := newFixture()
	po := pendingOrder(t, svc)

	_, err := svc.Receive(context.Background(), purchaseActor(), po.ID)
	require.NoError(t, err)

	_, err = svc.Receive(context.Background(), purchaseActor(), po.ID)
	require.ErrorIs(t, err, httpx.ErrInvalidState)
	// Stock is booked exactly once.
	require.Equal(t, 12, catalog.items["ITM-1"].Stock)
}

func TestReceiveSkipsRemovedItems(t *testing.T) {
	svc, _, catalog := newFixture()
	po, err := svc.Create(context.Background(), purchaseActor(), POInput{
		SupplierID: "SUP-1",
		Date:       "2025-03-12",
		Lines: []POLineInput{
			{ItemID: "ITM-gone", Quantity: 4, UnitPrice: 10},
			{ItemID: "ITM-1", Quantity: 5, UnitPrice: 90},
		},
		PaymentTerms: TermsCash,
	})
	require.NoError(t, err)

	got, err := svc.Receive(context.Background(), purchaseActor(), po.ID)
	require.NoError(t, err)
	require.Equal(t, StatusReceived, got.Status)
	require.Equal(t, 12, catalog.items["ITM-1"].Stock)
}

func TestCancelOnlyFromPending(t *testing.T) {
	svc, _, _ := newFixture()
	po := pendingOrder(t, svc)

	_, err := svc.Receive(context.Background(), purchaseActor(), po.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), purchaseActor(), po.ID)
	require.ErrorIs(t, err, httpx.ErrInvalidState)
}

func TestCreateComputesTotal(t *testing.T) {
	svc, _, _ := newFixture()
	po := pendingOrder(t, svc)
	require.InDelta(t, 450.0, po.Total, 1e-9)
	require.Equal(t, StatusPending, po.Status)
	require.Equal(t, "Paper Co", po.SupplierName)
}
