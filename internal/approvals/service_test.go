package approvals

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
	"github.com/solmak-erp/solmak-erp/internal/suppliers"
)

type memoryLedger struct {
	txs map[string]finance.Transaction
}

func (r *memoryLedger) ListPendingDeletion(ctx context.Context, tenantID string) ([]finance.Transaction, error) {
	var out []finance.Transaction
	for _, tx := range r.txs {
		if tx.TenantID == tenantID && tx.PendingDeletion {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *memoryLedger) SetPendingDeletion(ctx context.Context, tenantID, id string, pending bool) error {
	tx, ok := r.txs[id]
	if !ok || tx.TenantID != tenantID {
		return nil
	}
	tx.PendingDeletion = pending
	r.txs[id] = tx
	return nil
}

func (r *memoryLedger) DeleteApproved(ctx context.Context, tenantID, id string) error {
	delete(r.txs, id)
	return nil
}

type memoryCatalog struct {
	items map[string]inventory.Item
}

func (r *memoryCatalog) ListPendingDeletion(ctx context.Context, tenantID string) ([]inventory.Item, error) {
	var out []inventory.Item
	for _, it := range r.items {
		if it.TenantID == tenantID && it.PendingDeletion {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *memoryCatalog) SetPendingDeletion(ctx context.Context, tenantID, id string, pending bool) error {
	it, ok := r.items[id]
	if !ok || it.TenantID != tenantID {
		return nil
	}
	it.PendingDeletion = pending
	r.items[id] = it
	return nil
}

func (r *memoryCatalog) DeleteApproved(ctx context.Context, tenantID, id string) error {
	delete(r.items, id)
	return nil
}

type memoryDirectory struct {
	vendors map[string]suppliers.Supplier
}

func (r *memoryDirectory) ListPendingDeletion(ctx context.Context, tenantID string) ([]suppliers.Supplier, error) {
	var out []suppliers.Supplier
	for _, sp := range r.vendors {
		if sp.TenantID == tenantID && sp.PendingDeletion {
			out = append(out, sp)
		}
	}
	return out, nil
}

func (r *memoryDirectory) SetPendingDeletion(ctx context.Context, tenantID, id string, pending bool) error {
	sp, ok := r.vendors[id]
	if !ok || sp.TenantID != tenantID {
		return nil
	}
	sp.PendingDeletion = pending
	r.vendors[id] = sp
	return nil
}

func (r *memoryDirectory) DeleteApproved(ctx context.Context, tenantID, id string) error {
	delete(r.vendors, id)
	return nil
}

type memoryAuditor struct {
	logs []shared.AuditLog
}

func (a *memoryAuditor) Record(ctx context.Context, log shared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func newFixture() (*Service, *memoryLedger, *memoryCatalog, *memoryAuditor) {
	ledger := &memoryLedger{txs: map[string]finance.Transaction{
		"TXN-1": {ID: "TXN-1", TenantID: "tenant-1", Category: "Rent", Amount: -100, Type: finance.TxDebit},
	}}
	catalog := &memoryCatalog{items: map[string]inventory.Item{
		"ITM-1": {ID: "ITM-1", TenantID: "tenant-1", Name: "Printer paper", Stock: 40},
	}}
	directory := &memoryDirectory{vendors: map[string]suppliers.Supplier{
		"SUP-1": {ID: "SUP-1", TenantID: "tenant-1", Name: "Paper Co", Status: suppliers.StatusActive},
	}}
	audit := &memoryAuditor{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(ledger, catalog, directory, audit, logger), ledger, catalog, audit
}

func userActor() shared.Actor {
	return shared.Actor{UserID: "usr-1", TenantID: "tenant-1", Role: shared.RoleUser, Permissions: []string{"FINANCE", "INVENTORY"}}
}

func superActor() shared.Actor {
	return shared.Actor{UserID: "usr-root", TenantID: "tenant-1", Role: shared.RoleSuperAdmin}
}

func TestRequestDeletionMarksPending(t *testing.T) {
	svc, ledger, _, audit := newFixture()

	require.NoError(t, svc.RequestDeletion(context.Background(), userActor(), ResourceTransaction, "TXN-1"))
	require.True(t, ledger.txs["TXN-1"].PendingDeletion)
	require.Len(t, audit.logs, 1)
	require.Equal(t, "deletion.requested", audit.logs[0].Action)
}

func TestRequestDeletionOpenToAnyAuthenticatedRole(t *testing.T) {
	svc, ledger, _, _ := newFixture()

	// No module permissions at all; requesting must still work.
	actor := shared.Actor{UserID: "usr-2", TenantID: "tenant-1", Role: shared.RoleUser}
	require.NoError(t, svc.RequestDeletion(context.Background(), actor, ResourceTransaction, "TXN-1"))
	require.True(t, ledger.txs["TXN-1"].PendingDeletion)
}

func TestRequestDeletionMissingRecordIsNoOp(t *testing.T) {
	svc, ledger, _, _ := newFixture()

	require.NoError(t, svc.RequestDeletion(context.Background(), userActor(), ResourceTransaction, "TXN-gone"))
	require.Len(t, ledger.txs, 1)
}

func TestRequestDeletionIsIdempotent(t *testing.T) {
	svc, ledger, _, _ := newFixture()
	actor := userActor()

	require.NoError(t, svc.RequestDeletion(context.Background(), actor, ResourceTransaction, "TXN-1"))
	require.NoError(t, svc.RequestDeletion(context.Background(), actor, ResourceTransaction, "TXN-1"))
	require.True(t, ledger.txs["TXN-1"].PendingDeletion)

	pending, err := svc.ListPending(context.Background(), superActor())
	require.NoError(t, err)
	require.Len(t, pending, 1)
}

func TestResolveRequiresSuperAdmin(t *testing.T) {
	svc, _, _, _ := newFixture()
	admin := shared.Actor{UserID: "usr-a", TenantID: "tenant-1", Role: shared.RoleAdmin}

	err := svc.Resolve(context.Background(), admin, ResourceTransaction, "TXN-1", DecisionApprove)
	require.ErrorIs(t, err, httpx.ErrForbidden)
}

func TestApproveRemovesRecordPermanently(t *testing.T) {
	svc, ledger, _, audit := newFixture()
	require.NoError(t, svc.RequestDeletion(context.Background(), userActor(), ResourceTransaction, "TXN-1"))

	require.NoError(t, svc.Resolve(context.Background(), superActor(), ResourceTransaction, "TXN-1", DecisionApprove))
	require.NotContains(t, ledger.txs, "TXN-1")
	require.Equal(t, "deletion.approved", audit.logs[len(audit.logs)-1].Action)

	pending, err := svc.ListPending(context.Background(), superActor())
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestRejectRestoresRecord(t *testing.T) {
	svc, _, catalog, _ := newFixture()
	require.NoError(t, svc.RequestDeletion(context.Background(), userActor(), ResourceItem, "ITM-1"))

	require.NoError(t, svc.Resolve(context.Background(), superActor(), ResourceItem, "ITM-1", DecisionReject))
	it := catalog.items["ITM-1"]
	require.False(t, it.PendingDeletion)

	pending, err := svc.ListPending(context.Background(), superActor())
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestListPendingRequiresAdmin(t *testing.T) {
	svc, _, _, _ := newFixture()

	_, err := svc.ListPending(context.Background(), userActor())
	require.ErrorIs(t, err, httpx.ErrForbidden)
}
