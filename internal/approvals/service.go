package approvals

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/solmak-erp/solmak-erp/internal/finance"
	"github.com/solmak-erp/solmak-erp/internal/inventory"
	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
	"github.com/solmak-erp/solmak-erp/internal/suppliers"
)

// Resource names a deletable record kind.
type Resource string

const (
	ResourceTransaction Resource = "transaction"
	ResourceItem        Resource = "inventoryItem"
	ResourceSupplier    Resource = "supplier"
)

// Decision resolves a pending request one way or the other.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// LedgerPort is the slice of the finance repository the approval queue
// needs.
type LedgerPort interface {
	ListPendingDeletion(ctx context.Context, tenantID string) ([]finance.Transaction, error)
	SetPendingDeletion(ctx context.Context, tenantID, id string, pending bool) error
	DeleteApproved(ctx context.Context, tenantID, id string) error
}

// CatalogPort is the slice of the inventory repository the approval
// queue needs.
type CatalogPort interface {
	ListPendingDeletion(ctx context.Context, tenantID string) ([]inventory.Item, error)
	SetPendingDeletion(ctx context.Context, tenantID, id string, pending bool) error
	DeleteApproved(ctx context.Context, tenantID, id string) error
}

// DirectoryPort is the slice of the suppliers repository the approval
// queue needs.
type DirectoryPort interface {
	ListPendingDeletion(ctx context.Context, tenantID string) ([]suppliers.Supplier, error)
	SetPendingDeletion(ctx context.Context, tenantID, id string, pending bool) error
	DeleteApproved(ctx context.Context, tenantID, id string) error
}

// Auditor records who asked for and who resolved each deletion.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// PendingItem is one entry in the approval queue.
type PendingItem struct {
	Resource Resource `json:"resource"`
	ID       string   `json:"id"`
	Label    string   `json:"label"`
}

// Service implements the two-phase deletion workflow. Records are never
// removed directly; a request marks them pending and a super admin
// resolves the request.
type Service struct {
	ledger    LedgerPort
	catalog   CatalogPort
	directory DirectoryPort
	audit     Auditor
	logger    *slog.Logger
}

// NewService constructs Service.
func NewService(ledger LedgerPort, catalog CatalogPort, directory DirectoryPort, audit Auditor, logger *slog.Logger) *Service {
	return &Service{ledger: ledger, catalog: catalog, directory: directory, audit: audit, logger: logger}
}

func (s *Service) store(res Resource) (interface {
	SetPendingDeletion(ctx context.Context, tenantID, id string, pending bool) error
	DeleteApproved(ctx context.Context, tenantID, id string) error
}, error) {
	switch res {
	case ResourceTransaction:
		return s.ledger, nil
	case ResourceItem:
		return s.catalog, nil
	case ResourceSupplier:
		return s.directory, nil
	default:
		return nil, fmt.Errorf("resource %q: %w", res, httpx.ErrValidation)
	}
}

// RequestDeletion flags a record for removal. Any authenticated user
// of the tenant may request; the record only disappears once a super
// admin approves. Requesting an ID that no longer exists is a silent
// no-op; a repeated request is idempotent.
func (s *Service) RequestDeletion(ctx context.Context, actor shared.Actor, res Resource, id string) error {
	store, err := s.store(res)
	if err != nil {
		return err
	}
	if err := store.SetPendingDeletion(ctx, actor.TenantID, id, true); err != nil {
		return fmt.Errorf("request deletion: %w", err)
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		TenantID: actor.TenantID,
		ActorID:  actor.UserID,
		Action:   "deletion.requested",
		Entity:   string(res),
		EntityID: id,
	}); err != nil {
		s.logger.WarnContext(ctx, "audit write failed", "error", err)
	}
	return nil
}

// ListPending returns the tenant's approval queue. Only admins and
// super admins see it.
func (s *Service) ListPending(ctx context.Context, actor shared.Actor) ([]PendingItem, error) {
	if actor.Role != shared.RoleAdmin && !actor.IsSuperAdmin() {
		return nil, fmt.Errorf("list pending deletions: %w", httpx.ErrForbidden)
	}
	txs, err := s.ledger.ListPendingDeletion(ctx, actor.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list pending deletions: %w", err)
	}
	items, err := s.catalog.ListPendingDeletion(ctx, actor.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list pending deletions: %w", err)
	}
	out := make([]PendingItem, 0, len(txs)+len(items))
	for _, tx := range txs {
		out = append(out, PendingItem{Resource: ResourceTransaction, ID: tx.ID, Label: tx.Category})
	}
	for _, it := range items {
		out = append(out, PendingItem{Resource: ResourceItem, ID: it.ID, Label: it.Name})
	}
	vendors, err := s.directory.ListPendingDeletion(ctx, actor.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list pending deletions: %w", err)
	}
	for _, sp := range vendors {
		out = append(out, PendingItem{Resource: ResourceSupplier, ID: sp.ID, Label: sp.Name})
	}
	return out, nil
}

// Resolve finishes a pending request. Approval deletes the record for
// good; rejection restores it. Only a super admin may resolve, and a
// resolved request leaves the queue permanently.
func (s *Service) Resolve(ctx context.Context, actor shared.Actor, res Resource, id string, decision Decision) error {
	if !actor.IsSuperAdmin() {
		return fmt.Errorf("resolve deletion: %w", httpx.ErrForbidden)
	}
	store, err := s.store(res)
	if err != nil {
		return err
	}
	var action string
	switch decision {
	case DecisionApprove:
		if err := store.DeleteApproved(ctx, actor.TenantID, id); err != nil {
			return fmt.Errorf("resolve deletion: %w", err)
		}
		action = "deletion.approved"
	case DecisionReject:
		if err := store.SetPendingDeletion(ctx, actor.TenantID, id, false); err != nil {
			return fmt.Errorf("resolve deletion: %w", err)
		}
		action = "deletion.rejected"
	default:
		return fmt.Errorf("decision %q: %w", decision, httpx.ErrValidation)
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		TenantID: actor.TenantID,
		ActorID:  actor.UserID,
		Action:   action,
		Entity:   string(res),
		EntityID: id,
	}); err != nil {
		s.logger.WarnContext(ctx, "audit write failed", "error", err)
	}
	s.logger.InfoContext(ctx, "deletion resolved", "resource", res, "id", id, "decision", decision)
	return nil
}
