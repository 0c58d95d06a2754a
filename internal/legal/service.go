package legal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
	"github.com/solmak-erp/solmak-erp/internal/tenants"
)

// RepositoryPort abstracts document persistence.
type RepositoryPort interface {
	List(ctx context.Context, tenantID string) ([]Document, error)
	ListAllTenants(ctx context.Context) ([]Document, error)
	Get(ctx context.Context, tenantID, id string) (Document, error)
	Insert(ctx context.Context, d Document) error
	Update(ctx context.Context, d Document) error
	Delete(ctx context.Context, tenantID, id string) error
}

// Service manages legal documents and their expiry.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs Service.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// DocumentInput carries create/update fields.
type DocumentInput struct {
	Title      string `json:"title" validate:"required"`
	Type       string `json:"type"`
	ExpiryDate string `json:"expiryDate"`
	Status     string `json:"status" validate:"omitempty,oneof=Active Renewing Expired"`
}

func (s *Service) guard(actor shared.Actor) error {
	if !actor.HasModule(string(tenants.ModuleLegal)) {
		return httpx.ErrForbidden
	}
	return nil
}

// List returns the tenant's documents.
func (s *Service) List(ctx context.Context, actor shared.Actor) ([]Document, error) {
	if err := s.guard(actor); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return s.repo.List(ctx, actor.TenantID)
}

// Create adds a document.
func (s *Service) Create(ctx context.Context, actor shared.Actor, in DocumentInput) (Document, error) {
	if err := s.guard(actor); err != nil {
		return Document{}, fmt.Errorf("create document: %w", err)
	}
	status := in.Status
	if status == "" {
		status = DocActive
	}
	d := Document{
		ID:         shared.NewID("DOC"),
		TenantID:   actor.TenantID,
		Title:      strings.TrimSpace(in.Title),
		Type:       strings.TrimSpace(in.Type),
		ExpiryDate: in.ExpiryDate,
		Status:     status,
	}
	if err := s.repo.Insert(ctx, d); err != nil {
		return Document{}, fmt.Errorf("create document: %w", err)
	}
	return d, nil
}

// Update overwrites a document.
func (s *Service) Update(ctx context.Context, actor shared.Actor, id string, in DocumentInput) (Document, error) {
	if err := s.guard(actor); err != nil {
		return Document{}, fmt.Errorf("update document: %w", err)
	}
	d, err := s.repo.Get(ctx, actor.TenantID, id)
	if err != nil {
		return Document{}, fmt.Errorf("update document: %w", err)
	}
	d.Title = strings.TrimSpace(in.Title)
	d.Type = strings.TrimSpace(in.Type)
	d.ExpiryDate = in.ExpiryDate
	if in.Status != "" {
		d.Status = in.Status
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return Document{}, fmt.Errorf("update document: %w", err)
	}
	return d, nil
}

// Delete removes a document.
func (s *Service) Delete(ctx context.Context, actor shared.Actor, id string) error {
	if err := s.guard(actor); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if err := s.repo.Delete(ctx, actor.TenantID, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// FlagExpired marks every document past its expiry date as Expired,
// across all tenants. The daily job calls this; it returns how many
// documents flipped.
func (s *Service) FlagExpired(ctx context.Context) (int, error) {
	docs, err := s.repo.ListAllTenants(ctx)
	if err != nil {
		return 0, fmt.Errorf("flag expired documents: %w", err)
	}
	today := s.now().Format("2006-01-02")
	flipped := 0
	for _, d := range docs {
		if d.Status == DocExpired || !d.ExpiredBy(today) {
			continue
		}
		d.Status = DocExpired
		if err := s.repo.Update(ctx, d); err != nil {
			return flipped, fmt.Errorf("flag expired documents: %w", err)
		}
		flipped++
		s.logger.InfoContext(ctx, "legal document expired", "doc_id", d.ID, "tenant_id", d.TenantID, "title", d.Title)
	}
	return flipped, nil
}
