package tenants

import (
	"context"
	"strings"
	"time"

	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
)

// RepositoryPort defines data access methods for tenants.
type RepositoryPort interface {
	Get(ctx context.Context, id string) (Tenant, error)
	List(ctx context.Context) ([]Tenant, error)
	Insert(ctx context.Context, t Tenant) error
	UpdateConfig(ctx context.Context, id string, config AppConfig) error
	Count(ctx context.Context) (int, error)
}

// Service handles tenant business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Get returns a tenant by ID. Non-super actors can only read their
// own tenant.
func (s *Service) Get(ctx context.Context, actor shared.Actor, id string) (Tenant, error) {
	if !actor.IsSuperAdmin() && actor.TenantID != id {
		return Tenant{}, httpx.ErrForbidden
	}
	return s.repo.Get(ctx, id)
}

// List returns all tenants. Restricted to SUPER_ADMIN because the
// listing crosses tenant boundaries.
func (s *Service) List(ctx context.Context, actor shared.Actor) ([]Tenant, error) {
	if !actor.IsSuperAdmin() {
		return nil, httpx.ErrForbidden
	}
	return s.repo.List(ctx)
}

// Create registers a new tenant with the full module set enabled.
func (s *Service) Create(ctx context.Context, actor shared.Actor, name string) (Tenant, error) {
	if !actor.IsSuperAdmin() {
		return Tenant{}, httpx.ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Tenant{}, httpx.ErrValidation
	}
	t := Tenant{
		ID:   shared.NewID("tenant"),
		Name: name,
		Config: AppConfig{
			Theme:       "#059669",
			DarkMode:    true,
			Modules:     AllModules(),
			ModuleOrder: AllModules(),
		},
		CreatedAt: time.Now(),
	}
	if err := s.repo.Insert(ctx, t); err != nil {
		return Tenant{}, err
	}
	return t, nil
}

// UpdateConfig applies a partial configuration update. Unknown module
// names are rejected.
func (s *Service) UpdateConfig(ctx context.Context, actor shared.Actor, tenantID string, update ConfigUpdate) (Tenant, error) {
	if err := canManage(actor, tenantID); err != nil {
		return Tenant{}, err
	}
	t, err := s.repo.Get(ctx, tenantID)
	if err != nil {
		return Tenant{}, err
	}
	config := t.Config
	if update.Theme != nil {
		config.Theme = *update.Theme
	}
	if update.DarkMode != nil {
		config.DarkMode = *update.DarkMode
	}
	if update.LogoURL != nil {
		config.LogoURL = *update.LogoURL
	}
	if update.Modules != nil {
		for _, m := range update.Modules {
			if !IsKnownModule(m) {
				return Tenant{}, ErrUnknownModule
			}
		}
		config.Modules = update.Modules
	}
	if update.ModuleOrder != nil {
		for _, m := range update.ModuleOrder {
			if !IsKnownModule(m) {
				return Tenant{}, ErrUnknownModule
			}
		}
		config.ModuleOrder = update.ModuleOrder
	}
	if err := s.repo.UpdateConfig(ctx, tenantID, config); err != nil {
		return Tenant{}, err
	}
	t.Config = config
	return t, nil
}

// Reorder moves a module one slot up or down in the tenant's
// navigation order. Moving past either end is a no-op.
func (s *Service) Reorder(ctx context.Context, actor shared.Actor, tenantID string, module Module, dir Direction) (Tenant, error) {
	if err := canManage(actor, tenantID); err != nil {
		return Tenant{}, err
	}
	t, err := s.repo.Get(ctx, tenantID)
	if err != nil {
		return Tenant{}, err
	}
	order := t.Config.ModuleOrder
	if len(order) == 0 {
		order = t.Config.Modules
	}
	next := ReorderModuleOrder(order, module, dir)
	t.Config.ModuleOrder = next
	if err := s.repo.UpdateConfig(ctx, tenantID, t.Config); err != nil {
		return Tenant{}, err
	}
	return t, nil
}

// canManage allows configuration changes by a SUPER_ADMIN for any
// tenant, or by an ADMIN for their own tenant only.
func canManage(actor shared.Actor, tenantID string) error {
	if actor.IsSuperAdmin() {
		return nil
	}
	if actor.Role != shared.RoleAdmin || actor.TenantID != tenantID {
		return httpx.ErrForbidden
	}
	return nil
}

// EnsureDefault seeds the initial tenant when none exist yet.
func (s *Service) EnsureDefault(ctx context.Context) (Tenant, bool, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return Tenant{}, false, err
	}
	if n > 0 {
		return Tenant{}, false, nil
	}
	t := Tenant{
		ID:   "tenant-1",
		Name: "SolMak ERP",
		Config: AppConfig{
			Theme:       "#059669",
			DarkMode:    true,
			Modules:     AllModules(),
			ModuleOrder: AllModules(),
		},
		CreatedAt: time.Now(),
	}
	if err := s.repo.Insert(ctx, t); err != nil {
		return Tenant{}, false, err
	}
	return t, true, nil
}

// ConfigUpdate carries optional config fields; nil means unchanged.
type ConfigUpdate struct {
	Theme       *string
	DarkMode    *bool
	LogoURL     *string
	Modules     []Module
	ModuleOrder []Module
}
