package users

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
	"github.com/solmak-erp/solmak-erp/internal/tenants"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	List(ctx context.Context, tenantID string) ([]User, error)
	Get(ctx context.Context, tenantID, id string) (User, error)
	FindByEmail(ctx context.Context, tenantID, email string) (User, error)
	Insert(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
	SetPermissions(ctx context.Context, tenantID, id string, permissions []string) error
	Delete(ctx context.Context, tenantID, id string) error
}

// Service handles user management business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateInput describes a new user account.
type CreateInput struct {
	Name        string
	Email       string
	Password    string
	Role        shared.Role
	Permissions []string
	ThemeColor  string
	Layout      string
}

// List returns the tenant's users.
func (s *Service) List(ctx context.Context, actor shared.Actor) ([]User, error) {
	return s.repo.List(ctx, actor.TenantID)
}

// Get returns one user of the actor's tenant.
func (s *Service) Get(ctx context.Context, actor shared.Actor, id string) (User, error) {
	return s.repo.Get(ctx, actor.TenantID, id)
}

// Create adds a user to the actor's tenant. Only admins may create
// users, and only a SUPER_ADMIN may create another SUPER_ADMIN.
func (s *Service) Create(ctx context.Context, actor shared.Actor, input CreateInput) (User, error) {
	if actor.Role != shared.RoleSuperAdmin && actor.Role != shared.RoleAdmin {
		return User{}, httpx.ErrForbidden
	}
	if input.Role == shared.RoleSuperAdmin && !actor.IsSuperAdmin() {
		return User{}, httpx.ErrForbidden
	}
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || input.Email == "" || len(input.Password) < 8 {
		return User{}, httpx.ErrValidation
	}
	if err := validatePermissions(input.Permissions); err != nil {
		return User{}, err
	}
	if err := checkGrantScope(actor, input.Permissions); err != nil {
		return User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	u := User{
		ID:           shared.NewID("usr"),
		TenantID:     actor.TenantID,
		Name:         input.Name,
		Email:        input.Email,
		Role:         input.Role,
		Permissions:  input.Permissions,
		ThemeColor:   input.ThemeColor,
		Layout:       input.Layout,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if u.Role == "" {
		u.Role = shared.RoleUser
	}
	if err := s.repo.Insert(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// UpdateProfile lets a user change their own presentation settings, or
// an admin change anyone's.
func (s *Service) UpdateProfile(ctx context.Context, actor shared.Actor, id string, name, themeColor, layout string) (User, error) {
	if actor.UserID != id && actor.Role != shared.RoleSuperAdmin && actor.Role != shared.RoleAdmin {
		return User{}, httpx.ErrForbidden
	}
	u, err := s.repo.Get(ctx, actor.TenantID, id)
	if err != nil {
		return User{}, err
	}
	if name = strings.TrimSpace(name); name != "" {
		u.Name = name
	}
	if themeColor != "" {
		u.ThemeColor = themeColor
	}
	if layout != "" {
		u.Layout = layout
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// SetPermissions replaces a user's permission set wholesale. A
// non-SUPER_ADMIN actor may only grant modules they hold themselves;
// granting beyond one's own scope is rejected.
func (s *Service) SetPermissions(ctx context.Context, actor shared.Actor, id string, modules []string) error {
	if actor.Role != shared.RoleSuperAdmin && actor.Role != shared.RoleAdmin {
		return httpx.ErrForbidden
	}
	if err := validatePermissions(modules); err != nil {
		return err
	}
	if err := checkGrantScope(actor, modules); err != nil {
		return err
	}
	return s.repo.SetPermissions(ctx, actor.TenantID, id, modules)
}

// Delete removes a user. SUPER_ADMIN accounts are exempt from deletion.
func (s *Service) Delete(ctx context.Context, actor shared.Actor, id string) error {
	if actor.Role != shared.RoleSuperAdmin && actor.Role != shared.RoleAdmin {
		return httpx.ErrForbidden
	}
	u, err := s.repo.Get(ctx, actor.TenantID, id)
	if err != nil {
		return err
	}
	if u.Role == shared.RoleSuperAdmin {
		return httpx.ErrForbidden
	}
	return s.repo.Delete(ctx, actor.TenantID, id)
}

// Authenticate validates credentials and returns the matching user.
func (s *Service) Authenticate(ctx context.Context, tenantID, email, password string) (User, error) {
	u, err := s.repo.FindByEmail(ctx, tenantID, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return User{}, shared.ErrInvalidCredentials
	}
	if !u.IsActive {
		return User{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, shared.ErrInvalidCredentials
	}
	return u, nil
}

func validatePermissions(modules []string) error {
	for _, m := range modules {
		if !tenants.IsKnownModule(tenants.Module(m)) {
			return httpx.ErrValidation
		}
	}
	return nil
}

// checkGrantScope enforces that a non-super actor cannot hand out
// modules outside their own permission set.
func checkGrantScope(actor shared.Actor, modules []string) error {
	if actor.IsSuperAdmin() {
		return nil
	}
	for _, m := range modules {
		if !actor.HasModule(m) {
			return httpx.ErrForbidden
		}
	}
	return nil
}
