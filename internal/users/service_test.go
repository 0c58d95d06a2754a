package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
)

type memoryUserRepo struct {
	users map[string]User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]User)}
}

func (r *memoryUserRepo) List(ctx context.Context, tenantID string) ([]User, error) {
	var out []User
	for _, u := range r.users {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memoryUserRepo) Get(ctx context.Context, tenantID, id string) (User, error) {
	u, ok := r.users[id]
	if !ok || u.TenantID != tenantID {
		return User{}, httpx.ErrNotFound
	}
	return u, nil
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, tenantID, email string) (User, error) {
	for _, u := range r.users {
		if u.TenantID == tenantID && u.Email == email {
			return u, nil
		}
	}
	return User{}, httpx.ErrNotFound
}

func (r *memoryUserRepo) Insert(ctx context.Context, u User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memoryUserRepo) Update(ctx context.Context, u User) error {
	if _, ok := r.users[u.ID]; !ok {
		return httpx.ErrNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *memoryUserRepo) SetPermissions(ctx context.Context, tenantID, id string, permissions []string) error {
	u, ok := r.users[id]
	if !ok || u.TenantID != tenantID {
		return httpx.ErrNotFound
	}
	u.Permissions = permissions
	r.users[id] = u
	return nil
}

func (r *memoryUserRepo) Delete(ctx context.Context, tenantID, id string) error {
	u, ok := r.users[id]
	if !ok || u.TenantID != tenantID {
		return httpx.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func adminActor() shared.Actor {
	return shared.Actor{UserID: "usr-admin", TenantID: "tenant-1", Role: shared.RoleAdmin, Permissions: []string{"DASHBOARD", "FINANCE"}}
}

func superActor() shared.Actor {
	return shared.Actor{UserID: "usr-root", TenantID: "tenant-1", Role: shared.RoleSuperAdmin}
}

func TestSetPermissionsRejectsGrantBeyondOwnScope(t *testing.T) {
	repo := newMemoryUserRepo()
	repo.users["usr-1"] = User{ID: "usr-1", TenantID: "tenant-1", Role: shared.RoleUser}
	svc := NewService(repo)

	err := svc.SetPermissions(context.Background(), adminActor(), "usr-1", []string{"FINANCE", "INVENTORY"})
	require.ErrorIs(t, err, httpx.ErrForbidden)

	err = svc.SetPermissions(context.Background(), adminActor(), "usr-1", []string{"FINANCE"})
	require.NoError(t, err)
	require.Equal(t, []string{"FINANCE"}, repo.users["usr-1"].Permissions)
}

func TestSetPermissionsSuperAdminMayGrantAnything(t *testing.T) {
	repo := newMemoryUserRepo()
	repo.users["usr-1"] = User{ID: "usr-1", TenantID: "tenant-1", Role: shared.RoleUser}
	svc := NewService(repo)

	err := svc.SetPermissions(context.Background(), superActor(), "usr-1", []string{"INVENTORY", "SUPER_ADMIN"})
	require.NoError(t, err)
}

func TestSetPermissionsRejectsUnknownModule(t *testing.T) {
	repo := newMemoryUserRepo()
	repo.users["usr-1"] = User{ID: "usr-1", TenantID: "tenant-1", Role: shared.RoleUser}
	svc := NewService(repo)

	err := svc.SetPermissions(context.Background(), superActor(), "usr-1", []string{"NOT_A_MODULE"})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestDeleteSuperAdminIsForbidden(t *testing.T) {
	repo := newMemoryUserRepo()
	repo.users["usr-root"] = User{ID: "usr-root", TenantID: "tenant-1", Role: shared.RoleSuperAdmin}
	repo.users["usr-2"] = User{ID: "usr-2", TenantID: "tenant-1", Role: shared.RoleUser}
	svc := NewService(repo)

	err := svc.Delete(context.Background(), superActor(), "usr-root")
	require.ErrorIs(t, err, httpx.ErrForbidden)

	err = svc.Delete(context.Background(), superActor(), "usr-2")
	require.NoError(t, err)
	_, exists := repo.users["usr-2"]
	require.False(t, exists)
}

func TestDeleteRequiresAdminRole(t *testing.T) {
	repo := newMemoryUserRepo()
	repo.users["usr-2"] = User{ID: "usr-2", TenantID: "tenant-1", Role: shared.RoleUser}
	svc := NewService(repo)

	actor := shared.Actor{UserID: "usr-3", TenantID: "tenant-1", Role: shared.RoleUser}
	err := svc.Delete(context.Background(), actor, "usr-2")
	require.ErrorIs(t, err, httpx.ErrForbidden)
}

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := newMemoryUserRepo()
	repo.users["usr-1"] = User{ID: "usr-1", TenantID: "tenant-1", Email: "arif@solmak.pro", PasswordHash: string(hash), IsActive: true}
	svc := NewService(repo)

	u, err := svc.Authenticate(context.Background(), "tenant-1", "Arif@Solmak.pro ", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, "usr-1", u.ID)

	_, err = svc.Authenticate(context.Background(), "tenant-1", "arif@solmak.pro", "wrong")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	inactive := repo.users["usr-1"]
	inactive.IsActive = false
	repo.users["usr-1"] = inactive
	_, err = svc.Authenticate(context.Background(), "tenant-1", "arif@solmak.pro", "correct-horse")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestCreateEnforcesRoleRules(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), adminActor(), CreateInput{
		Name: "New Root", Email: "root2@solmak.pro", Password: "longenough", Role: shared.RoleSuperAdmin,
	})
	require.ErrorIs(t, err, httpx.ErrForbidden)

	u, err := svc.Create(context.Background(), superActor(), CreateInput{
		Name: "Tania Sultana", Email: "tania@solmak.pro", Password: "longenough", Role: shared.RoleUser,
		Permissions: []string{"FINANCE", "ACCOUNTS"},
	})
	require.NoError(t, err)
	require.True(t, u.IsActive)
	require.NotEmpty(t, u.PasswordHash)
	require.NotEqual(t, "longenough", u.PasswordHash)
}
