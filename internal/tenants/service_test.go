package tenants

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
)

type memoryTenants struct {
	byID map[string]Tenant
}

func newMemoryTenants(tns ...Tenant) *memoryTenants {
	m := &memoryTenants{byID: map[string]Tenant{}}
	for _, t := range tns {
		m.byID[t.ID] = t
	}
	return m
}

func (m *memoryTenants) Get(_ context.Context, id string) (Tenant, error) {
	t, ok := m.byID[id]
	if !ok {
		return Tenant{}, httpx.ErrNotFound
	}
	return t, nil
}

func (m *memoryTenants) List(context.Context) ([]Tenant, error) {
	out := make([]Tenant, 0, len(m.byID))
	for _, t := range m.byID {
		out = append(out, t)
	}
	return out, nil
}

func (m *memoryTenants) Insert(_ context.Context, t Tenant) error {
	m.byID[t.ID] = t
	return nil
}

func (m *memoryTenants) UpdateConfig(_ context.Context, id string, config AppConfig) error {
	t, ok := m.byID[id]
	if !ok {
		return httpx.ErrNotFound
	}
	t.Config = config
	m.byID[id] = t
	return nil
}

func (m *memoryTenants) Count(context.Context) (int, error) {
	return len(m.byID), nil
}

func twoTenants() *memoryTenants {
	return newMemoryTenants(
		Tenant{ID: "tenant-a", Name: "Alpha", Config: AppConfig{Theme: "#059669", Modules: AllModules(), ModuleOrder: AllModules()}},
		Tenant{ID: "tenant-b", Name: "Bravo", Config: AppConfig{Theme: "#059669", Modules: AllModules(), ModuleOrder: AllModules()}},
	)
}

func adminOf(tenantID string) shared.Actor {
	return shared.Actor{UserID: "u-1", TenantID: tenantID, Role: shared.RoleAdmin}
}

func TestUpdateConfigRejectsForeignTenant(t *testing.T) {
	repo := twoTenants()
	svc := NewService(repo)

	theme := "#ff0000"
	_, err := svc.UpdateConfig(context.Background(), adminOf("tenant-a"), "tenant-b", ConfigUpdate{Theme: &theme})
	require.ErrorIs(t, err, httpx.ErrForbidden)

	stored, err := repo.Get(context.Background(), "tenant-b")
	require.NoError(t, err)
	require.Equal(t, "#059669", stored.Config.Theme)
}

func TestUpdateConfigOwnTenant(t *testing.T) {
	svc := NewService(twoTenants())

	theme := "#1d4ed8"
	updated, err := svc.UpdateConfig(context.Background(), adminOf("tenant-a"), "tenant-a", ConfigUpdate{Theme: &theme})
	require.NoError(t, err)
	require.Equal(t, "#1d4ed8", updated.Config.Theme)
}

func TestUpdateConfigSuperAdminCrossesTenants(t *testing.T) {
	svc := NewService(twoTenants())

	root := shared.Actor{UserID: "root", TenantID: "tenant-a", Role: shared.RoleSuperAdmin}
	dark := true
	updated, err := svc.UpdateConfig(context.Background(), root, "tenant-b", ConfigUpdate{DarkMode: &dark})
	require.NoError(t, err)
	require.True(t, updated.Config.DarkMode)
}

func TestUpdateConfigRejectsRegularUser(t *testing.T) {
	svc := NewService(twoTenants())

	actor := shared.Actor{UserID: "u-2", TenantID: "tenant-a", Role: shared.RoleUser}
	theme := "#000000"
	_, err := svc.UpdateConfig(context.Background(), actor, "tenant-a", ConfigUpdate{Theme: &theme})
	require.ErrorIs(t, err, httpx.ErrForbidden)
}

func TestGetRejectsForeignTenant(t *testing.T) {
	svc := NewService(twoTenants())

	actor := shared.Actor{UserID: "u-2", TenantID: "tenant-a", Role: shared.RoleUser}
	_, err := svc.Get(context.Background(), actor, "tenant-b")
	require.ErrorIs(t, err, httpx.ErrForbidden)

	own, err := svc.Get(context.Background(), actor, "tenant-a")
	require.NoError(t, err)
	require.Equal(t, "tenant-a", own.ID)
}

func TestReorderRejectsForeignTenant(t *testing.T) {
	svc := NewService(twoTenants())

	_, err := svc.Reorder(context.Background(), adminOf("tenant-a"), "tenant-b", ModuleFinance, DirectionUp)
	require.ErrorIs(t, err, httpx.ErrForbidden)
}
