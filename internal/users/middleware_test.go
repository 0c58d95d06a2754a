package users

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solmak-erp/solmak-erp/internal/shared"
)

func runGate(t *testing.T, mw func(http.Handler) http.Handler, actor *shared.Actor) *httptest.ResponseRecorder {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if actor != nil {
		req = req.WithContext(shared.ContextWithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)
	return rec
}

func TestRequireModule(t *testing.T) {
	mw := Middleware{}.RequireModule("REPORTS")

	scoped := shared.Actor{UserID: "u-1", TenantID: "tenant-1", Role: shared.RoleUser, Permissions: []string{"REPORTS"}}
	require.Equal(t, http.StatusNoContent, runGate(t, mw, &scoped).Code)

	unscoped := shared.Actor{UserID: "u-2", TenantID: "tenant-1", Role: shared.RoleUser, Permissions: []string{"FINANCE"}}
	require.Equal(t, http.StatusForbidden, runGate(t, mw, &unscoped).Code)

	require.Equal(t, http.StatusUnauthorized, runGate(t, mw, nil).Code)
}

func TestRequireModuleSuperAdminBypasses(t *testing.T) {
	mw := Middleware{}.RequireModule("REPORTS")

	root := shared.Actor{UserID: "root", TenantID: "tenant-1", Role: shared.RoleSuperAdmin}
	require.Equal(t, http.StatusNoContent, runGate(t, mw, &root).Code)
}

func TestRequireRole(t *testing.T) {
	mw := Middleware{}.RequireRole(shared.RoleAdmin, shared.RoleSuperAdmin)

	admin := shared.Actor{UserID: "u-1", TenantID: "tenant-1", Role: shared.RoleAdmin}
	require.Equal(t, http.StatusNoContent, runGate(t, mw, &admin).Code)

	user := shared.Actor{UserID: "u-2", TenantID: "tenant-1", Role: shared.RoleUser}
	require.Equal(t, http.StatusForbidden, runGate(t, mw, &user).Code)

	require.Equal(t, http.StatusUnauthorized, runGate(t, mw, nil).Code)
}
