package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/solmak-erp/solmak-erp/internal/accounts"
	"github.com/solmak-erp/solmak-erp/internal/approvals"
	"github.com/solmak-erp/solmak-erp/internal/assistant"
	"github.com/solmak-erp/solmak-erp/internal/auth"
	"github.com/solmak-erp/solmak-erp/internal/finance"
	"github.com/solmak-erp/solmak-erp/internal/hr"
	"github.com/solmak-erp/solmak-erp/internal/inventory"
	"github.com/solmak-erp/solmak-erp/internal/legal"
	"github.com/solmak-erp/solmak-erp/internal/observability"
	"github.com/solmak-erp/solmak-erp/internal/office"
	"github.com/solmak-erp/solmak-erp/internal/procurement"
	"github.com/solmak-erp/solmak-erp/internal/reports"
	"github.com/solmak-erp/solmak-erp/internal/sales"
	"github.com/solmak-erp/solmak-erp/internal/shared"
	"github.com/solmak-erp/solmak-erp/internal/suppliers"
	"github.com/solmak-erp/solmak-erp/internal/tenants"
	"github.com/solmak-erp/solmak-erp/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	UserMiddleware users.Middleware
	Metrics        *observability.Metrics

	AuthHandler        *auth.Handler
	TenantsHandler     *tenants.Handler
	UsersHandler       *users.Handler
	FinanceHandler     *finance.Handler
	InventoryHandler   *inventory.Handler
	SuppliersHandler   *suppliers.Handler
	SalesHandler       *sales.Handler
	ProcurementHandler *procurement.Handler
	HRHandler          *hr.Handler
	OfficeHandler      *office.Handler
	LegalHandler       *legal.Handler
	AccountsHandler    *accounts.Handler
	ApprovalsHandler   *approvals.Handler
	ReportsHandler     *reports.Handler
	AssistantHandler   *assistant.Handler
}

// NewRouter constructs the chi.Router with SolMak defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(params.UserMiddleware.LoadActor)

		api.Route("/auth", params.AuthHandler.MountRoutes)
		api.Route("/tenants", params.TenantsHandler.MountRoutes)
		api.Route("/users", params.UsersHandler.MountRoutes)
		api.Route("/finance", params.FinanceHandler.MountRoutes)
		api.Route("/inventory", params.InventoryHandler.MountRoutes)
		api.Route("/suppliers", params.SuppliersHandler.MountRoutes)
		api.Route("/sales", params.SalesHandler.MountRoutes)
		api.Route("/procurement", params.ProcurementHandler.MountRoutes)
		api.Route("/hr", params.HRHandler.MountRoutes)
		api.Route("/office", params.OfficeHandler.MountRoutes)
		api.Route("/legal", params.LegalHandler.MountRoutes)
		api.Route("/accounts", params.AccountsHandler.MountRoutes)
		api.Route("/approvals", func(ar chi.Router) {
			params.ApprovalsHandler.MountRoutes(ar)
			ar.Group(func(g chi.Router) {
				g.Use(params.UserMiddleware.RequireRole(shared.RoleAdmin, shared.RoleSuperAdmin))
				params.ApprovalsHandler.MountReviewRoutes(g)
			})
		})
		api.With(params.UserMiddleware.RequireModule(string(tenants.ModuleReports))).
			Route("/reports", params.ReportsHandler.MountRoutes)
		api.With(params.UserMiddleware.RequireModule(string(tenants.ModuleSupportAI))).
			Route("/assistant", params.AssistantHandler.MountRoutes)
	})

	return r
}
