package tenants

import (
	"errors"
	"time"
)

// Module names a navigable application module.
type Module string

// All application modules.
const (
	ModuleDashboard     Module = "DASHBOARD"
	ModuleFinance       Module = "FINANCE"
	ModuleInventory     Module = "INVENTORY"
	ModulePurchase      Module = "PURCHASE"
	ModuleSuppliers     Module = "SUPPLIERS"
	ModuleSales         Module = "SALES"
	ModuleOffice        Module = "OFFICE"
	ModuleHR            Module = "HR"
	ModuleReports       Module = "REPORTS"
	ModuleSettings      Module = "SETTINGS"
	ModuleLegal         Module = "LEGAL"
	ModuleCategories    Module = "CATEGORIES"
	ModuleSuperAdmin    Module = "SUPER_ADMIN"
	ModuleCommunication Module = "COMMUNICATION"
	ModuleSupportAI     Module = "SUPPORT_AI"
	ModuleAccounts      Module = "ACCOUNTS"
	ModuleAdmin         Module = "ADMIN"
)

// AllModules returns every known module in default navigation order.
func AllModules() []Module {
	return []Module{
		ModuleDashboard, ModuleFinance, ModuleInventory, ModulePurchase,
		ModuleSuppliers, ModuleSales, ModuleOffice, ModuleHR,
		ModuleReports, ModuleSettings, ModuleLegal, ModuleCategories,
		ModuleSuperAdmin, ModuleCommunication, ModuleSupportAI,
		ModuleAccounts, ModuleAdmin,
	}
}

// IsKnownModule reports whether name is a registered module.
func IsKnownModule(name Module) bool {
	for _, m := range AllModules() {
		if m == name {
			return true
		}
	}
	return false
}

// AppConfig holds per-tenant presentation and navigation settings.
// ModuleOrder, when set, controls navigation ordering; intersected with
// Modules it yields the visible set with no duplicates.
type AppConfig struct {
	Theme       string   `json:"theme"`
	DarkMode    bool     `json:"darkMode"`
	Modules     []Module `json:"modules"`
	ModuleOrder []Module `json:"moduleOrder,omitempty"`
	LogoURL     string   `json:"logoUrl,omitempty"`
}

// Tenant is the root aggregate owning users and all business records.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Config    AppConfig `json:"config"`
	CreatedAt time.Time `json:"createdAt"`
}

// Direction for module reordering.
type Direction string

const (
	// DirectionUp moves a module one position earlier.
	DirectionUp Direction = "up"
	// DirectionDown moves a module one position later.
	DirectionDown Direction = "down"
)

// ErrUnknownModule indicates a module name outside the registry.
var ErrUnknownModule = errors.New("tenants: unknown module")

// VisibleModules returns the modules the user may navigate to: the
// tenant's enabled modules restricted to the user's permissions,
// ordered by ModuleOrder when one is defined.
func VisibleModules(config AppConfig, permissions []string) []Module {
	allowed := make(map[Module]bool, len(permissions))
	for _, p := range permissions {
		allowed[Module(p)] = true
	}
	base := make([]Module, 0, len(config.Modules))
	seen := make(map[Module]bool, len(config.Modules))
	for _, m := range config.Modules {
		if allowed[m] && !seen[m] {
			base = append(base, m)
			seen[m] = true
		}
	}
	if len(config.ModuleOrder) == 0 {
		return base
	}
	visible := make(map[Module]bool, len(base))
	for _, m := range base {
		visible[m] = true
	}
	ordered := make([]Module, 0, len(base))
	for _, m := range config.ModuleOrder {
		if visible[m] {
			ordered = append(ordered, m)
			visible[m] = false
		}
	}
	// Modules enabled but absent from ModuleOrder keep their base order.
	for _, m := range base {
		if visible[m] {
			ordered = append(ordered, m)
		}
	}
	return ordered
}

// ReorderModuleOrder swaps module with its immediate neighbour in
// order. Moving past either end leaves the slice unchanged.
func ReorderModuleOrder(order []Module, module Module, dir Direction) []Module {
	idx := -1
	for i, m := range order {
		if m == module {
			idx = i
			break
		}
	}
	if idx < 0 {
		return order
	}
	swap := idx
	switch dir {
	case DirectionUp:
		swap = idx - 1
	case DirectionDown:
		swap = idx + 1
	default:
		return order
	}
	if swap < 0 || swap >= len(order) {
		return order
	}
	next := make([]Module, len(order))
	copy(next, order)
	next[idx], next[swap] = next[swap], next[idx]
	return next
}
