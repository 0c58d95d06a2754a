package tenants

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVisibleModulesFiltersAndOrders(t *testing.T) {
	config := AppConfig{
		Modules:     []Module{ModuleDashboard, ModuleFinance, ModuleInventory},
		ModuleOrder: []Module{ModuleInventory, ModuleFinance, ModuleDashboard},
	}
	got := VisibleModules(config, []string{"DASHBOARD", "INVENTORY"})
	require.Equal(t, []Module{ModuleInventory, ModuleDashboard}, got)
}

func TestVisibleModulesWithoutOrderKeepsFilteredSequence(t *testing.T) {
	config := AppConfig{
		Modules: []Module{ModuleDashboard, ModuleFinance, ModuleInventory},
	}
	got := VisibleModules(config, []string{"INVENTORY", "DASHBOARD"})
	require.Equal(t, []Module{ModuleDashboard, ModuleInventory}, got)
}

func TestVisibleModulesNoDuplicates(t *testing.T) {
	config := AppConfig{
		Modules:     []Module{ModuleFinance, ModuleFinance, ModuleSales},
		ModuleOrder: []Module{ModuleSales, ModuleFinance, ModuleSales},
	}
	got := VisibleModules(config, []string{"FINANCE", "SALES"})
	require.Equal(t, []Module{ModuleSales, ModuleFinance}, got)
}

func TestVisibleModulesExcludesUnpermitted(t *testing.T) {
	config := AppConfig{Modules: AllModules()}
	got := VisibleModules(config, nil)
	require.Empty(t, got)
}

func TestReorderSwapsNeighbours(t *testing.T) {
	order := []Module{ModuleDashboard, ModuleFinance, ModuleSales}

	up := ReorderModuleOrder(order, ModuleFinance, DirectionUp)
	require.Equal(t, []Module{ModuleFinance, ModuleDashboard, ModuleSales}, up)

	down := ReorderModuleOrder(order, ModuleFinance, DirectionDown)
	require.Equal(t, []Module{ModuleDashboard, ModuleSales, ModuleFinance}, down)

	// Original slice must stay untouched.
	require.Equal(t, []Module{ModuleDashboard, ModuleFinance, ModuleSales}, order)
}

func TestReorderBoundaryIsNoOp(t *testing.T) {
	order := []Module{ModuleDashboard, ModuleFinance, ModuleSales}

	first := ReorderModuleOrder(order, ModuleDashboard, DirectionUp)
	require.Equal(t, order, first)

	last := ReorderModuleOrder(order, ModuleSales, DirectionDown)
	require.Equal(t, order, last)
}

func TestReorderUnknownModuleIsNoOp(t *testing.T) {
	order := []Module{ModuleDashboard, ModuleFinance}
	got := ReorderModuleOrder(order, ModuleLegal, DirectionUp)
	require.Equal(t, order, got)
}
