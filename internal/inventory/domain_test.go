package inventory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeductClampsAtZero(t *testing.T) {
	it := Item{Stock: 3}
	removed := it.Deduct(5)
	require.Equal(t, 3, removed)
	require.Equal(t, 0, it.Stock)
}

func TestDeductNormalPath(t *testing.T) {
	it := Item{Stock: 10}
	removed := it.Deduct(3)
	require.Equal(t, 3, removed)
	require.Equal(t, 7, it.Stock)
}

func TestDeductIgnoresNonPositiveQty(t *testing.T) {
	it := Item{Stock: 4}
	require.Equal(t, 0, it.Deduct(0))
	require.Equal(t, 0, it.Deduct(-2))
	require.Equal(t, 4, it.Stock)
}

func TestLowOnStock(t *testing.T) {
	require.True(t, Item{Stock: 2, LowStockLevel: 5}.LowOnStock())
	require.True(t, Item{Stock: 5, LowStockLevel: 5}.LowOnStock())
	require.False(t, Item{Stock: 6, LowStockLevel: 5}.LowOnStock())
	// Zero threshold disables the alert.
	require.False(t, Item{Stock: 0, LowStockLevel: 0}.LowOnStock())
}
