package inventory

// Item is a stocked product. Stock never goes negative; deductions
// clamp at zero.
type Item struct {
	ID              string  `json:"id"`
	TenantID        string  `json:"tenantId"`
	SKU             string  `json:"sku,omitempty"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Stock           int     `json:"stock"`
	SalePrice       float64 `json:"salePrice"`
	PurchasePrice   float64 `json:"purchasePrice"`
	Unit            string  `json:"unit,omitempty"`
	SupplierID      string  `json:"supplierId,omitempty"`
	LowStockLevel   int     `json:"lowStockLevel"`
	PendingDeletion bool    `json:"isPendingDeletion,omitempty"`
}

// LowOnStock reports whether the item sits at or below its threshold.
// A zero threshold disables the alert.
func (i Item) LowOnStock() bool {
	return i.LowStockLevel > 0 && i.Stock <= i.LowStockLevel
}

// Deduct removes qty from stock, clamping at zero. It returns the
// quantity actually removed.
func (i *Item) Deduct(qty int) int {
	if qty <= 0 {
		return 0
	}
	removed := qty
	if removed > i.Stock {
		removed = i.Stock
	}
	i.Stock -= qty
	if i.Stock < 0 {
		i.Stock = 0
	}
	return removed
}
