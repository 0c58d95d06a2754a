package sales

// SaleLine is one sold item on a record.
type SaleLine struct {
	ItemID   string  `json:"itemId"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// SaleRecord is a completed point-of-sale transaction. Recording it
// deducts stock and appends a credit to the ledger in one transaction.
type SaleRecord struct {
	ID       string     `json:"id"`
	TenantID string     `json:"tenantId"`
	Date     string     `json:"date"`
	Customer string     `json:"customer"`
	Lines    []SaleLine `json:"items"`
	Total    float64    `json:"total"`
	Status   string     `json:"status"`
	TxID     string     `json:"transactionId,omitempty"`
}

// Total sums line quantities times prices.
func Total(lines []SaleLine) float64 {
	var total float64
	for _, l := range lines {
		total += float64(l.Quantity) * l.Price
	}
	return total
}
