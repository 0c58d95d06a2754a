package accounts

const (
	TypeAsset     = "Asset"
	TypeLiability = "Liability"
	TypeEquity    = "Equity"
	TypeRevenue   = "Revenue"
	TypeExpense   = "Expense"
)

// Account is one row of the chart of accounts.
type Account struct {
	ID       string  `json:"id"`
	TenantID string  `json:"tenantId"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Balance  float64 `json:"balance"`
}
