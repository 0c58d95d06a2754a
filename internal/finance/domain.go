package finance

// TxType classifies ledger entries.
type TxType string

const (
	// TxCredit is an inflow; amount is positive.
	TxCredit TxType = "credit"
	// TxDebit is an outflow; amount is negative.
	TxDebit TxType = "debit"
)

const (
	StatusCompleted = "Completed"
	StatusPaid      = "Paid"
	StatusPending   = "Pending"
)

// Transaction is one entry in the append-only ledger. Entries are never
// edited; removal only happens through the deletion-approval workflow.
// Dates are ISO YYYY-MM-DD strings; zero-padding makes lexicographic
// comparison equivalent to chronological order.
type Transaction struct {
	ID              string  `json:"id"`
	TenantID        string  `json:"tenantId"`
	Date            string  `json:"date"`
	Category        string  `json:"category"`
	Amount          float64 `json:"amount"`
	Type            TxType  `json:"type"`
	Status          string  `json:"status"`
	Method          string  `json:"method,omitempty"`
	SupplierID      string  `json:"supplierId,omitempty"`
	EmployeeID      string  `json:"employeeId,omitempty"`
	PendingDeletion bool    `json:"isPendingDeletion,omitempty"`
}

// Range bounds a date interval, inclusive on both ends. Empty bounds
// are open.
type Range struct {
	From string
	To   string
}

// Contains reports whether date falls inside the range.
func (r Range) Contains(date string) bool {
	if r.From != "" && date < r.From {
		return false
	}
	if r.To != "" && date > r.To {
		return false
	}
	return true
}

// Summary aggregates ledger amounts over a range.
type Summary struct {
	Balance float64 `json:"balance"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// Summarize folds transactions into balance/income/expense totals.
// Records flagged for deletion are excluded.
func Summarize(txs []Transaction, r Range) Summary {
	var s Summary
	for _, tx := range txs {
		if tx.PendingDeletion || !r.Contains(tx.Date) {
			continue
		}
		s.Balance += tx.Amount
		switch tx.Type {
		case TxCredit:
			s.Income += tx.Amount
		case TxDebit:
			s.Expense += tx.Amount
		}
	}
	return s
}
