package suppliers

const (
	StatusActive  = "Active"
	StatusBlocked = "Blocked"
)

// Supplier is a vendor the business buys from. Balance tracks what the
// business currently owes.
type Supplier struct {
	ID              string  `json:"id"`
	TenantID        string  `json:"tenantId"`
	Name            string  `json:"name"`
	ContactPerson   string  `json:"contactPerson,omitempty"`
	Phone           string  `json:"phone,omitempty"`
	Email           string  `json:"email,omitempty"`
	Address         string  `json:"address,omitempty"`
	Category        string  `json:"category,omitempty"`
	Balance         float64 `json:"balance"`
	Status          string  `json:"status"`
	PendingDeletion bool    `json:"isPendingDeletion,omitempty"`
}

// Blocked reports whether new purchase orders may reference the
// supplier.
func (s Supplier) Blocked() bool {
	return s.Status == StatusBlocked
}
