package procurement

const (
	StatusPending   = "Pending"
	StatusReceived  = "Received"
	StatusCancelled = "Cancelled"
)

const (
	TermsCash   = "Cash"
	TermsCredit = "Credit"
)

// POLine is one ordered item.
type POLine struct {
	ItemID    string  `json:"itemId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// PurchaseOrder tracks goods ordered from a supplier. Receiving is
// irreversible: stock goes up and purchase prices are overwritten.
type PurchaseOrder struct {
	ID            string   `json:"id"`
	TenantID      string   `json:"tenantId"`
	SupplierID    string   `json:"supplierId"`
	SupplierName  string   `json:"supplierName"`
	Date          string   `json:"date"`
	PurchaserName string   `json:"purchaserName,omitempty"`
	Lines         []POLine `json:"items"`
	Total         float64  `json:"totalAmount"`
	DeliveryDate  string   `json:"deliveryDate,omitempty"`
	PaymentTerms  string   `json:"paymentTerms"`
	Status        string   `json:"status"`
}

// Total sums line quantities times unit prices.
func Total(lines []POLine) float64 {
	var total float64
	for _, l := range lines {
		total += float64(l.Quantity) * l.UnitPrice
	}
	return total
}
