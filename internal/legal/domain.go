package legal

const (
	DocActive   = "Active"
	DocRenewing = "Renewing"
	DocExpired  = "Expired"
)

// Document is a licence, permit or contract whose expiry matters.
type Document struct {
	ID         string `json:"id"`
	TenantID   string `json:"tenantId"`
	Title      string `json:"title"`
	Type       string `json:"type,omitempty"`
	ExpiryDate string `json:"expiryDate,omitempty"`
	Status     string `json:"status"`
}

// ExpiredBy reports whether the document's expiry date has passed the
// given ISO date. Documents without an expiry never expire.
func (d Document) ExpiredBy(date string) bool {
	return d.ExpiryDate != "" && d.ExpiryDate < date
}
