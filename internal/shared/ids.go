package shared

import (
	"strings"

	"github.com/google/uuid"
)

// NewID generates a record identifier with a human readable prefix,
// e.g. "SL-1f3a9c2e". Prefixes follow the conventions of the record
// type (SL sales, TX transactions, PO purchase orders, EMP employees).
func NewID(prefix string) string {
	id := uuid.NewString()
	short := strings.ReplaceAll(id, "-", "")[:8]
	if prefix == "" {
		return short
	}
	return prefix + "-" + short
}
