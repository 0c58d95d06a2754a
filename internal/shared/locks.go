package shared

import "fmt"

// PayrollLockKey builds redis keys guarding payroll generation per
// tenant and month so concurrent runs do not double-create records.
func PayrollLockKey(tenantID, month string) string {
	return fmt.Sprintf("payroll:%s:%s:lock", tenantID, month)
}
