package hr

const (
	EmployeeActive   = "Active"
	EmployeeOnLeave  = "On Leave"
	EmployeeResigned = "Resigned"
)

// Employee is a staff record.
type Employee struct {
	ID          string  `json:"id"`
	TenantID    string  `json:"tenantId"`
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	Department  string  `json:"department,omitempty"`
	JoiningDate string  `json:"joiningDate,omitempty"`
	Status      string  `json:"status"`
	Salary      float64 `json:"salary"`
	Mobile      string  `json:"mobile,omitempty"`
	Email       string  `json:"email,omitempty"`
}

const (
	PayrollPending = "Pending"
	PayrollPaid    = "Paid"
)

const (
	MethodBank          = "Bank"
	MethodMobileBanking = "Mobile Banking"
	MethodCash          = "Cash"
)

// PayrollRecord is one employee's salary for one month. Generation
// creates it Pending; disbursement pays it and books the ledger debit.
type PayrollRecord struct {
	ID             string  `json:"id"`
	TenantID       string  `json:"tenantId"`
	DisbursementID string  `json:"disbursementId,omitempty"`
	EmployeeID     string  `json:"employeeId"`
	EmployeeName   string  `json:"employeeName"`
	Month          string  `json:"month"`
	Amount         float64 `json:"amount"`
	Status         string  `json:"status"`
	PaymentMethod  string  `json:"paymentMethod,omitempty"`
	Date           string  `json:"date,omitempty"`
}

const (
	LoanGiven = "Given"
	LoanTaken = "Taken"
)

const (
	LoanActive = "Active"
	LoanClosed = "Closed"
)

// LoanRecord tracks money lent to or borrowed from a person.
type LoanRecord struct {
	ID         string  `json:"id"`
	TenantID   string  `json:"tenantId"`
	Person     string  `json:"person"`
	Type       string  `json:"type"`
	Amount     float64 `json:"amount"`
	PaidAmount float64 `json:"paidAmount"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
}

// Settled reports whether repayments cover the principal.
func (l LoanRecord) Settled() bool {
	return l.PaidAmount >= l.Amount
}

// DailyExpense is a petty cash outflow booked straight to the ledger.
type DailyExpense struct {
	ID       string  `json:"id"`
	TenantID string  `json:"tenantId"`
	Date     string  `json:"date"`
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category,omitempty"`
}
