package hr

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solmak-erp/solmak-erp/internal/platform/db"
	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
)

// Repository persists employees, payroll, loans and daily expenses.
// All four live in one module; splitting repositories would only
// spread the tenant scoping around.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const employeeColumns = `id, tenant_id, name, role, department, joining_date, status, salary, mobile, email`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	var dept, joined, mobile, email *string
	if err := row.Scan(&e.ID, &e.TenantID, &e.Name, &e.Role, &dept, &joined, &e.Status, &e.Salary, &mobile, &email); err != nil {
		return Employee{}, err
	}
	if dept != nil {
		e.Department = *dept
	}
	if joined != nil {
		e.JoiningDate = *joined
	}
	if mobile != nil {
		e.Mobile = *mobile
	}
	if email != nil {
		e.Email = *email
	}
	return e, nil
}

// ListEmployees returns the tenant's staff ordered by name.
func (r *Repository) ListEmployees(ctx context.Context, tenantID string) ([]Employee, error) {
	rows, err := db.Querier(ctx, r.pool).Query(ctx, `SELECT `+employeeColumns+` FROM employees WHERE tenant_id=$1 ORDER BY name`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetEmployee returns one employee.
func (r *Repository) GetEmployee(ctx context.Context, tenantID, id string) (Employee, error) {
	row := db.Querier(ctx, r.pool).QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, httpx.ErrNotFound
		}
		return Employee{}, err
	}
	return e, nil
}

// InsertEmployee stores a new employee.
func (r *Repository) InsertEmployee(ctx context.Context, e Employee) error {
	_, err := db.Querier(ctx, r.pool).Exec(ctx, `INSERT INTO employees (id, tenant_id, name, role, department, joining_date, status, salary, mobile, email, created_at)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, NULLIF($9, ''), NULLIF($10, ''), NOW())`,
		e.ID, e.TenantID, e.Name, e.Role, e.Department, e.JoiningDate, e.Status, e.Salary, e.Mobile, e.Email)
	return err
}

// UpdateEmployee overwrites an employee.
func (r *Repository) UpdateEmployee(ctx context.Context, e Employee) error {
	tag, err := db.Querier(ctx, r.pool).Exec(ctx, `UPDATE employees
SET name=$3, role=$4, department=NULLIF($5, ''), joining_date=NULLIF($6, ''), status=$7, salary=$8, mobile=NULLIF($9, ''), email=NULLIF($10, ''), updated_at=NOW()
WHERE tenant_id=$1 AND id=$2`,
		e.TenantID, e.ID, e.Name, e.Role, e.Department, e.JoiningDate, e.Status, e.Salary, e.Mobile, e.Email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// DeleteEmployee removes an employee record.
func (r *Repository) DeleteEmployee(ctx context.Context, tenantID, id string) error {
	tag, err := db.Querier(ctx, r.pool).Exec(ctx, `DELETE FROM employees WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

const payrollColumns = `id, tenant_id, disbursement_id, employee_id, employee_name, month, amount, status, payment_method, date`

func scanPayroll(row pgx.Row) (PayrollRecord, error) {
	var p PayrollRecord
	var disb, method, date *string
	if err := row.Scan(&p.ID, &p.TenantID, &disb, &p.EmployeeID, &p.EmployeeName, &p.Month, &p.Amount, &p.Status, &method, &date); err != nil {
		return PayrollRecord{}, err
	}
	if disb != nil {
		p.DisbursementID = *disb
	}
	if method != nil {
		p.PaymentMethod = *method
	}
	if date != nil {
		p.Date = *date
	}
	return p, nil
}

// ListPayroll returns payroll records for a month; empty month means
// all.
func (r *Repository) ListPayroll(ctx context.Context, tenantID, month string) ([]PayrollRecord, error) {
	rows, err := db.Querier(ctx, r.pool).Query(ctx, `SELECT `+payrollColumns+` FROM payroll_records
WHERE tenant_id=$1 AND ($2 = '' OR month = $2) ORDER BY month DESC, employee_name`, tenantID, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PayrollRecord
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPayroll returns one payroll record.
func (r *Repository) GetPayroll(ctx context.Context, tenantID, id string) (PayrollRecord, error) {
	row := db.Querier(ctx, r.pool).QueryRow(ctx, `SELECT `+payrollColumns+` FROM payroll_records WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	p, err := scanPayroll(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PayrollRecord{}, httpx.ErrNotFound
		}
		return PayrollRecord{}, err
	}
	return p, nil
}

// InsertPayroll stores a payroll record.
func (r *Repository) InsertPayroll(ctx context.Context, p PayrollRecord) error {
	_, err := db.Querier(ctx, r.pool).Exec(ctx, `INSERT INTO payroll_records (id, tenant_id, disbursement_id, employee_id, employee_name, month, amount, status, payment_method, date, created_at)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''), NOW())`,
		p.ID, p.TenantID, p.DisbursementID, p.EmployeeID, p.EmployeeName, p.Month, p.Amount, p.Status, p.PaymentMethod, p.Date)
	return err
}

// UpdatePayroll overwrites a payroll record.
func (r *Repository) UpdatePayroll(ctx context.Context, p PayrollRecord) error {
	tag, err := db.Querier(ctx, r.pool).Exec(ctx, `UPDATE payroll_records
SET disbursement_id=NULLIF($3, ''), amount=$4, status=$5, payment_method=NULLIF($6, ''), date=NULLIF($7, ''), updated_at=NOW()
WHERE tenant_id=$1 AND id=$2`,
		p.TenantID, p.ID, p.DisbursementID, p.Amount, p.Status, p.PaymentMethod, p.Date)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// CountDisbursed counts paid records in a month, used to number
// disbursement IDs.
func (r *Repository) CountDisbursed(ctx context.Context, tenantID, month string) (int, error) {
	var n int
	err := db.Querier(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM payroll_records
WHERE tenant_id=$1 AND month=$2 AND disbursement_id IS NOT NULL`, tenantID, month).Scan(&n)
	return n, err
}

const loanColumns = `id, tenant_id, person, loan_type, amount, paid_amount, date, status`

func scanLoan(row pgx.Row) (LoanRecord, error) {
	var l LoanRecord
	if err := row.Scan(&l.ID, &l.TenantID, &l.Person, &l.Type, &l.Amount, &l.PaidAmount, &l.Date, &l.Status); err != nil {
		return LoanRecord{}, err
	}
	return l, nil
}

// ListLoans returns the tenant's loans, newest first.
func (r *Repository) ListLoans(ctx context.Context, tenantID string) ([]LoanRecord, error) {
	rows, err := db.Querier(ctx, r.pool).Query(ctx, `SELECT `+loanColumns+` FROM loan_records WHERE tenant_id=$1 ORDER BY date DESC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LoanRecord
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetLoan returns one loan.
func (r *Repository) GetLoan(ctx context.Context, tenantID, id string) (LoanRecord, error) {
	row := db.Querier(ctx, r.pool).QueryRow(ctx, `SELECT `+loanColumns+` FROM loan_records WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	l, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LoanRecord{}, httpx.ErrNotFound
		}
		return LoanRecord{}, err
	}
	return l, nil
}

// InsertLoan stores a loan.
func (r *Repository) InsertLoan(ctx context.Context, l LoanRecord) error {
	_, err := db.Querier(ctx, r.pool).Exec(ctx, `INSERT INTO loan_records (id, tenant_id, person, loan_type, amount, paid_amount, date, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`,
		l.ID, l.TenantID, l.Person, l.Type, l.Amount, l.PaidAmount, l.Date, l.Status)
	return err
}

// UpdateLoan overwrites repayment progress and status.
func (r *Repository) UpdateLoan(ctx context.Context, l LoanRecord) error {
	tag, err := db.Querier(ctx, r.pool).Exec(ctx, `UPDATE loan_records SET paid_amount=$3, status=$4, updated_at=NOW() WHERE tenant_id=$1 AND id=$2`,
		l.TenantID, l.ID, l.PaidAmount, l.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

const expenseColumns = `id, tenant_id, date, title, amount, category`

// ListExpenses returns daily expenses, newest first.
func (r *Repository) ListExpenses(ctx context.Context, tenantID string) ([]DailyExpense, error) {
	rows, err := db.Querier(ctx, r.pool).Query(ctx, `SELECT `+expenseColumns+` FROM daily_expenses WHERE tenant_id=$1 ORDER BY date DESC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DailyExpense
	for rows.Next() {
		var e DailyExpense
		var category *string
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Date, &e.Title, &e.Amount, &category); err != nil {
			return nil, err
		}
		if category != nil {
			e.Category = *category
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// InsertExpense stores a daily expense.
func (r *Repository) InsertExpense(ctx context.Context, e DailyExpense) error {
	_, err := db.Querier(ctx, r.pool).Exec(ctx, `INSERT INTO daily_expenses (id, tenant_id, date, title, amount, category, created_at)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NOW())`,
		e.ID, e.TenantID, e.Date, e.Title, e.Amount, e.Category)
	return err
}
