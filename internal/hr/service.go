package hr

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/solmak-erp/solmak-erp/internal/finance"
	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
	"github.com/solmak-erp/solmak-erp/internal/tenants"
)

// TxRunner executes fn atomically.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// RepositoryPort abstracts HR persistence.
type RepositoryPort interface {
	ListEmployees(ctx context.Context, tenantID string) ([]Employee, error)
	GetEmployee(ctx context.Context, tenantID, id string) (Employee, error)
	InsertEmployee(ctx context.Context, e Employee) error
	UpdateEmployee(ctx context.Context, e Employee) error
	DeleteEmployee(ctx context.Context, tenantID, id string) error

	ListPayroll(ctx context.Context, tenantID, month string) ([]PayrollRecord, error)
	GetPayroll(ctx context.Context, tenantID, id string) (PayrollRecord, error)
	InsertPayroll(ctx context.Context, p PayrollRecord) error
	UpdatePayroll(ctx context.Context, p PayrollRecord) error
	CountDisbursed(ctx context.Context, tenantID, month string) (int, error)

	ListLoans(ctx context.Context, tenantID string) ([]LoanRecord, error)
	GetLoan(ctx context.Context, tenantID, id string) (LoanRecord, error)
	InsertLoan(ctx context.Context, l LoanRecord) error
	UpdateLoan(ctx context.Context, l LoanRecord) error

	ListExpenses(ctx context.Context, tenantID string) ([]DailyExpense, error)
	InsertExpense(ctx context.Context, e DailyExpense) error
}

// LedgerPort books salary, loan and expense movements.
type LedgerPort interface {
	AppendSystem(ctx context.Context, tenantID string, tx finance.Transaction) (finance.Transaction, error)
	ListByEmployee(ctx context.Context, tenantID, employeeID string) ([]finance.Transaction, error)
}

// Service manages staff, payroll, loans and daily expenses.
type Service struct {
	repo   RepositoryPort
	ledger LedgerPort
	inTx   TxRunner
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs Service.
func NewService(repo RepositoryPort, ledger LedgerPort, inTx TxRunner, logger *slog.Logger) *Service {
	return &Service{repo: repo, ledger: ledger, inTx: inTx, logger: logger, now: time.Now}
}

func (s *Service) guard(actor shared.Actor) error {
	if !actor.HasModule(string(tenants.ModuleHR)) {
		return httpx.ErrForbidden
	}
	return nil
}

// EmployeeInput carries create/update fields.
type EmployeeInput struct {
	Name        string  `json:"name" validate:"required,min=2"`
	Role        string  `json:"role" validate:"required"`
	Department  string  `json:"department"`
	JoiningDate string  `json:"joiningDate"`
	Status      string  `json:"status" validate:"omitempty,oneof='Active' 'On Leave' 'Resigned'"`
	Salary      float64 `json:"salary" validate:"gte=0"`
	Mobile      string  `json:"mobile"`
	Email       string  `json:"email" validate:"omitempty,email"`
}

// ListEmployees returns the tenant's staff.
func (s *Service) ListEmployees(ctx context.Context, actor shared.Actor) ([]Employee, error) {
	if err := s.guard(actor); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return s.repo.ListEmployees(ctx, actor.TenantID)
}

// CreateEmployee adds a staff record.
func (s *Service) CreateEmployee(ctx context.Context, actor shared.Actor, in EmployeeInput) (Employee, error) {
	if err := s.guard(actor); err != nil {
		return Employee{}, fmt.Errorf("create employee: %w", err)
	}
	status := in.Status
	if status == "" {
		status = EmployeeActive
	}
	e := Employee{
		ID:          shared.NewID("EMP"),
		TenantID:    actor.TenantID,
		Name:        strings.TrimSpace(in.Name),
		Role:        strings.TrimSpace(in.Role),
		Department:  strings.TrimSpace(in.Department),
		JoiningDate: in.JoiningDate,
		Status:      status,
		Salary:      in.Salary,
		Mobile:      strings.TrimSpace(in.Mobile),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
	}
	if err := s.repo.InsertEmployee(ctx, e); err != nil {
		return Employee{}, fmt.Errorf("create employee: %w", err)
	}
	s.logger.InfoContext(ctx, "employee created", "employee_id", e.ID, "name", e.Name)
	return e, nil
}

// UpdateEmployee overwrites a staff record.
func (s *Service) UpdateEmployee(ctx context.Context, actor shared.Actor, id string, in EmployeeInput) (Employee, error) {
	if err := s.guard(actor); err != nil {
		return Employee{}, fmt.Errorf("update employee: %w", err)
	}
	e, err := s.repo.GetEmployee(ctx, actor.TenantID, id)
	if err != nil {
		return Employee{}, fmt.Errorf("update employee: %w", err)
	}
	e.Name = strings.TrimSpace(in.Name)
	e.Role = strings.TrimSpace(in.Role)
	e.Department = strings.TrimSpace(in.Department)
	e.JoiningDate = in.JoiningDate
	if in.Status != "" {
		e.Status = in.Status
	}
	e.Salary = in.Salary
	e.Mobile = strings.TrimSpace(in.Mobile)
	e.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.repo.UpdateEmployee(ctx, e); err != nil {
		return Employee{}, fmt.Errorf("update employee: %w", err)
	}
	return e, nil
}

// DeleteEmployee removes a staff record. Admin only.
func (s *Service) DeleteEmployee(ctx context.Context, actor shared.Actor, id string) error {
	if err := s.guard(actor); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if actor.Role != shared.RoleAdmin && !actor.IsSuperAdmin() {
		return fmt.Errorf("delete employee: %w", httpx.ErrForbidden)
	}
	if err := s.repo.DeleteEmployee(ctx, actor.TenantID, id); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return nil
}

// EmployeeTransactions returns ledger entries referencing the
// employee, salary disbursements included.
func (s *Service) EmployeeTransactions(ctx context.Context, actor shared.Actor, employeeID string) ([]finance.Transaction, error) {
	if err := s.guard(actor); err != nil {
		return nil, fmt.Errorf("employee transactions: %w", err)
	}
	if _, err := s.repo.GetEmployee(ctx, actor.TenantID, employeeID); err != nil {
		return nil, fmt.Errorf("employee transactions: %w", err)
	}
	return s.ledger.ListByEmployee(ctx, actor.TenantID, employeeID)
}

// GeneratePayroll creates one Pending record per active salaried
// employee for the month. Employees that already have a record for the
// month are skipped, so reruns are safe.
func (s *Service) GeneratePayroll(ctx context.Context, actor shared.Actor, month string) ([]PayrollRecord, error) {
	if err := s.guard(actor); err != nil {
		return nil, fmt.Errorf("generate payroll: %w", err)
	}
	employees, err := s.repo.ListEmployees(ctx, actor.TenantID)
	if err != nil {
		return nil, fmt.Errorf("generate payroll: %w", err)
	}
	existing, err := s.repo.ListPayroll(ctx, actor.TenantID, month)
	if err != nil {
		return nil, fmt.Errorf("generate payroll: %w", err)
	}
	covered := make(map[string]bool, len(existing))
	for _, p := range existing {
		covered[p.EmployeeID] = true
	}
	var created []PayrollRecord
	for _, e := range employees {
		if e.Status != EmployeeActive || e.Salary <= 0 || covered[e.ID] {
			continue
		}
		p := PayrollRecord{
			ID:           shared.NewID("PAY"),
			TenantID:     actor.TenantID,
			EmployeeID:   e.ID,
			EmployeeName: e.Name,
			Month:        month,
			Amount:       e.Salary,
			Status:       PayrollPending,
		}
		if err := s.repo.InsertPayroll(ctx, p); err != nil {
			return nil, fmt.Errorf("generate payroll: %w", err)
		}
		created = append(created, p)
	}
	s.logger.InfoContext(ctx, "payroll generated", "month", month, "created", len(created))
	return created, nil
}

// ListPayroll returns payroll records, optionally for one month.
func (s *Service) ListPayroll(ctx context.Context, actor shared.Actor, month string) ([]PayrollRecord, error) {
	if err := s.guard(actor); err != nil {
		return nil, fmt.Errorf("list payroll: %w", err)
	}
	return s.repo.ListPayroll(ctx, actor.TenantID, month)
}

// Disburse pays one payroll record: it gets a disbursement ID, the
// ledger receives a matching debit and the record flips to Paid.
// Paying an already Paid record changes nothing.
func (s *Service) Disburse(ctx context.Context, actor shared.Actor, payrollID, method string) (PayrollRecord, error) {
	if err := s.guard(actor); err != nil {
		return PayrollRecord{}, fmt.Errorf("disburse payroll: %w", err)
	}
	if method == "" {
		method = MethodBank
	}
	var p PayrollRecord
	err := s.inTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.repo.GetPayroll(ctx, actor.TenantID, payrollID)
		if err != nil {
			return err
		}
		if p.Status == PayrollPaid {
			return nil
		}
		n, err := s.repo.CountDisbursed(ctx, actor.TenantID, p.Month)
		if err != nil {
			return err
		}
		p.DisbursementID = fmt.Sprintf("DISB-%s-%d", p.Month, n+1)
		p.PaymentMethod = method
		p.Status = PayrollPaid
		p.Date = s.now().Format("2006-01-02")
		if _, err := s.ledger.AppendSystem(ctx, actor.TenantID, finance.Transaction{
			Date:       p.Date,
			Category:   fmt.Sprintf("Salary: %s [%s]", p.EmployeeName, method),
			Amount:     -math.Abs(p.Amount),
			Type:       finance.TxDebit,
			Status:     finance.StatusCompleted,
			Method:     method,
			EmployeeID: p.EmployeeID,
		}); err != nil {
			return err
		}
		return s.repo.UpdatePayroll(ctx, p)
	})
	if err != nil {
		return PayrollRecord{}, fmt.Errorf("disburse payroll: %w", err)
	}
	s.logger.InfoContext(ctx, "payroll disbursed", "payroll_id", p.ID, "disbursement_id", p.DisbursementID)
	return p, nil
}

// LoanInput carries loan creation fields.
type LoanInput struct {
	Person string  `json:"person" validate:"required"`
	Type   string  `json:"type" validate:"required,oneof=Given Taken"`
	Amount float64 `json:"amount" validate:"gt=0"`
	Date   string  `json:"date" validate:"required"`
}

// CreateLoan records a loan and its ledger movement. Giving a loan is
// an outflow; taking one is an inflow.
func (s *Service) CreateLoan(ctx context.Context, actor shared.Actor, in LoanInput) (LoanRecord, error) {
	if err := s.guard(actor); err != nil {
		return LoanRecord{}, fmt.Errorf("create loan: %w", err)
	}
	l := LoanRecord{
		ID:       shared.NewID("LOAN"),
		TenantID: actor.TenantID,
		Person:   strings.TrimSpace(in.Person),
		Type:     in.Type,
		Amount:   in.Amount,
		Date:     in.Date,
		Status:   LoanActive,
	}
	err := s.inTx(ctx, func(ctx context.Context) error {
		if err := s.repo.InsertLoan(ctx, l); err != nil {
			return err
		}
		tx := finance.Transaction{
			Date:     l.Date,
			Category: "Loan " + l.Type + ": " + l.Person,
		}
		if l.Type == LoanGiven {
			tx.Amount = -l.Amount
			tx.Type = finance.TxDebit
		} else {
			tx.Amount = l.Amount
			tx.Type = finance.TxCredit
		}
		_, err := s.ledger.AppendSystem(ctx, actor.TenantID, tx)
		return err
	})
	if err != nil {
		return LoanRecord{}, fmt.Errorf("create loan: %w", err)
	}
	return l, nil
}

// RepayLoan books a repayment. When the paid amount reaches the
// principal the loan closes.
func (s *Service) RepayLoan(ctx context.Context, actor shared.Actor, loanID string, amount float64, date string) (LoanRecord, error) {
	if err := s.guard(actor); err != nil {
		return LoanRecord{}, fmt.Errorf("repay loan: %w", err)
	}
	if amount <= 0 {
		return LoanRecord{}, fmt.Errorf("repay loan: amount must be positive: %w", httpx.ErrValidation)
	}
	var l LoanRecord
	err := s.inTx(ctx, func(ctx context.Context) error {
		var err error
		l, err = s.repo.GetLoan(ctx, actor.TenantID, loanID)
		if err != nil {
			return err
		}
		if l.Status == LoanClosed {
			return fmt.Errorf("loan %s is closed: %w", l.ID, httpx.ErrInvalidState)
		}
		l.PaidAmount += amount
		if l.Settled() {
			l.Status = LoanClosed
		}
		tx := finance.Transaction{
			Date:     date,
			Category: "Loan repayment: " + l.Person,
		}
		if l.Type == LoanGiven {
			// Money we lent comes back.
			tx.Amount = amount
			tx.Type = finance.TxCredit
		} else {
			tx.Amount = -amount
			tx.Type = finance.TxDebit
		}
		if _, err := s.ledger.AppendSystem(ctx, actor.TenantID, tx); err != nil {
			return err
		}
		return s.repo.UpdateLoan(ctx, l)
	})
	if err != nil {
		return LoanRecord{}, fmt.Errorf("repay loan: %w", err)
	}
	return l, nil
}

// ListLoans returns the tenant's loans.
func (s *Service) ListLoans(ctx context.Context, actor shared.Actor) ([]LoanRecord, error) {
	if err := s.guard(actor); err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return s.repo.ListLoans(ctx, actor.TenantID)
}

// ExpenseInput carries daily expense fields.
type ExpenseInput struct {
	Date     string  `json:"date" validate:"required"`
	Title    string  `json:"title" validate:"required"`
	Amount   float64 `json:"amount" validate:"gt=0"`
	Category string  `json:"category"`
}

// CreateExpense books a petty cash outflow and its ledger debit.
func (s *Service) CreateExpense(ctx context.Context, actor shared.Actor, in ExpenseInput) (DailyExpense, error) {
	if err := s.guard(actor); err != nil {
		return DailyExpense{}, fmt.Errorf("create expense: %w", err)
	}
	e := DailyExpense{
		ID:       shared.NewID("EXP"),
		TenantID: actor.TenantID,
		Date:     in.Date,
		Title:    strings.TrimSpace(in.Title),
		Amount:   in.Amount,
		Category: strings.TrimSpace(in.Category),
	}
	err := s.inTx(ctx, func(ctx context.Context) error {
		if err := s.repo.InsertExpense(ctx, e); err != nil {
			return err
		}
		_, err := s.ledger.AppendSystem(ctx, actor.TenantID, finance.Transaction{
			Date:     e.Date,
			Category: "Expense: " + e.Title,
			Amount:   -e.Amount,
			Type:     finance.TxDebit,
		})
		return err
	})
	if err != nil {
		return DailyExpense{}, fmt.Errorf("create expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns daily expenses.
func (s *Service) ListExpenses(ctx context.Context, actor shared.Actor) ([]DailyExpense, error) {
	if err := s.guard(actor); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return s.repo.ListExpenses(ctx, actor.TenantID)
}
