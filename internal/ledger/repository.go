package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed read access to the financial source
// tables. Every query is scoped by company and inclusive date range; the
// repository never writes.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanDate(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}
	return d.Time
}

func scanTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

// JournalEntries returns posted journal lines joined with their account.
func (r *Repository) JournalEntries(ctx context.Context, f Filter) ([]Entry, error) {
	query := `
		SELECT je.id, je.entry_date, COALESCE(je.entry_number, ''), COALESCE(je.description, ''),
		       COALESCE(je.debit, 0), COALESCE(je.credit, 0), COALESCE(je.account_id, 0),
		       COALESCE(a.account_code, ''), COALESCE(a.account_name, ''), COALESCE(a.type, ''),
		       je.created_at
		FROM journal_entries je
		LEFT JOIN accounts a ON a.id = je.account_id
		WHERE je.company_id = $1
		  AND je.entry_date BETWEEN $2 AND $3
		  AND ($4 = 0 OR je.account_id = $4)
		ORDER BY je.entry_date, je.id`

	rows, err := r.pool.Query(ctx, query, f.CompanyID, f.Period.From, f.Period.To, f.AccountID)
	if err != nil {
		return nil, fmt.Errorf("ledger: query journal entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			id                      int64
			entryDate               pgtype.Date
			number, desc            string
			debit, credit           float64
			accountID               int64
			code, name, accountType string
			createdAt               pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &entryDate, &number, &desc, &debit, &credit, &accountID, &code, &name, &accountType, &createdAt); err != nil {
			return nil, fmt.Errorf("ledger: scan journal entry: %w", err)
		}
		if number == "" {
			number = fmt.Sprintf("JE-%d", id)
		}
		entries = append(entries, Entry{
			ID:             fmt.Sprintf("je-%d", id),
			Date:           scanDate(entryDate),
			DocumentNumber: number,
			Description:    desc,
			AccountID:      accountID,
			AccountCode:    code,
			AccountName:    name,
			AccountType:    NormalizeAccountType(accountType),
			Debit:          debit,
			Credit:         credit,
			Source:         SourceJournal,
			CreatedAt:      scanTime(createdAt),
		})
	}
	return entries, rows.Err()
}

// MonthlyExpenses returns operational expense records with their cost center.
func (r *Repository) MonthlyExpenses(ctx context.Context, f Filter) ([]Entry, error) {
	query := `
		SELECT me.id, me.expense_date, COALESCE(me.description, ''), COALESCE(me.expense_type, ''),
		       COALESCE(me.net_amount, me.amount, 0), COALESCE(me.account_id, 0),
		       COALESCE(a.account_code, ''), COALESCE(a.account_name, ''), COALESCE(a.type, ''),
		       COALESCE(me.cost_center_id, 0), COALESCE(cc.center_code, ''), COALESCE(cc.center_name, ''),
		       COALESCE(me.employee_name, ''), me.created_at
		FROM monthly_expenses me
		LEFT JOIN accounts a ON a.id = me.account_id
		LEFT JOIN cost_centers cc ON cc.id = me.cost_center_id
		WHERE me.company_id = $1
		  AND me.expense_date BETWEEN $2 AND $3
		  AND ($4 = 0 OR me.account_id = $4)
		  AND ($5 = 0 OR me.cost_center_id = $5)
		ORDER BY me.expense_date, me.id`

	rows, err := r.pool.Query(ctx, query, f.CompanyID, f.Period.From, f.Period.To, f.AccountID, f.CostCenterID)
	if err != nil {
		return nil, fmt.Errorf("ledger: query monthly expenses: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			id                      int64
			expenseDate             pgtype.Date
			desc, expenseType       string
			amount                  float64
			accountID               int64
			code, name, accountType string
			ccID                    int64
			ccCode, ccName          string
			employee                string
			createdAt               pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &expenseDate, &desc, &expenseType, &amount, &accountID, &code, &name, &accountType, &ccID, &ccCode, &ccName, &employee, &createdAt); err != nil {
			return nil, fmt.Errorf("ledger: scan monthly expense: %w", err)
		}
		if desc == "" {
			desc = expenseType
		}
		accType := NormalizeAccountType(accountType)
		if accType == AccountUnknown && accountID == 0 {
			// Operational expenses without a mapped account are still expenses.
			accType = AccountExpense
		}
		accName := name
		if accName == "" {
			accName = expenseType
		}
		entries = append(entries, Entry{
			ID:             fmt.Sprintf("mexp-%d", id),
			Date:           scanDate(expenseDate),
			DocumentNumber: fmt.Sprintf("MEXP-%d", id),
			Description:    desc,
			AccountID:      accountID,
			AccountCode:    code,
			AccountName:    accName,
			AccountType:    accType,
			CostCenterID:   ccID,
			CostCenterCode: ccCode,
			CostCenterName: ccName,
			Debit:          amount,
			Source:         SourceMonthlyExpense,
			EmployeeName:   employee,
			CreatedAt:      scanTime(createdAt),
		})
	}
	return entries, rows.Err()
}

// Expenses returns the generic expense records.
func (r *Repository) Expenses(ctx context.Context, f Filter) ([]Entry, error) {
	query := `
		SELECT e.id, e.expense_date, COALESCE(e.description, ''), COALESCE(e.amount, 0),
		       COALESCE(e.account_id, 0), COALESCE(a.account_code, ''), COALESCE(a.account_name, ''),
		       COALESCE(a.type, ''), e.created_at
		FROM expenses e
		LEFT JOIN accounts a ON a.id = e.account_id
		WHERE e.company_id = $1
		  AND e.expense_date BETWEEN $2 AND $3
		  AND ($4 = 0 OR e.account_id = $4)
		ORDER BY e.expense_date, e.id`

	rows, err := r.pool.Query(ctx, query, f.CompanyID, f.Period.From, f.Period.To, f.AccountID)
	if err != nil {
		return nil, fmt.Errorf("ledger: query expenses: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			id                      int64
			expenseDate             pgtype.Date
			desc                    string
			amount                  float64
			accountID               int64
			code, name, accountType string
			createdAt               pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &expenseDate, &desc, &amount, &accountID, &code, &name, &accountType, &createdAt); err != nil {
			return nil, fmt.Errorf("ledger: scan expense: %w", err)
		}
		accType := NormalizeAccountType(accountType)
		if accType == AccountUnknown && accountID == 0 {
			accType = AccountExpense
		}
		if name == "" {
			name = "General expense"
		}
		entries = append(entries, Entry{
			ID:             fmt.Sprintf("exp-%d", id),
			Date:           scanDate(expenseDate),
			DocumentNumber: fmt.Sprintf("EXP-%d", id),
			Description:    desc,
			AccountID:      accountID,
			AccountCode:    code,
			AccountName:    name,
			AccountType:    accType,
			Debit:          amount,
			Source:         SourceExpense,
			CreatedAt:      scanTime(createdAt),
		})
	}
	return entries, rows.Err()
}

// Default account postings for documents that carry no explicit account.
const (
	salesAccountCode   = "4101"
	payrollAccountCode = "5101"
)

// SalesInvoices returns invoices posted against the default sales account.
func (r *Repository) SalesInvoices(ctx context.Context, f Filter) ([]Entry, error) {
	query := `
		SELECT si.id, si.issue_date, COALESCE(si.invoice_number, ''), COALESCE(si.client_name, ''),
		       COALESCE(si.total_amount, 0), si.created_at
		FROM sales_invoices si
		WHERE si.company_id = $1
		  AND si.issue_date BETWEEN $2 AND $3
		ORDER BY si.issue_date, si.id`

	rows, err := r.pool.Query(ctx, query, f.CompanyID, f.Period.From, f.Period.To)
	if err != nil {
		return nil, fmt.Errorf("ledger: query sales invoices: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			id           int64
			issueDate    pgtype.Date
			number, name string
			total        float64
			createdAt    pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &issueDate, &number, &name, &total, &createdAt); err != nil {
			return nil, fmt.Errorf("ledger: scan sales invoice: %w", err)
		}
		if number == "" {
			number = fmt.Sprintf("INV-%d", id)
		}
		entries = append(entries, Entry{
			ID:             fmt.Sprintf("inv-%d", id),
			Date:           scanDate(issueDate),
			DocumentNumber: number,
			Description:    "Sales invoice: " + name,
			AccountCode:    salesAccountCode,
			AccountName:    "Sales",
			AccountType:    AccountRevenue,
			Credit:         total,
			Source:         SourceInvoice,
			CreatedAt:      scanTime(createdAt),
		})
	}
	return entries, rows.Err()
}

// CreditNotes returns credit notes as revenue-side debits (sales returns).
func (r *Repository) CreditNotes(ctx context.Context, f Filter) ([]Entry, error) {
	query := `
		SELECT cn.id, COALESCE(cn.credit_note_number, ''), COALESCE(cn.client_name, ''),
		       COALESCE(cn.reason, ''), COALESCE(cn.total_amount, 0), cn.created_at
		FROM credit_notes cn
		WHERE cn.company_id = $1
		  AND cn.created_at::date BETWEEN $2 AND $3
		ORDER BY cn.created_at, cn.id`

	rows, err := r.pool.Query(ctx, query, f.CompanyID, f.Period.From, f.Period.To)
	if err != nil {
		return nil, fmt.Errorf("ledger: query credit notes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			id                   int64
			number, name, reason string
			total                float64
			createdAt            pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &number, &name, &reason, &total, &createdAt); err != nil {
			return nil, fmt.Errorf("ledger: scan credit note: %w", err)
		}
		if number == "" {
			number = fmt.Sprintf("CN-%d", id)
		}
		desc := "Credit note for " + name
		if reason != "" {
			desc += ": " + reason
		}
		created := scanTime(createdAt)
		entries = append(entries, Entry{
			ID:             fmt.Sprintf("cn-%d", id),
			Date:           created.Truncate(24 * time.Hour),
			DocumentNumber: number,
			Description:    desc,
			AccountCode:    salesAccountCode,
			AccountName:    "Sales returns",
			AccountType:    AccountRevenue,
			Debit:          total,
			Source:         SourceCreditNote,
			CreatedAt:      created,
		})
	}
	return entries, rows.Err()
}

// ReceiptVouchers returns cash receipts.
func (r *Repository) ReceiptVouchers(ctx context.Context, f Filter) ([]Entry, error) {
	query := `
		SELECT rv.id, rv.receipt_date, COALESCE(rv.receipt_number, ''), COALESCE(rv.received_from, ''),
		       COALESCE(rv.description, ''), COALESCE(rv.debit_account_code, rv.credit_account_code, ''),
		       COALESCE(rv.debit_cost_center, rv.credit_cost_center, ''), COALESCE(rv.total_amount, 0),
		       rv.created_at
		FROM receipt_vouchers rv
		WHERE rv.company_id = $1
		  AND rv.receipt_date BETWEEN $2 AND $3
		ORDER BY rv.receipt_date, rv.id`

	rows, err := r.pool.Query(ctx, query, f.CompanyID, f.Period.From, f.Period.To)
	if err != nil {
		return nil, fmt.Errorf("ledger: query receipt vouchers: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			id                 int64
			receiptDate        pgtype.Date
			number, from, desc string
			accountCode        string
			costCenter         string
			total              float64
			createdAt          pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &receiptDate, &number, &from, &desc, &accountCode, &costCenter, &total, &createdAt); err != nil {
			return nil, fmt.Errorf("ledger: scan receipt voucher: %w", err)
		}
		if number == "" {
			number = fmt.Sprintf("RV-%d", id)
		}
		full := "Receipt from " + from
		if desc != "" {
			full += " - " + desc
		}
		entries = append(entries, Entry{
			ID:             fmt.Sprintf("rv-%d", id),
			Date:           scanDate(receiptDate),
			DocumentNumber: number,
			Description:    full,
			AccountCode:    accountCode,
			AccountName:    "Receipt voucher",
			AccountType:    AccountAsset,
			CostCenterCode: costCenter,
			Debit:          total,
			Source:         SourceReceiptVoucher,
			CreatedAt:      scanTime(createdAt),
		})
	}
	return entries, rows.Err()
}

// PaymentVouchers returns cash payments.
func (r *Repository) PaymentVouchers(ctx context.Context, f Filter) ([]Entry, error) {
	query := `
		SELECT pv.id, pv.voucher_date, COALESCE(pv.voucher_number, ''), COALESCE(pv.payee_name, ''),
		       COALESCE(pv.description, ''), COALESCE(pv.credit_account_code, pv.debit_account_code, ''),
		       COALESCE(pv.debit_account_name, ''), COALESCE(pv.credit_cost_center, pv.debit_cost_center, ''),
		       COALESCE(pv.total_amount, 0), pv.created_at
		FROM payment_vouchers pv
		WHERE pv.company_id = $1
		  AND pv.voucher_date BETWEEN $2 AND $3
		ORDER BY pv.voucher_date, pv.id`

	rows, err := r.pool.Query(ctx, query, f.CompanyID, f.Period.From, f.Period.To)
	if err != nil {
		return nil, fmt.Errorf("ledger: query payment vouchers: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			id                  int64
			voucherDate         pgtype.Date
			number, payee, desc string
			accountCode         string
			accountName         string
			costCenter          string
			total               float64
			createdAt           pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &voucherDate, &number, &payee, &desc, &accountCode, &accountName, &costCenter, &total, &createdAt); err != nil {
			return nil, fmt.Errorf("ledger: scan payment voucher: %w", err)
		}
		if number == "" {
			number = fmt.Sprintf("PV-%d", id)
		}
		if accountName == "" {
			accountName = "Payment voucher"
		}
		full := "Payment to " + payee
		if desc != "" {
			full += " - " + desc
		}
		entries = append(entries, Entry{
			ID:             fmt.Sprintf("pv-%d", id),
			Date:           scanDate(voucherDate),
			DocumentNumber: number,
			Description:    full,
			AccountCode:    accountCode,
			AccountName:    accountName,
			AccountType:    AccountAsset,
			CostCenterCode: costCenter,
			Credit:         total,
			Source:         SourcePaymentVoucher,
			CreatedAt:      scanTime(createdAt),
		})
	}
	return entries, rows.Err()
}

// ManualIncome returns manually captured income records.
func (r *Repository) ManualIncome(ctx context.Context, f Filter) ([]Entry, error) {
	query := `
		SELECT mi.id, mi.income_date, COALESCE(mi.operation_number, ''), COALESCE(mi.income_type, ''),
		       COALESCE(mi.description, ''), COALESCE(mi.total, 0), COALESCE(mi.account_id, 0),
		       COALESCE(a.account_code, ''), COALESCE(a.account_name, ''), COALESCE(a.type, ''),
		       COALESCE(mi.cost_center_id, 0), COALESCE(cc.center_code, ''), COALESCE(cc.center_name, ''),
		       mi.created_at
		FROM manual_income mi
		LEFT JOIN accounts a ON a.id = mi.account_id
		LEFT JOIN cost_centers cc ON cc.id = mi.cost_center_id
		WHERE mi.company_id = $1
		  AND mi.income_date BETWEEN $2 AND $3
		  AND ($4 = 0 OR mi.account_id = $4)
		  AND ($5 = 0 OR mi.cost_center_id = $5)
		ORDER BY mi.income_date, mi.id`

	rows, err := r.pool.Query(ctx, query, f.CompanyID, f.Period.From, f.Period.To, f.AccountID, f.CostCenterID)
	if err != nil {
		return nil, fmt.Errorf("ledger: query manual income: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			id                       int64
			incomeDate               pgtype.Date
			number, incomeType, desc string
			total                    float64
			accountID                int64
			code, name, accountType  string
			ccID                     int64
			ccCode, ccName           string
			createdAt                pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &incomeDate, &number, &incomeType, &desc, &total, &accountID, &code, &name, &accountType, &ccID, &ccCode, &ccName, &createdAt); err != nil {
			return nil, fmt.Errorf("ledger: scan manual income: %w", err)
		}
		if number == "" {
			number = fmt.Sprintf("INC-%d", id)
		}
		accType := NormalizeAccountType(accountType)
		if accType == AccountUnknown && accountID == 0 {
			accType = AccountRevenue
		}
		accName := name
		if accName == "" {
			accName = incomeType
		}
		full := incomeType
		if desc != "" {
			full += ": " + desc
		}
		entries = append(entries, Entry{
			ID:             fmt.Sprintf("mi-%d", id),
			Date:           scanDate(incomeDate),
			DocumentNumber: number,
			Description:    full,
			AccountID:      accountID,
			AccountCode:    code,
			AccountName:    accName,
			AccountType:    accType,
			CostCenterID:   ccID,
			CostCenterCode: ccCode,
			CostCenterName: ccName,
			Credit:         total,
			Source:         SourceManualIncome,
			CreatedAt:      scanTime(createdAt),
		})
	}
	return entries, rows.Err()
}

// SalaryPayrolls returns confirmed payroll runs posted against the default
// payroll account. Drafts are skipped unless the filter asks for them;
// including unposted payrolls would double-count salaries.
func (r *Repository) SalaryPayrolls(ctx context.Context, f Filter) ([]Entry, error) {
	query := `
		SELECT sp.id, sp.payroll_month, COALESCE(sp.total_amount, 0), COALESCE(sp.is_draft, false),
		       sp.created_at
		FROM salary_payrolls sp
		WHERE sp.company_id = $1
		  AND sp.payroll_month BETWEEN $2 AND $3
		  AND ($4 OR COALESCE(sp.is_draft, false) = false)
		ORDER BY sp.payroll_month, sp.id`

	rows, err := r.pool.Query(ctx, query, f.CompanyID, f.Period.From, f.Period.To, f.IncludeDrafts)
	if err != nil {
		return nil, fmt.Errorf("ledger: query salary payrolls: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			id           int64
			payrollMonth pgtype.Date
			total        float64
			isDraft      bool
			createdAt    pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &payrollMonth, &total, &isDraft, &createdAt); err != nil {
			return nil, fmt.Errorf("ledger: scan salary payroll: %w", err)
		}
		month := scanDate(payrollMonth)
		entries = append(entries, Entry{
			ID:             fmt.Sprintf("sp-%d", id),
			Date:           month,
			DocumentNumber: fmt.Sprintf("PAY-%d", id),
			Description:    "Salary payroll for " + month.Format("2006-01"),
			AccountCode:    payrollAccountCode,
			AccountName:    "Salaries and employee benefits",
			AccountType:    AccountExpense,
			Debit:          total,
			Source:         SourcePayroll,
			CreatedAt:      scanTime(createdAt),
		})
	}
	return entries, rows.Err()
}
