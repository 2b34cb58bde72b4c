package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/meridian-books/meridian-books/internal/shared"
)

// SourceType identifies the business document a ledger entry originated from.
type SourceType string

const (
	SourceJournal        SourceType = "journal_entry"
	SourceMonthlyExpense SourceType = "monthly_expense"
	SourceExpense        SourceType = "expense"
	SourceInvoice        SourceType = "sales_invoice"
	SourceCreditNote     SourceType = "credit_note"
	SourceReceiptVoucher SourceType = "receipt_voucher"
	SourcePaymentVoucher SourceType = "payment_voucher"
	SourceManualIncome   SourceType = "manual_income"
	SourcePayroll        SourceType = "salary_payroll"
)

// AllSources lists every source table in aggregation order.
var AllSources = []SourceType{
	SourceJournal,
	SourceMonthlyExpense,
	SourceExpense,
	SourceInvoice,
	SourceCreditNote,
	SourceReceiptVoucher,
	SourcePaymentVoucher,
	SourceManualIncome,
	SourcePayroll,
}

// ParseSourceFilter maps the external source filter value to the concrete
// source tables it covers. "all" and the empty string select everything;
// anything else is shared.ErrUnknownSource.
func ParseSourceFilter(value string) ([]SourceType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all":
		return nil, nil
	case "journal":
		return []SourceType{SourceJournal}, nil
	case "expense":
		return []SourceType{SourceMonthlyExpense, SourceExpense}, nil
	case "deduction":
		return []SourceType{SourceCreditNote}, nil
	case "payroll":
		return []SourceType{SourcePayroll}, nil
	case "invoice":
		return []SourceType{SourceInvoice}, nil
	case "voucher":
		return []SourceType{SourceReceiptVoucher, SourcePaymentVoucher}, nil
	case "income":
		return []SourceType{SourceManualIncome}, nil
	}
	return nil, fmt.Errorf("%w: %q", shared.ErrUnknownSource, value)
}

// AccountType classifies a ledger account; it determines the sign convention
// for net amounts. Unknown is the unclassified bucket.
type AccountType string

const (
	AccountRevenue   AccountType = "revenue"
	AccountExpense   AccountType = "expense"
	AccountAsset     AccountType = "asset"
	AccountLiability AccountType = "liability"
	AccountEquity    AccountType = "equity"
	AccountUnknown   AccountType = ""
)

// NormalizeAccountType maps raw account type values, including the legacy
// Arabic labels still present in older tenants, onto the canonical set.
func NormalizeAccountType(raw string) AccountType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "revenue", "income", "ايراد", "إيراد", "ايرادات":
		return AccountRevenue
	case "expense", "cogs", "مصروف", "مصروفات":
		return AccountExpense
	case "asset", "اصل", "أصل":
		return AccountAsset
	case "liability", "التزام":
		return AccountLiability
	case "equity", "حقوق ملكية":
		return AccountEquity
	}
	return AccountUnknown
}

// Entry is one posted financial movement in the common ledger shape. Entries
// are immutable once produced by the repository; every report is built from
// read-only slices of them.
type Entry struct {
	ID             string      `json:"id"`
	Date           time.Time   `json:"date"`
	DocumentNumber string      `json:"document_number"`
	Description    string      `json:"description"`
	AccountID      int64       `json:"account_id,omitempty"`
	AccountCode    string      `json:"account_code"`
	AccountName    string      `json:"account_name"`
	AccountType    AccountType `json:"account_type"`
	CostCenterID   int64       `json:"cost_center_id,omitempty"`
	CostCenterCode string      `json:"cost_center_code"`
	CostCenterName string      `json:"cost_center_name"`
	Debit          float64     `json:"debit"`
	Credit         float64     `json:"credit"`
	Source         SourceType  `json:"source"`
	EmployeeName   string      `json:"employee_name,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// Period is an inclusive calendar-date range scoping a report request.
type Period struct {
	From time.Time `json:"fromDate"`
	To   time.Time `json:"toDate"`
}

// Contains reports whether d falls inside the period, bounds inclusive.
func (p Period) Contains(d time.Time) bool {
	return !d.Before(p.From) && !d.After(p.To)
}

// Filter scopes a ledger aggregation request. CompanyID is mandatory: a
// missing tenant scope must reject the request, never widen it.
type Filter struct {
	CompanyID     int64 `validate:"required,gt=0"`
	Period        Period
	Sources       []SourceType
	AccountID     int64
	CostCenterID  int64
	IncludeDrafts bool
}

// WantsSource reports whether the filter selects the given source table.
func (f Filter) WantsSource(s SourceType) bool {
	if len(f.Sources) == 0 {
		return true
	}
	for _, want := range f.Sources {
		if want == s {
			return true
		}
	}
	return false
}
