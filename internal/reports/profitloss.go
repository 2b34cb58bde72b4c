package reports

import (
	"github.com/shopspring/decimal"

	"github.com/meridian-books/meridian-books/internal/ledger"
)

// vatDivisor strips the 15% VAT embedded in gross invoice totals.
var vatDivisor = decimal.NewFromFloat(1.15)

// ProfitLossSummary breaks net profit down by contributing source.
type ProfitLossSummary struct {
	InvoiceTotal           float64 `json:"invoiceTotal"`
	InvoiceTotalWithTax    float64 `json:"invoiceTotalWithTax"`
	InvoiceTotalWithoutTax float64 `json:"invoiceTotalWithoutTax"`
	CreditNotesTotal       float64 `json:"creditNotesTotal"`
	ManualIncomeTotal      float64 `json:"manualIncomeTotal"`
	ReceiptVouchersTotal   float64 `json:"receiptVouchersTotal"`
	TotalIncome            float64 `json:"totalIncome"`
	ExpensesTotal          float64 `json:"expensesTotal"`
	PaymentVouchersTotal   float64 `json:"paymentVouchersTotal"`
	PayrollsTotal          float64 `json:"payrollsTotal"`
	TotalExpenses          float64 `json:"totalExpenses"`
	NetProfit              float64 `json:"netProfit"`
	ProfitMargin           float64 `json:"profitMargin"`
	IsProfit               bool    `json:"isProfit"`
}

// ProfitLoss is the per-source profit & loss report.
type ProfitLoss struct {
	Summary    ProfitLossSummary         `json:"summary"`
	Counts     map[ledger.SourceType]int `json:"counts"`
	Period     ledger.Period             `json:"period"`
	IncludeTax bool                      `json:"includeTax"`
}

// BuildProfitLoss totals each source's contribution and derives net profit.
// Income = invoices (gross, or net of VAT when includeTax is false) − credit
// notes + manual income + receipt vouchers. Expenses = expense records +
// payment vouchers + payrolls.
func BuildProfitLoss(entries []ledger.Entry, period ledger.Period, includeTax bool) ProfitLoss {
	totals := make(map[ledger.SourceType]decimal.Decimal)
	counts := make(map[ledger.SourceType]int)
	for _, e := range entries {
		amount := dec(e.Debit).Add(dec(e.Credit))
		totals[e.Source] = totals[e.Source].Add(amount)
		counts[e.Source]++
	}

	invoiceGross := totals[ledger.SourceInvoice]
	invoiceNet := invoiceGross.Div(vatDivisor)
	invoiceValue := invoiceGross
	if !includeTax {
		invoiceValue = invoiceNet
	}

	creditNotes := totals[ledger.SourceCreditNote]
	manualIncome := totals[ledger.SourceManualIncome]
	receipts := totals[ledger.SourceReceiptVoucher]
	expenses := totals[ledger.SourceMonthlyExpense].Add(totals[ledger.SourceExpense])
	payments := totals[ledger.SourcePaymentVoucher]
	payrolls := totals[ledger.SourcePayroll]

	income := invoiceValue.Sub(creditNotes).Add(manualIncome).Add(receipts)
	expense := expenses.Add(payments).Add(payrolls)
	net := income.Sub(expense)

	margin := decimal.Zero
	if income.IsPositive() {
		margin = net.Div(income).Mul(decimal.NewFromInt(100))
	}

	return ProfitLoss{
		Summary: ProfitLossSummary{
			InvoiceTotal:           round2(invoiceValue),
			InvoiceTotalWithTax:    round2(invoiceGross),
			InvoiceTotalWithoutTax: round2(invoiceNet),
			CreditNotesTotal:       round2(creditNotes),
			ManualIncomeTotal:      round2(manualIncome),
			ReceiptVouchersTotal:   round2(receipts),
			TotalIncome:            round2(income),
			ExpensesTotal:          round2(expenses),
			PaymentVouchersTotal:   round2(payments),
			PayrollsTotal:          round2(payrolls),
			TotalExpenses:          round2(expense),
			NetProfit:              round2(net),
			ProfitMargin:           round2(margin),
			IsProfit:               !net.IsNegative(),
		},
		Counts:     counts,
		Period:     period,
		IncludeTax: includeTax,
	}
}
