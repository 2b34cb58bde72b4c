package reports

import "github.com/shopspring/decimal"

// SummaryStats holds the top-level income statement totals.
type SummaryStats struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalExpenses     float64 `json:"totalExpenses"`
	NetIncome         float64 `json:"netIncome"`
	IsProfit          bool    `json:"isProfit"`
	ProfitMargin      float64 `json:"profitMargin"`
	UnclassifiedTotal float64 `json:"unclassifiedTotal"`
	RevenueAccounts   int     `json:"revenueAccountsCount"`
	ExpenseAccounts   int     `json:"expenseAccountsCount"`
	TotalEntries      int     `json:"totalEntries"`
}

// ComputeSummary derives the report totals from the grouped account lines.
// profitMargin is zero when there is no revenue; a division by zero must
// never leak into the payload as NaN.
func ComputeSummary(revenues, expenses, unclassified []IncomeItem, entryCount int) SummaryStats {
	var revenue, expense, other decimal.Decimal
	for _, item := range revenues {
		revenue = revenue.Add(dec(item.NetAmount))
	}
	for _, item := range expenses {
		expense = expense.Add(dec(item.NetAmount))
	}
	for _, item := range unclassified {
		other = other.Add(dec(item.NetAmount))
	}

	net := revenue.Sub(expense)
	margin := decimal.Zero
	if revenue.IsPositive() {
		margin = net.Div(revenue).Mul(decimal.NewFromInt(100))
	}

	return SummaryStats{
		TotalRevenue:      round2(revenue),
		TotalExpenses:     round2(expense),
		NetIncome:         round2(net),
		IsProfit:          !net.IsNegative(),
		ProfitMargin:      round2(margin),
		UnclassifiedTotal: round2(other),
		RevenueAccounts:   len(revenues),
		ExpenseAccounts:   len(expenses),
		TotalEntries:      entryCount,
	}
}
