package reports

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/meridian-books/meridian-books/internal/ledger"
	"github.com/meridian-books/meridian-books/internal/shared"
)

// GLRow is one display row of the general ledger with its running balance.
type GLRow struct {
	ledger.Entry
	Balance float64 `json:"balance"`
}

// GLStats summarises the filtered ledger window.
type GLStats struct {
	TotalDebit     float64 `json:"totalDebit"`
	TotalCredit    float64 `json:"totalCredit"`
	FinalBalance   float64 `json:"finalBalance"`
	EntriesCount   int     `json:"entriesCount"`
	ActiveAccounts int     `json:"activeAccounts"`
}

// GLAccountActivity is one account's share of total movement.
type GLAccountActivity struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// GLMonthPoint is the debit movement for one month.
type GLMonthPoint struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// GLChartData groups the general ledger chart series.
type GLChartData struct {
	MonthlyTrend           []GLMonthPoint      `json:"monthlyTrend"`
	TopAccounts            []GLAccountActivity `json:"topAccounts"`
	CostCenterDistribution []GLAccountActivity `json:"costCenterDistribution"`
}

// GeneralLedger is the paginated ledger view.
type GeneralLedger struct {
	Entries    []GLRow           `json:"entries"`
	Stats      GLStats           `json:"stats"`
	ChartData  GLChartData       `json:"chartData"`
	Pagination shared.Pagination `json:"pagination"`
	Period     ledger.Period     `json:"period"`
}

// matchesSearch does a case-insensitive substring match over the fields the
// ledger screen searches on.
func matchesSearch(e ledger.Entry, needle string) bool {
	if needle == "" {
		return true
	}
	needle = strings.ToLower(needle)
	for _, field := range []string{e.Description, e.DocumentNumber, e.AccountCode, e.AccountName} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// SortEntries orders entries by date then document number. The key is stable
// across requests so pagination and CSV export never reorder rows with equal
// dates.
func SortEntries(entries []ledger.Entry) []ledger.Entry {
	sorted := make([]ledger.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].DocumentNumber < sorted[j].DocumentNumber
	})
	return sorted
}

// BuildGeneralLedger filters, sorts, and paginates ledger entries, computing
// the running balance oldest-first over the filtered window. An opening
// balance from before the window is not fetched; the balance column starts
// at zero, matching the ledger screen's behavior.
func BuildGeneralLedger(entries []ledger.Entry, period ledger.Period, search string, page, perPage int) GeneralLedger {
	filtered := make([]ledger.Entry, 0, len(entries))
	for _, e := range entries {
		if matchesSearch(e, search) {
			filtered = append(filtered, e)
		}
	}
	sorted := SortEntries(filtered)

	rows := make([]GLRow, len(sorted))
	var balance, totalDebit, totalCredit decimal.Decimal
	accounts := make(map[string]*GLAccountActivity)
	var accountOrder []string
	centers := make(map[string]*GLAccountActivity)
	var centerOrder []string
	months := make(map[string]float64)

	for i, e := range sorted {
		balance = balance.Add(dec(e.Debit)).Sub(dec(e.Credit))
		totalDebit = totalDebit.Add(dec(e.Debit))
		totalCredit = totalCredit.Add(dec(e.Credit))
		rows[i] = GLRow{Entry: e, Balance: round2(balance)}

		if e.AccountCode != "" {
			acc, ok := accounts[e.AccountCode]
			if !ok {
				acc = &GLAccountActivity{Code: e.AccountCode, Name: e.AccountName}
				accounts[e.AccountCode] = acc
				accountOrder = append(accountOrder, e.AccountCode)
			}
			acc.Total = Round2(acc.Total + e.Debit + e.Credit)
		}
		if e.CostCenterCode != "" {
			cc, ok := centers[e.CostCenterCode]
			if !ok {
				cc = &GLAccountActivity{Code: e.CostCenterCode, Name: e.CostCenterName}
				centers[e.CostCenterCode] = cc
				centerOrder = append(centerOrder, e.CostCenterCode)
			}
			cc.Total = Round2(cc.Total + e.Debit + e.Credit)
		}
		if !e.Date.IsZero() {
			month := e.Date.Format("2006-01")
			months[month] = Round2(months[month] + e.Debit)
		}
	}

	topAccounts := make([]GLAccountActivity, 0, len(accountOrder))
	for _, code := range accountOrder {
		topAccounts = append(topAccounts, *accounts[code])
	}
	sort.SliceStable(topAccounts, func(i, j int) bool { return topAccounts[i].Total > topAccounts[j].Total })
	if len(topAccounts) > 10 {
		topAccounts = topAccounts[:10]
	}

	distribution := make([]GLAccountActivity, 0, len(centerOrder))
	for _, code := range centerOrder {
		distribution = append(distribution, *centers[code])
	}
	sort.SliceStable(distribution, func(i, j int) bool { return distribution[i].Code < distribution[j].Code })

	trend := make([]GLMonthPoint, 0, len(months))
	for month, amount := range months {
		trend = append(trend, GLMonthPoint{Month: month, Amount: amount})
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Month < trend[j].Month })

	pagination := shared.NewPagination(page, perPage, len(rows))
	start, end := pagination.Bounds(len(rows))

	return GeneralLedger{
		Entries: rows[start:end],
		Stats: GLStats{
			TotalDebit:     round2(totalDebit),
			TotalCredit:    round2(totalCredit),
			FinalBalance:   round2(totalDebit.Sub(totalCredit)),
			EntriesCount:   len(rows),
			ActiveAccounts: len(accounts),
		},
		ChartData: GLChartData{
			MonthlyTrend:           trend,
			TopAccounts:            topAccounts,
			CostCenterDistribution: distribution,
		},
		Pagination: pagination,
		Period:     period,
	}
}

// AllRows returns the full sorted ledger with balances, for CSV export. The
// row order matches the paginated display order.
func AllRows(entries []ledger.Entry, search string) []GLRow {
	gl := BuildGeneralLedger(entries, ledger.Period{}, search, 1, len(entries)+1)
	return gl.Entries
}
