package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/meridian-books/meridian-books/internal/ledger"
)

// CostCenterShare is the portion of an account's activity attributed to one
// cost center. Entries without a cost center fall under the "—" bucket.
type CostCenterShare struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// IncomeItem is one account line on the income statement. NetAmount follows
// the sign convention of the account type: credit − debit for revenue,
// debit − credit for expense.
type IncomeItem struct {
	AccountCode string             `json:"account_code"`
	AccountName string             `json:"account_name"`
	AccountType ledger.AccountType `json:"account_type"`
	NetAmount   float64            `json:"net_amount"`
	DebitTotal  float64            `json:"debit_total"`
	CreditTotal float64            `json:"credit_total"`
	EntryCount  int                `json:"entry_count"`
	Sources     []string           `json:"sources"`
	CostCenters []CostCenterShare  `json:"cost_centers,omitempty"`
}

// MonthlyTrendPoint is one month of revenue/expense movement for the chart.
type MonthlyTrendPoint struct {
	Month    string  `json:"month"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

// ChartData groups the derived chart series.
type ChartData struct {
	MonthlyTrend []MonthlyTrendPoint `json:"monthlyTrend"`
	TopRevenues  []IncomeItem        `json:"topRevenues"`
	TopExpenses  []IncomeItem        `json:"topExpenses"`
}

// IncomeStatement is the combined aggregator + summary output.
type IncomeStatement struct {
	Revenues         []IncomeItem              `json:"revenues"`
	Expenses         []IncomeItem              `json:"expenses"`
	Unclassified     []IncomeItem              `json:"unclassified"`
	Stats            SummaryStats              `json:"stats"`
	ChartData        ChartData                 `json:"chartData"`
	SourceTypeCounts map[ledger.SourceType]int `json:"sourceTypeCounts"`
	Period           ledger.Period             `json:"period"`
}

type itemAccumulator struct {
	code, name  string
	accountType ledger.AccountType
	debit       decimal.Decimal
	credit      decimal.Decimal
	count       int
	sources     map[ledger.SourceType]struct{}
	costCenters map[string]*CostCenterShare
	ccOrder     []string
}

func (a *itemAccumulator) add(e ledger.Entry) {
	a.debit = a.debit.Add(dec(e.Debit))
	a.credit = a.credit.Add(dec(e.Credit))
	a.count++
	a.sources[e.Source] = struct{}{}

	key := e.CostCenterCode
	if key == "" {
		key = "—"
	}
	share, ok := a.costCenters[key]
	if !ok {
		share = &CostCenterShare{Code: key, Name: e.CostCenterName}
		a.costCenters[key] = share
		a.ccOrder = append(a.ccOrder, key)
	}
	share.Amount = Round2(share.Amount + e.Debit + e.Credit)
}

func (a *itemAccumulator) item() IncomeItem {
	var net decimal.Decimal
	switch a.accountType {
	case ledger.AccountRevenue:
		net = a.credit.Sub(a.debit)
	case ledger.AccountExpense:
		net = a.debit.Sub(a.credit)
	default:
		// Unclassified accounts keep the raw debit − credit movement so the
		// amount is visible without guessing a side.
		net = a.debit.Sub(a.credit)
	}

	sources := make([]string, 0, len(a.sources))
	for s := range a.sources {
		sources = append(sources, string(s))
	}
	sort.Strings(sources)

	centers := make([]CostCenterShare, 0, len(a.ccOrder))
	for _, key := range a.ccOrder {
		centers = append(centers, *a.costCenters[key])
	}

	return IncomeItem{
		AccountCode: a.code,
		AccountName: a.name,
		AccountType: a.accountType,
		NetAmount:   round2(net),
		DebitTotal:  round2(a.debit),
		CreditTotal: round2(a.credit),
		EntryCount:  a.count,
		Sources:     sources,
		CostCenters: centers,
	}
}

// BuildIncomeStatement groups ledger entries by account and derives the
// summary, charts, and per-source counts. Accounts with an unknown type are
// surfaced as a separate unclassified section, never merged into revenue or
// expense.
func BuildIncomeStatement(entries []ledger.Entry, period ledger.Period) IncomeStatement {
	type bucket struct {
		acc   map[string]*itemAccumulator
		order []string
	}
	buckets := map[ledger.AccountType]*bucket{
		ledger.AccountRevenue: {acc: make(map[string]*itemAccumulator)},
		ledger.AccountExpense: {acc: make(map[string]*itemAccumulator)},
		ledger.AccountUnknown: {acc: make(map[string]*itemAccumulator)},
	}
	counts := make(map[ledger.SourceType]int)
	months := make(map[string]*MonthlyTrendPoint)

	for _, e := range entries {
		counts[e.Source]++

		accountType := e.AccountType
		switch accountType {
		case ledger.AccountRevenue, ledger.AccountExpense:
		default:
			accountType = ledger.AccountUnknown
		}

		b := buckets[accountType]
		key := e.AccountCode + "|" + e.AccountName
		acc, ok := b.acc[key]
		if !ok {
			acc = &itemAccumulator{
				code:        e.AccountCode,
				name:        e.AccountName,
				accountType: accountType,
				sources:     make(map[ledger.SourceType]struct{}),
				costCenters: make(map[string]*CostCenterShare),
			}
			b.acc[key] = acc
			b.order = append(b.order, key)
		}
		acc.add(e)

		if !e.Date.IsZero() {
			month := e.Date.Format("2006-01")
			point, ok := months[month]
			if !ok {
				point = &MonthlyTrendPoint{Month: month}
				months[month] = point
			}
			switch accountType {
			case ledger.AccountRevenue:
				point.Revenue = Round2(point.Revenue + e.Credit - e.Debit)
			case ledger.AccountExpense:
				point.Expenses = Round2(point.Expenses + e.Debit - e.Credit)
			}
		}
	}

	collect := func(t ledger.AccountType) []IncomeItem {
		b := buckets[t]
		items := make([]IncomeItem, 0, len(b.order))
		for _, key := range b.order {
			item := b.acc[key].item()
			if item.NetAmount == 0 {
				// Zero-net accounts stay in the entry counts but are not
				// listed as statement lines.
				continue
			}
			items = append(items, item)
		}
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].AccountCode != items[j].AccountCode {
				return items[i].AccountCode < items[j].AccountCode
			}
			return items[i].AccountName < items[j].AccountName
		})
		return items
	}

	revenues := collect(ledger.AccountRevenue)
	expenses := collect(ledger.AccountExpense)
	unclassified := collect(ledger.AccountUnknown)

	stats := ComputeSummary(revenues, expenses, unclassified, len(entries))

	trend := make([]MonthlyTrendPoint, 0, len(months))
	for _, point := range months {
		point.Net = Round2(point.Revenue - point.Expenses)
		trend = append(trend, *point)
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Month < trend[j].Month })

	return IncomeStatement{
		Revenues:     revenues,
		Expenses:     expenses,
		Unclassified: unclassified,
		Stats:        stats,
		ChartData: ChartData{
			MonthlyTrend: trend,
			TopRevenues:  topByNet(revenues, 5),
			TopExpenses:  topByNet(expenses, 5),
		},
		SourceTypeCounts: counts,
		Period:           period,
	}
}

func topByNet(items []IncomeItem, n int) []IncomeItem {
	top := make([]IncomeItem, len(items))
	copy(top, items)
	sort.SliceStable(top, func(i, j int) bool { return top[i].NetAmount > top[j].NetAmount })
	if len(top) > n {
		top = top[:n]
	}
	return top
}
