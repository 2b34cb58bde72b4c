package export

import (
	"encoding/csv"
	"io"

	"github.com/meridian-books/meridian-books/internal/reports"
)

// utf8BOM makes spreadsheet tools detect UTF-8; the exports carry non-ASCII
// account names.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const (
	revenuesMarker = "--- Revenues ---"
	expensesMarker = "--- Expenses ---"
)

// WriteIncomeStatementCSV serialises the income statement in display order:
// header, revenues marker and rows, revenue total, expenses marker and rows,
// expense total, net income. Rows are emitted exactly as sorted by the
// builder; the exporter never re-sorts.
func WriteIncomeStatementCSV(w io.Writer, statement reports.IncomeStatement) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Account Name", "Account Code", "Amount"}); err != nil {
		return err
	}

	if err := writer.Write([]string{revenuesMarker, "", ""}); err != nil {
		return err
	}
	for _, item := range statement.Revenues {
		if err := writer.Write([]string{item.AccountName, item.AccountCode, reports.FormatAmount(item.NetAmount)}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{"Total Revenue", "", reports.FormatAmount(statement.Stats.TotalRevenue)}); err != nil {
		return err
	}

	if err := writer.Write([]string{expensesMarker, "", ""}); err != nil {
		return err
	}
	for _, item := range statement.Expenses {
		if err := writer.Write([]string{item.AccountName, item.AccountCode, reports.FormatAmount(item.NetAmount)}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{"Total Expenses", "", reports.FormatAmount(statement.Stats.TotalExpenses)}); err != nil {
		return err
	}

	if err := writer.Write([]string{"Net Income", "", reports.FormatAmount(statement.Stats.NetIncome)}); err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}

// WriteGeneralLedgerCSV serialises ledger rows with their running balance in
// the same order the ledger screen displays them.
func WriteGeneralLedgerCSV(w io.Writer, rows []reports.GLRow) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"Date", "Document", "Description", "Account Code", "Account Name", "Cost Center", "Debit", "Credit", "Balance"}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		costCenter := row.CostCenterCode
		if costCenter == "" {
			costCenter = "—"
		}
		record := []string{
			row.Date.Format("2006-01-02"),
			row.DocumentNumber,
			row.Description,
			row.AccountCode,
			row.AccountName,
			costCenter,
			reports.FormatAmount(row.Debit),
			reports.FormatAmount(row.Credit),
			reports.FormatAmount(row.Balance),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
