package reports

import (
	"testing"

	"github.com/meridian-books/meridian-books/internal/ledger"
)

func glEntries() []ledger.Entry {
	return []ledger.Entry{
		{ID: "je-2", Date: day(2025, 1, 10), DocumentNumber: "JE-2", Description: "Office rent", AccountCode: "5000", AccountName: "Rent", Debit: 400, Source: ledger.SourceJournal},
		{ID: "inv-1", Date: day(2025, 1, 5), DocumentNumber: "INV-1", Description: "Sales invoice: Acme", AccountCode: "4101", AccountName: "Sales", Credit: 1000, Source: ledger.SourceInvoice},
		{ID: "je-1", Date: day(2025, 1, 10), DocumentNumber: "JE-1", Description: "Utilities", AccountCode: "5100", AccountName: "Utilities", Debit: 100, Source: ledger.SourceJournal},
	}
}

func TestBuildGeneralLedgerSortAndBalance(t *testing.T) {
	gl := BuildGeneralLedger(glEntries(), testPeriod(), "", 1, 50)

	if len(gl.Entries) != 3 {
		t.Fatalf("expected 3 rows got %d", len(gl.Entries))
	}
	// Date ascending, document number breaking the tie.
	if gl.Entries[0].DocumentNumber != "INV-1" || gl.Entries[1].DocumentNumber != "JE-1" || gl.Entries[2].DocumentNumber != "JE-2" {
		t.Fatalf("unexpected row order: %s, %s, %s", gl.Entries[0].DocumentNumber, gl.Entries[1].DocumentNumber, gl.Entries[2].DocumentNumber)
	}
	if gl.Entries[0].Balance != -1000 {
		t.Fatalf("expected first balance -1000 got %v", gl.Entries[0].Balance)
	}
	if gl.Entries[2].Balance != -500 {
		t.Fatalf("expected final balance -500 got %v", gl.Entries[2].Balance)
	}
	if gl.Stats.TotalDebit != 500 || gl.Stats.TotalCredit != 1000 {
		t.Fatalf("unexpected totals: %+v", gl.Stats)
	}
	if gl.Stats.FinalBalance != -500 {
		t.Fatalf("expected final balance -500 got %v", gl.Stats.FinalBalance)
	}
	if gl.Stats.ActiveAccounts != 3 {
		t.Fatalf("expected 3 active accounts got %d", gl.Stats.ActiveAccounts)
	}
}

func TestBuildGeneralLedgerSearch(t *testing.T) {
	gl := BuildGeneralLedger(glEntries(), testPeriod(), "acme", 1, 50)

	if len(gl.Entries) != 1 {
		t.Fatalf("expected 1 matching row got %d", len(gl.Entries))
	}
	if gl.Entries[0].DocumentNumber != "INV-1" {
		t.Fatalf("unexpected match: %s", gl.Entries[0].DocumentNumber)
	}
	if gl.Stats.EntriesCount != 1 {
		t.Fatalf("stats must reflect the filtered window, got %d", gl.Stats.EntriesCount)
	}
}

func TestBuildGeneralLedgerPagination(t *testing.T) {
	gl := BuildGeneralLedger(glEntries(), testPeriod(), "", 2, 2)

	if len(gl.Entries) != 1 {
		t.Fatalf("expected 1 row on page 2 got %d", len(gl.Entries))
	}
	if gl.Entries[0].DocumentNumber != "JE-2" {
		t.Fatalf("unexpected page 2 row: %s", gl.Entries[0].DocumentNumber)
	}
	if gl.Pagination.TotalPages != 2 || gl.Pagination.Total != 3 {
		t.Fatalf("unexpected pagination: %+v", gl.Pagination)
	}
	// Totals cover the whole filtered window, not just the page.
	if gl.Stats.TotalCredit != 1000 {
		t.Fatalf("expected window credit 1000 got %v", gl.Stats.TotalCredit)
	}
}

func TestBuildGeneralLedgerCharts(t *testing.T) {
	gl := BuildGeneralLedger(glEntries(), testPeriod(), "", 1, 50)

	if len(gl.ChartData.MonthlyTrend) != 1 {
		t.Fatalf("expected 1 trend month got %d", len(gl.ChartData.MonthlyTrend))
	}
	if gl.ChartData.MonthlyTrend[0].Amount != 500 {
		t.Fatalf("expected monthly debit 500 got %v", gl.ChartData.MonthlyTrend[0].Amount)
	}
	if len(gl.ChartData.TopAccounts) != 3 {
		t.Fatalf("expected 3 account buckets got %d", len(gl.ChartData.TopAccounts))
	}
	if gl.ChartData.TopAccounts[0].Code != "4101" {
		t.Fatalf("expected sales account on top got %s", gl.ChartData.TopAccounts[0].Code)
	}
}

func TestAllRowsMatchesDisplayedOrder(t *testing.T) {
	gl := BuildGeneralLedger(glEntries(), testPeriod(), "", 1, 50)
	rows := AllRows(glEntries(), "")

	if len(rows) != len(gl.Entries) {
		t.Fatalf("export row count %d != displayed %d", len(rows), len(gl.Entries))
	}
	for i := range rows {
		if rows[i].ID != gl.Entries[i].ID {
			t.Fatalf("export order diverges at %d: %s vs %s", i, rows[i].ID, gl.Entries[i].ID)
		}
	}
}
