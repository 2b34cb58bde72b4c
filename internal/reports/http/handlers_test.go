package reportshttp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-books/meridian-books/internal/ledger"
	"github.com/meridian-books/meridian-books/internal/reports"
	"github.com/meridian-books/meridian-books/internal/shared"
)

type stubCollector struct {
	entries []ledger.Entry
	err     error
	filter  ledger.Filter
	calls   int
}

func (s *stubCollector) Collect(ctx context.Context, f ledger.Filter) ([]ledger.Entry, error) {
	s.calls++
	s.filter = f
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

func newTestServer(collector *stubCollector) *httptest.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, collector, reports.NewCache(nil, time.Minute))
	handler.WithNow(func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) })
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return httptest.NewServer(r)
}

func sampleEntries() []ledger.Entry {
	return []ledger.Entry{
		{ID: "inv-1", Date: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), DocumentNumber: "INV-1", Description: "Sales invoice: Acme", AccountCode: "4101", AccountName: "Sales", AccountType: ledger.AccountRevenue, Credit: 1000, Source: ledger.SourceInvoice},
		{ID: "mexp-1", Date: time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), DocumentNumber: "MEXP-1", Description: "Office rent", AccountCode: "5000", AccountName: "Rent", AccountType: ledger.AccountExpense, Debit: 300, Source: ledger.SourceMonthlyExpense},
	}
}

func TestIncomeStatementEndpoint(t *testing.T) {
	collector := &stubCollector{entries: sampleEntries()}
	srv := newTestServer(collector)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/reports/income-statement?company_id=7&from_date=2025-01-01&to_date=2025-03-31")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var statement reports.IncomeStatement
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&statement))

	assert.Equal(t, 1000.0, statement.Stats.TotalRevenue)
	assert.Equal(t, 300.0, statement.Stats.TotalExpenses)
	assert.Equal(t, 700.0, statement.Stats.NetIncome)
	assert.True(t, statement.Stats.IsProfit)
	assert.Equal(t, int64(7), collector.filter.CompanyID)
	assert.Equal(t, "2025-01-01", collector.filter.Period.From.Format("2006-01-02"))
	assert.Equal(t, "2025-03-31", collector.filter.Period.To.Format("2006-01-02"))
}

func TestIncomeStatementRequiresCompany(t *testing.T) {
	srv := newTestServer(&stubCollector{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/reports/income-statement?from_date=2025-01-01&to_date=2025-03-31")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var payload shared.ErrorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Contains(t, payload.Fields, "company_id")
}

func TestIncomeStatementRejectsInvertedRange(t *testing.T) {
	collector := &stubCollector{}
	srv := newTestServer(collector)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/reports/income-statement?company_id=7&from_date=2025-06-01&to_date=2025-01-01")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var payload shared.ErrorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Contains(t, payload.Fields, "from_date")
	assert.Zero(t, collector.calls, "no query should run for an invalid range")
}

func TestIncomeStatementRejectsUnknownSource(t *testing.T) {
	srv := newTestServer(&stubCollector{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/reports/income-statement?company_id=7&source=bogus")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var payload shared.ErrorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Contains(t, payload.Fields["source"], shared.ErrUnknownSource.Error())
}

func TestIncomeStatementUpstreamFailure(t *testing.T) {
	collector := &stubCollector{err: errors.New("source journal_entry: connection reset")}
	srv := newTestServer(collector)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/reports/income-statement?company_id=7")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var payload shared.ErrorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.NotEmpty(t, payload.RequestID)
}

func TestIncomeStatementCSVExport(t *testing.T) {
	srv := newTestServer(&stubCollector{entries: sampleEntries()})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/reports/income-statement/export.csv?company_id=7&from_date=2025-01-01&to_date=2025-03-31")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "income_statement_2025-01-01_2025-03-31.csv")
}

func TestGeneralLedgerEndpoint(t *testing.T) {
	srv := newTestServer(&stubCollector{entries: sampleEntries()})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/reports/general-ledger?company_id=7&page=1&per_page=10")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var gl reports.GeneralLedger
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&gl))
	assert.Len(t, gl.Entries, 2)
	assert.Equal(t, "INV-1", gl.Entries[0].DocumentNumber)
	assert.Equal(t, 2, gl.Stats.EntriesCount)
}

func TestGeneralLedgerSearchParam(t *testing.T) {
	srv := newTestServer(&stubCollector{entries: sampleEntries()})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/reports/general-ledger?company_id=7&search=acme")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var gl reports.GeneralLedger
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&gl))
	require.Len(t, gl.Entries, 1)
	assert.Equal(t, "INV-1", gl.Entries[0].DocumentNumber)
}

func TestGeneralLedgerCSVRowCountMatchesDisplay(t *testing.T) {
	srv := newTestServer(&stubCollector{entries: sampleEntries()})
	defer srv.Close()

	jsonResp, err := http.Get(srv.URL + "/reports/general-ledger?company_id=7")
	require.NoError(t, err)
	defer jsonResp.Body.Close()
	var gl reports.GeneralLedger
	require.NoError(t, json.NewDecoder(jsonResp.Body).Decode(&gl))

	csvResp, err := http.Get(srv.URL + "/reports/general-ledger/export.csv?company_id=7")
	require.NoError(t, err)
	defer csvResp.Body.Close()
	require.Equal(t, http.StatusOK, csvResp.StatusCode)

	body := new(strings.Builder)
	_, err = io.Copy(body, csvResp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(body.String(), "\n"), "\n")
	assert.Equal(t, len(gl.Entries)+1, len(lines), "csv rows must match displayed rows plus header")
}

func TestProfitLossEndpoint(t *testing.T) {
	srv := newTestServer(&stubCollector{entries: sampleEntries()})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/reports/profit-loss?company_id=7&include_tax=false")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pl reports.ProfitLoss
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pl))
	assert.False(t, pl.IncludeTax)
	assert.InDelta(t, 869.57, pl.Summary.InvoiceTotal, 0.001)
	assert.Equal(t, 300.0, pl.Summary.ExpensesTotal)
}

func TestCacheBumpEndpoint(t *testing.T) {
	srv := newTestServer(&stubCollector{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/reports/cache/bump", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
