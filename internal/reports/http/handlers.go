package reportshttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/meridian-books/meridian-books/internal/ledger"
	"github.com/meridian-books/meridian-books/internal/reports"
	"github.com/meridian-books/meridian-books/internal/reports/export"
	"github.com/meridian-books/meridian-books/internal/shared"
)

// LedgerCollector is the aggregation contract the handler depends on.
type LedgerCollector interface {
	Collect(ctx context.Context, f ledger.Filter) ([]ledger.Entry, error)
}

// Handler serves the reporting endpoints.
type Handler struct {
	logger    *slog.Logger
	collector LedgerCollector
	cache     *reports.Cache
	now       func() time.Time
}

// NewHandler constructs the reports HTTP handler.
func NewHandler(logger *slog.Logger, collector LedgerCollector, cache *reports.Cache) *Handler {
	return &Handler{
		logger:    logger,
		collector: collector,
		cache:     cache,
		now:       time.Now,
	}
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

const dateLayout = "2006-01-02"

// parseFilter reads the common report query parameters. Defaults mirror the
// dashboard: from the start of the current year to today.
func (h *Handler) parseFilter(r *http.Request) (ledger.Filter, map[string]string) {
	q := r.URL.Query()
	fields := make(map[string]string)

	var f ledger.Filter
	companyRaw := strings.TrimSpace(q.Get("company_id"))
	if companyRaw == "" {
		fields["company_id"] = "company_id is required"
	} else {
		id, err := strconv.ParseInt(companyRaw, 10, 64)
		if err != nil || id <= 0 {
			fields["company_id"] = "company_id must be a positive integer"
		} else {
			f.CompanyID = id
		}
	}

	now := h.now()
	f.Period.From = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	f.Period.To = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if raw := strings.TrimSpace(q.Get("from_date")); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			fields["from_date"] = "from_date must be an ISO date (YYYY-MM-DD)"
		} else {
			f.Period.From = d
		}
	}
	if raw := strings.TrimSpace(q.Get("to_date")); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			fields["to_date"] = "to_date must be an ISO date (YYYY-MM-DD)"
		} else {
			f.Period.To = d
		}
	}
	if fields["from_date"] == "" && fields["to_date"] == "" && f.Period.From.After(f.Period.To) {
		fields["from_date"] = "from_date must not be after to_date"
	}

	if raw := q.Get("source"); raw != "" {
		sources, err := ledger.ParseSourceFilter(raw)
		if err != nil {
			fields["source"] = err.Error()
		} else {
			f.Sources = sources
		}
	}
	if raw := strings.TrimSpace(q.Get("account_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			fields["account_id"] = "account_id must be a positive integer"
		} else {
			f.AccountID = id
		}
	}
	if raw := strings.TrimSpace(q.Get("cost_center_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			fields["cost_center_id"] = "cost_center_id must be a positive integer"
		} else {
			f.CostCenterID = id
		}
	}
	f.IncludeDrafts = q.Get("include_drafts") == "1"

	return f, fields
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrCompanyRequired):
		shared.WriteError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, shared.ErrInvalidPeriod):
		shared.WriteError(w, http.StatusUnprocessableEntity, err.Error(), nil)
	default:
		ref := shared.WriteInternalError(w)
		h.logger.Error("build report", slog.Any("error", err), slog.String("ref", ref))
	}
}

// HandleIncomeStatement serves the income statement report as JSON.
func (h *Handler) HandleIncomeStatement(w http.ResponseWriter, r *http.Request) {
	filter, fields := h.parseFilter(r)
	if len(fields) > 0 {
		shared.WriteError(w, http.StatusUnprocessableEntity, "invalid report filter", fields)
		return
	}

	var statement reports.IncomeStatement
	key, err := h.cache.FilterKey(r.Context(), "income_statement", filter)
	if err != nil {
		h.respondError(w, err)
		return
	}
	err = h.cache.FetchJSON(r.Context(), key, &statement, func(ctx context.Context) (interface{}, error) {
		entries, err := h.collector.Collect(ctx, filter)
		if err != nil {
			return nil, err
		}
		return reports.BuildIncomeStatement(entries, filter.Period), nil
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statement)
}

// HandleIncomeStatementCSV serves the income statement as a CSV download.
func (h *Handler) HandleIncomeStatementCSV(w http.ResponseWriter, r *http.Request) {
	filter, fields := h.parseFilter(r)
	if len(fields) > 0 {
		shared.WriteError(w, http.StatusUnprocessableEntity, "invalid report filter", fields)
		return
	}
	entries, err := h.collector.Collect(r.Context(), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}
	statement := reports.BuildIncomeStatement(entries, filter.Period)

	buf := &bytes.Buffer{}
	if err := export.WriteIncomeStatementCSV(buf, statement); err != nil {
		h.respondError(w, err)
		return
	}
	filename := fmt.Sprintf("income_statement_%s_%s.csv",
		filter.Period.From.Format(dateLayout), filter.Period.To.Format(dateLayout))
	serveCSV(w, h.logger, filename, buf)
}

// HandleGeneralLedger serves the paginated general ledger as JSON.
func (h *Handler) HandleGeneralLedger(w http.ResponseWriter, r *http.Request) {
	filter, fields := h.parseFilter(r)
	if len(fields) > 0 {
		shared.WriteError(w, http.StatusUnprocessableEntity, "invalid report filter", fields)
		return
	}
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	search := strings.TrimSpace(q.Get("search"))

	entries, err := h.collector.Collect(r.Context(), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports.BuildGeneralLedger(entries, filter.Period, search, page, perPage))
}

// HandleGeneralLedgerCSV serves the full filtered ledger as a CSV download.
func (h *Handler) HandleGeneralLedgerCSV(w http.ResponseWriter, r *http.Request) {
	filter, fields := h.parseFilter(r)
	if len(fields) > 0 {
		shared.WriteError(w, http.StatusUnprocessableEntity, "invalid report filter", fields)
		return
	}
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	entries, err := h.collector.Collect(r.Context(), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rows := reports.AllRows(entries, search)

	buf := &bytes.Buffer{}
	if err := export.WriteGeneralLedgerCSV(buf, rows); err != nil {
		h.respondError(w, err)
		return
	}
	filename := fmt.Sprintf("general_ledger_%s_%s.csv",
		filter.Period.From.Format(dateLayout), filter.Period.To.Format(dateLayout))
	serveCSV(w, h.logger, filename, buf)
}

// HandleProfitLoss serves the per-source profit & loss summary as JSON.
func (h *Handler) HandleProfitLoss(w http.ResponseWriter, r *http.Request) {
	filter, fields := h.parseFilter(r)
	if len(fields) > 0 {
		shared.WriteError(w, http.StatusUnprocessableEntity, "invalid report filter", fields)
		return
	}
	includeTax := r.URL.Query().Get("include_tax") != "false"

	var report reports.ProfitLoss
	key, err := h.cache.FilterKey(r.Context(), "profit_loss:"+strconv.FormatBool(includeTax), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}
	err = h.cache.FetchJSON(r.Context(), key, &report, func(ctx context.Context) (interface{}, error) {
		entries, err := h.collector.Collect(ctx, filter)
		if err != nil {
			return nil, err
		}
		return reports.BuildProfitLoss(entries, filter.Period, includeTax), nil
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleCacheBump invalidates cached reports after upstream posting flows.
func (h *Handler) HandleCacheBump(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Bump(r.Context()); err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func serveCSV(w http.ResponseWriter, logger *slog.Logger, filename string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Error("write csv response", slog.Any("error", err))
	}
}
