package reportshttp

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers the reporting endpoints. CSV exports are
// rate-limited per client since they rebuild the full report.
func (h *Handler) MountRoutes(r chi.Router) {
	limiter := httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return "ip:" + r.RemoteAddr, nil
		}
		return "ip:" + host, nil
	}))

	r.Route("/reports", func(r chi.Router) {
		r.Get("/income-statement", h.HandleIncomeStatement)
		r.Get("/general-ledger", h.HandleGeneralLedger)
		r.Get("/profit-loss", h.HandleProfitLoss)
		r.Post("/cache/bump", h.HandleCacheBump)

		r.Group(func(r chi.Router) {
			r.Use(limiter)
			r.Get("/income-statement/export.csv", h.HandleIncomeStatementCSV)
			r.Get("/general-ledger/export.csv", h.HandleGeneralLedgerCSV)
		})
	})
}
