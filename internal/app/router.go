package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	reportshttp "github.com/meridian-books/meridian-books/internal/reports/http"
)

// RouterParams groups dependencies for building the HTTP router. The reports
// handler carries its own logger, so the router takes none.
type RouterParams struct {
	Config         *Config
	ReportsHandler *reportshttp.Handler
}

// NewRouter constructs the chi.Router with service defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(params.Config) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.ReportsHandler != nil {
		params.ReportsHandler.MountRoutes(r)
	}

	return r
}
