package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/pawswipe/internal/metrics"
)

// Prefixes are the paths served by the router returned from NewRouter.
var Prefixes = []string{"/api/", "/next-pet", "/adopt/", "/skip/", "/healthz", "/metrics"}

// NewRouter creates the API router with all endpoints registered. m may be
// nil, in which case /metrics is not served.
func NewRouter(db *sql.DB, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()

	decisions := &DecisionsHandler{DB: db, Metrics: m}
	pets := &PetsHandler{DB: db}

	// Swipe actions used by the page script and the plain forms.
	mux.HandleFunc("GET /next-pet", decisions.NextPet)
	mux.HandleFunc("POST /adopt/{id}", decisions.Adopt)
	mux.HandleFunc("POST /skip/{id}", decisions.Skip)

	// Read-only catalog.
	mux.HandleFunc("GET /api/pets", pets.List)
	mux.HandleFunc("GET /api/pets/{id}", pets.Get)
	mux.HandleFunc("GET /api/hearted", pets.Hearted)
	mux.HandleFunc("GET /api/skipped", pets.Skipped)
	mux.HandleFunc("GET /api/stats", pets.Stats)

	mux.HandleFunc("GET /healthz", pets.Health)
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	return mux
}
