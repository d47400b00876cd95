package web

import (
	"database/sql"
	"net/http"

	webembed "github.com/erazemk/pawswipe/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sql.DB) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        db,
		Templates: templates,
	}

	mux := http.NewServeMux()

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	mux.HandleFunc("GET /{$}", s.Index)
	mux.HandleFunc("GET /hearted", s.HeartedPage)
	mux.HandleFunc("GET /previous", s.PreviousPage)
	mux.HandleFunc("GET /filter", s.FilterPage)
	mux.HandleFunc("GET /filter-results", s.FilterResultsPage)
	mux.HandleFunc("GET /pet/{id}", s.PetDetailPage)
	mux.HandleFunc("GET /pet/{id}/photo", s.PetPhoto)

	mux.HandleFunc("/", s.NotFoundPage)

	return mux, nil
}
