package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/pawswipe/internal/model"
	"github.com/erazemk/pawswipe/internal/store"
)

// Index handles GET /. It shows one random undecided pet, or a notice when
// every pet has been decided.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	pet, err := store.NextUndecided(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to pick next pet", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	counts, err := store.CountByStatus(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to count pets", "error", err)
	}

	s.Templates.Render(w, "index.html", &struct {
		PageData
		Pet    *model.Pet
		Counts model.StatusCounts
	}{
		PageData: PageData{Title: "Find a friend", Nav: "home"},
		Pet:      pet,
		Counts:   counts,
	})
}

// HeartedPage handles GET /hearted.
func (s *Server) HeartedPage(w http.ResponseWriter, r *http.Request) {
	pets, err := store.ListHearted(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list hearted pets", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Templates.Render(w, "hearted.html", &struct {
		PageData
		Pets []model.Pet
	}{
		PageData: PageData{Title: "Hearted pets", Nav: "hearted"},
		Pets:     pets,
	})
}

// PreviousPage handles GET /previous.
func (s *Server) PreviousPage(w http.ResponseWriter, r *http.Request) {
	pets, err := store.ListSkipped(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list skipped pets", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Templates.Render(w, "previous.html", &struct {
		PageData
		Pets []model.Pet
	}{
		PageData: PageData{Title: "Previously skipped", Nav: "previous"},
		Pets:     pets,
	})
}

// FilterPage handles GET /filter.
func (s *Server) FilterPage(w http.ResponseWriter, r *http.Request) {
	types, err := store.ListPetTypes(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list pet types", "error", err)
	}
	genders, err := store.ListPetGenders(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list pet genders", "error", err)
	}

	s.Templates.Render(w, "filter.html", &struct {
		PageData
		Any     string
		Types   []string
		Genders []string
	}{
		PageData: PageData{Title: "Filter pets", Nav: "filter"},
		Any:      model.FilterAny,
		Types:    types,
		Genders:  genders,
	})
}

// FilterResultsPage handles GET /filter-results?pet_type&gender&city&state.
func (s *Server) FilterResultsPage(w http.ResponseWriter, r *http.Request) {
	filter := model.FilterFromValues(r.URL.Query())

	pets, err := store.FilterPets(r.Context(), s.DB, filter)
	if err != nil {
		slog.Error("failed to filter pets", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Templates.Render(w, "filter_results.html", &struct {
		PageData
		Filter model.PetFilter
		Pets   []model.Pet
	}{
		PageData: PageData{Title: "Filter results", Nav: "filter"},
		Filter:   filter,
		Pets:     pets,
	})
}

// NotFoundPage renders the 404 page for unknown paths.
func (s *Server) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	s.notFound(w, "Page not found")
}

func (s *Server) notFound(w http.ResponseWriter, message string) {
	s.Templates.RenderStatus(w, http.StatusNotFound, "not_found.html", &struct {
		PageData
		Message string
	}{
		PageData: PageData{Title: "Not found"},
		Message:  message,
	})
}
