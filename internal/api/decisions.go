package api

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/pawswipe/internal/metrics"
	"github.com/erazemk/pawswipe/internal/model"
	"github.com/erazemk/pawswipe/internal/store"
)

// DecisionsHandler handles the swipe endpoints.
type DecisionsHandler struct {
	DB      *sql.DB
	Metrics *metrics.Metrics
}

type nextPetResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Breed       string `json:"breed"`
	Gender      string `json:"gender"`
	Age         string `json:"age"`
	Size        string `json:"size"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

// NextPet handles GET /next-pet.
func (h *DecisionsHandler) NextPet(w http.ResponseWriter, r *http.Request) {
	pet, err := store.NextUndecided(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to pick next pet", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get next pet")
		return
	}
	if pet == nil {
		jsonResponse(w, http.StatusOK, map[string]bool{"no_more": true})
		return
	}

	jsonResponse(w, http.StatusOK, nextPetResponse{
		ID:          pet.ID,
		Name:        pet.Name,
		Breed:       pet.Breed,
		Gender:      pet.Gender,
		Age:         pet.Age,
		Size:        pet.Size,
		ImageURL:    pet.ImageURL,
		Description: pet.Description,
	})
}

// Adopt handles POST /adopt/{id}.
func (h *DecisionsHandler) Adopt(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, store.Heart, model.DecisionHearted, "/hearted")
}

// Skip handles POST /skip/{id}.
func (h *DecisionsHandler) Skip(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, store.Skip, model.DecisionSkipped, "/previous")
}

func (h *DecisionsHandler) decide(w http.ResponseWriter, r *http.Request,
	apply func(context.Context, *sql.DB, int64) error, kind, redirectTo string) {
	ajax := isAJAX(r)
	fail := func(status int, message string) {
		if ajax {
			jsonError(w, status, message)
			return
		}
		http.Error(w, message, status)
	}

	id, err := petID(r)
	if err != nil {
		fail(http.StatusBadRequest, "invalid pet id")
		return
	}

	if err := apply(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, store.ErrPetNotFound) {
			fail(http.StatusNotFound, "pet not found")
			return
		}
		slog.Error("failed to record decision", "pet", id, "path", r.URL.Path, "error", err)
		fail(http.StatusInternalServerError, "failed to record decision")
		return
	}
	h.Metrics.ObserveDecision(kind)

	if ajax {
		jsonResponse(w, http.StatusOK, map[string]string{"status": "success"})
		return
	}
	http.Redirect(w, r, redirectTo, http.StatusSeeOther)
}
