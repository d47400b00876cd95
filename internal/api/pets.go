package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/pawswipe/internal/model"
	"github.com/erazemk/pawswipe/internal/store"
)

// PetsHandler serves the read-only catalog endpoints.
type PetsHandler struct {
	DB *sql.DB
}

type petResponse struct {
	model.Pet
	Status model.PetStatus `json:"status"`
}

type statsResponse struct {
	model.StatusCounts
	Total          int    `json:"total"`
	LastIngestAt   string `json:"last_ingest_at,omitempty"`
	LastIngestRun  string `json:"last_ingest_run,omitempty"`
	LastIngestSize int    `json:"last_ingest_count,omitempty"`
}

// List handles GET /api/pets. The pet_type, gender, city and state query
// parameters narrow the result the same way the filter form does.
func (h *PetsHandler) List(w http.ResponseWriter, r *http.Request) {
	pets, err := store.FilterPets(r.Context(), h.DB, model.FilterFromValues(r.URL.Query()))
	if err != nil {
		slog.Error("failed to filter pets", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list pets")
		return
	}
	writePets(w, pets)
}

// Get handles GET /api/pets/{id}.
func (h *PetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := petID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid pet id")
		return
	}

	pet, err := store.GetPet(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get pet", "pet", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get pet")
		return
	}
	if pet == nil {
		jsonError(w, http.StatusNotFound, "pet not found")
		return
	}

	status, err := store.GetPetStatus(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get pet status", "pet", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get pet")
		return
	}

	jsonResponse(w, http.StatusOK, petResponse{Pet: *pet, Status: status})
}

// Hearted handles GET /api/hearted.
func (h *PetsHandler) Hearted(w http.ResponseWriter, r *http.Request) {
	pets, err := store.ListHearted(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list hearted pets", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list hearted pets")
		return
	}
	writePets(w, pets)
}

// Skipped handles GET /api/skipped.
func (h *PetsHandler) Skipped(w http.ResponseWriter, r *http.Request) {
	pets, err := store.ListSkipped(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list skipped pets", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list skipped pets")
		return
	}
	writePets(w, pets)
}

// Stats handles GET /api/stats.
func (h *PetsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	counts, err := store.CountByStatus(ctx, h.DB)
	if err != nil {
		slog.Error("failed to count pets", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	resp := statsResponse{StatusCounts: counts, Total: counts.Total()}
	for key, dst := range map[string]*string{
		store.SettingLastIngestAt:  &resp.LastIngestAt,
		store.SettingLastIngestRun: &resp.LastIngestRun,
	} {
		if *dst, err = store.GetSetting(ctx, h.DB, key); err != nil {
			slog.Warn("failed to read setting", "key", key, "error", err)
		}
	}
	if count, err := store.GetSetting(ctx, h.DB, store.SettingLastIngestCount); err == nil && count != "" {
		resp.LastIngestSize, _ = strconv.Atoi(count)
	}

	jsonResponse(w, http.StatusOK, resp)
}

// Health handles GET /healthz.
func (h *PetsHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.PingContext(r.Context()); err != nil {
		slog.Error("health check failed", "error", err)
		jsonError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writePets(w http.ResponseWriter, pets []model.Pet) {
	if pets == nil {
		pets = []model.Pet{}
	}
	jsonResponse(w, http.StatusOK, pets)
}
