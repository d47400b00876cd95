package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/pawswipe/internal/model"
	"github.com/erazemk/pawswipe/internal/store"
)

// PetDetailPage handles GET /pet/{id}.
func (s *Server) PetDetailPage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	pet, err := store.GetPet(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get pet", "pet", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if pet == nil {
		s.notFound(w, "Pet not found")
		return
	}

	status, err := store.GetPetStatus(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get pet status", "pet", id, "error", err)
	}

	s.Templates.Render(w, "details.html", &struct {
		PageData
		Pet    *model.Pet
		Status model.PetStatus
	}{
		PageData: PageData{Title: pet.Name},
		Pet:      pet,
		Status:   status,
	})
}

// PetPhoto handles GET /pet/{id}/photo. A cached photo is served with an
// ETag; otherwise the client is sent to the source image.
func (s *Server) PetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	photo, err := store.GetPetPhoto(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get photo", "pet", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if photo != nil {
		w.Header().Set("ETag", photo.ETag)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		if r.Header.Get("If-None-Match") == photo.ETag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("Content-Type", photo.MIME)
		w.Header().Set("Content-Disposition", "inline")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		if _, err := w.Write(photo.Data); err != nil {
			slog.Error("failed to write photo response", "error", err)
		}
		return
	}

	pet, err := store.GetPet(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get pet", "pet", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if pet == nil || pet.ImageURL == "" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, pet.ImageURL, http.StatusFound)
}
