// Package ingest loads animals from the adoption API into the local catalog.
package ingest

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/pawswipe/internal/imaging"
	"github.com/erazemk/pawswipe/internal/metrics"
	"github.com/erazemk/pawswipe/internal/model"
	"github.com/erazemk/pawswipe/internal/petfinder"
	"github.com/erazemk/pawswipe/internal/store"
)

// Defaults used when Options leaves a field empty.
const (
	DefaultLocation = "10001"
	DefaultLimit    = 10
)

// DefaultTypes are the species fetched when none are configured.
var DefaultTypes = []string{"dog", "cat"}

// Source is the subset of the adoption API client used by Run.
type Source interface {
	SearchAnimals(ctx context.Context, params petfinder.SearchParams) ([]petfinder.Animal, error)
	FetchPhoto(ctx context.Context, url string) ([]byte, error)
}

// Options configures a run.
type Options struct {
	Types    []string
	Location string
	Limit    int
	// Reset clears the catalog and all decisions before loading.
	Reset bool
	// Photos downloads and caches each pet's image.
	Photos bool
	// Metrics is optional.
	Metrics *metrics.Metrics
}

func (o Options) withDefaults() Options {
	if len(o.Types) == 0 {
		o.Types = DefaultTypes
	}
	if o.Location == "" {
		o.Location = DefaultLocation
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	return o
}

// Result summarizes a run.
type Result struct {
	RunID       string
	Inserted    int
	Updated     int
	Photos      int
	FailedTypes []string
}

// Run fetches every configured type and upserts the results. A type that
// fails is logged and skipped; an error is returned only when nothing could
// be fetched at all.
func Run(ctx context.Context, db *sql.DB, src Source, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	res := &Result{RunID: uuid.NewString()}
	log := slog.With("run", res.RunID)
	start := time.Now()

	if opts.Reset {
		if err := store.ResetCatalog(ctx, db); err != nil {
			return res, fmt.Errorf("resetting catalog: %w", err)
		}
		log.Info("catalog reset")
	}

	var lastErr error
	for _, petType := range opts.Types {
		animals, err := src.SearchAnimals(ctx, petfinder.SearchParams{
			Type:     petType,
			Location: opts.Location,
			Limit:    opts.Limit,
		})
		if err != nil {
			log.Error("failed to fetch animals", "type", petType, "error", err)
			res.FailedTypes = append(res.FailedTypes, petType)
			opts.Metrics.ObserveIngestFailure(petType)
			lastErr = err
			continue
		}

		upserted, err := store.UpsertPets(ctx, db, petfinder.ToPets(animals))
		if err != nil {
			return res, fmt.Errorf("storing %s pets: %w", petType, err)
		}
		res.Inserted += len(upserted.Inserted)
		res.Updated += len(upserted.Updated)
		opts.Metrics.ObserveIngest(len(upserted.Inserted), len(upserted.Updated))
		log.Info("animals loaded", "type", petType, "fetched", len(animals),
			"inserted", len(upserted.Inserted), "updated", len(upserted.Updated))

		if opts.Photos {
			res.Photos += cachePhotos(ctx, db, src, log, append(upserted.Inserted, upserted.Updated...))
		}
	}

	if len(res.FailedTypes) == len(opts.Types) {
		return res, fmt.Errorf("no animal types could be fetched: %w", lastErr)
	}

	if err := store.SetSettings(ctx, db, map[string]string{
		store.SettingLastIngestRun:   res.RunID,
		store.SettingLastIngestAt:    time.Now().UTC().Format(time.RFC3339),
		store.SettingLastIngestCount: strconv.Itoa(res.Inserted + res.Updated),
	}); err != nil {
		log.Warn("failed to record ingest run", "error", err)
	}

	log.Info("ingest finished", "inserted", res.Inserted, "updated", res.Updated,
		"photos", res.Photos, "failed_types", res.FailedTypes, "duration", time.Since(start).Round(time.Millisecond))
	return res, nil
}

// cachePhotos downloads and stores photos for the given pets, skipping pets
// without an image or with one already cached. It returns how many were stored.
func cachePhotos(ctx context.Context, db *sql.DB, src Source, log *slog.Logger, ids []int64) int {
	stored := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return stored
		}

		pet, err := store.GetPet(ctx, db, id)
		if err != nil || pet == nil || pet.ImageURL == "" {
			continue
		}
		cached, err := store.GetPetPhoto(ctx, db, id)
		if err != nil {
			log.Warn("failed to check cached photo", "pet", id, "error", err)
			continue
		}
		if cached != nil {
			continue
		}

		if err := cachePhoto(ctx, db, src, pet); err != nil {
			log.Warn("failed to cache photo", "pet", id, "error", err)
			continue
		}
		stored++
	}
	return stored
}

func cachePhoto(ctx context.Context, db *sql.DB, src Source, pet *model.Pet) error {
	data, err := src.FetchPhoto(ctx, pet.ImageURL)
	if err != nil {
		return err
	}

	processed, err := imaging.Process(bytes.NewReader(data))
	if err != nil {
		return err
	}

	return store.SetPetPhoto(ctx, db, &model.Photo{
		PetID:  pet.ID,
		Data:   processed.Data,
		MIME:   processed.MIME,
		Width:  processed.Width,
		Height: processed.Height,
		ETag:   processed.ETag,
	})
}
