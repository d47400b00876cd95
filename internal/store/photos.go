package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/pawswipe/internal/model"
)

// SetPetPhoto stores or replaces a pet's cached photo.
func SetPetPhoto(ctx context.Context, db *sql.DB, photo *model.Photo) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO pet_photos (pet_id, data, mime, width, height, etag) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (pet_id) DO UPDATE SET
		     data = excluded.data, mime = excluded.mime, width = excluded.width,
		     height = excluded.height, etag = excluded.etag, fetched_at = CURRENT_TIMESTAMP`,
		photo.PetID, photo.Data, photo.MIME, photo.Width, photo.Height, photo.ETag,
	)
	if err != nil {
		return fmt.Errorf("setting pet photo: %w", err)
	}
	return nil
}

// GetPetPhoto returns a pet's cached photo, or nil if none is cached.
func GetPetPhoto(ctx context.Context, db *sql.DB, petID int64) (*model.Photo, error) {
	photo := &model.Photo{}
	err := db.QueryRowContext(ctx,
		`SELECT pet_id, data, mime, width, height, etag, fetched_at FROM pet_photos WHERE pet_id = ?`, petID,
	).Scan(&photo.PetID, &photo.Data, &photo.MIME, &photo.Width, &photo.Height, &photo.ETag, &photo.FetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting pet photo: %w", err)
	}
	return photo, nil
}
