package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/pawswipe/internal/model"
)

// ErrPetNotFound is returned when a decision names a pet that is not in the catalog.
var ErrPetNotFound = errors.New("pet not found")

// Decision tables. A pet has at most one row per table and never a row in both.
const (
	heartedTable = "hearted_pets"
	skippedTable = "skipped_pets"
)

// Heart moves a pet into the hearted set, removing any skip. Hearting an
// already hearted pet is a no-op.
func Heart(ctx context.Context, db *sql.DB, petID int64) error {
	if err := decide(ctx, db, petID, heartedTable, skippedTable); err != nil {
		return fmt.Errorf("hearting pet %d: %w", petID, err)
	}
	return nil
}

// Skip moves a pet into the skipped set, removing any heart. Skipping an
// already skipped pet is a no-op.
func Skip(ctx context.Context, db *sql.DB, petID int64) error {
	if err := decide(ctx, db, petID, skippedTable, heartedTable); err != nil {
		return fmt.Errorf("skipping pet %d: %w", petID, err)
	}
	return nil
}

// decide removes the opposing decision and records the new one in one
// transaction, so concurrent requests for the same pet can't leave it in both sets.
func decide(ctx context.Context, db *sql.DB, petID int64, into, from string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM pets WHERE id = ?`, petID).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrPetNotFound
	}
	if err != nil {
		return fmt.Errorf("checking pet: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+from+` WHERE pet_id = ?`, petID); err != nil {
		return fmt.Errorf("clearing %s: %w", from, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO `+into+` (pet_id) VALUES (?)`, petID); err != nil {
		return fmt.Errorf("recording %s: %w", into, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing decision: %w", err)
	}
	return nil
}

// NextUndecided returns a uniformly random pet that has been neither hearted
// nor skipped. It returns nil, nil once every pet has been decided.
func NextUndecided(ctx context.Context, db *sql.DB) (*model.Pet, error) {
	p, err := scanPet(db.QueryRowContext(ctx,
		`SELECT `+petColumns+` FROM pets p
		 WHERE NOT EXISTS (SELECT 1 FROM hearted_pets h WHERE h.pet_id = p.id)
		   AND NOT EXISTS (SELECT 1 FROM skipped_pets s WHERE s.pet_id = p.id)
		 ORDER BY RANDOM() LIMIT 1`,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("picking next pet: %w", err)
	}
	return p, nil
}

// ListHearted returns hearted pets in the order they were hearted.
func ListHearted(ctx context.Context, db *sql.DB) ([]model.Pet, error) {
	return listDecided(ctx, db, heartedTable)
}

// ListSkipped returns skipped pets in the order they were skipped.
func ListSkipped(ctx context.Context, db *sql.DB) ([]model.Pet, error) {
	return listDecided(ctx, db, skippedTable)
}

func listDecided(ctx context.Context, db *sql.DB, table string) ([]model.Pet, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+petColumns+` FROM `+table+` d
		 JOIN pets p ON p.id = d.pet_id
		 ORDER BY d.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", table, err)
	}
	defer rows.Close()

	return scanPets(rows)
}

// GetPetStatus reports which partition a pet is in.
func GetPetStatus(ctx context.Context, db *sql.DB, petID int64) (model.PetStatus, error) {
	var hearted, skipped sql.NullInt64
	err := db.QueryRowContext(ctx,
		`SELECT h.id, s.id FROM pets p
		 LEFT JOIN hearted_pets h ON h.pet_id = p.id
		 LEFT JOIN skipped_pets s ON s.pet_id = p.id
		 WHERE p.id = ?`, petID,
	).Scan(&hearted, &skipped)
	if err == sql.ErrNoRows {
		return "", ErrPetNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting pet status: %w", err)
	}

	switch {
	case hearted.Valid:
		return model.StatusHearted, nil
	case skipped.Valid:
		return model.StatusSkipped, nil
	default:
		return model.StatusUndecided, nil
	}
}

// CountByStatus returns the size of each partition of the catalog.
func CountByStatus(ctx context.Context, db *sql.DB) (model.StatusCounts, error) {
	var c model.StatusCounts
	err := db.QueryRowContext(ctx,
		`SELECT
		    (SELECT COUNT(*) FROM pets p
		      WHERE NOT EXISTS (SELECT 1 FROM hearted_pets h WHERE h.pet_id = p.id)
		        AND NOT EXISTS (SELECT 1 FROM skipped_pets s WHERE s.pet_id = p.id)),
		    (SELECT COUNT(*) FROM hearted_pets),
		    (SELECT COUNT(*) FROM skipped_pets)`,
	).Scan(&c.Undecided, &c.Hearted, &c.Skipped)
	if err != nil {
		return c, fmt.Errorf("counting pets by status: %w", err)
	}
	return c, nil
}
