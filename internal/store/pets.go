package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/pawswipe/internal/model"
)

// petColumns is the column list every pet query selects, in scanPet order.
const petColumns = `p.id, p.external_id, p.type, p.name, p.age, p.gender, p.size, p.breed,
	p.image_url, p.description, p.contact_email, p.contact_phone,
	p.contact_city, p.contact_state, p.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (*model.Pet, error) {
	p := &model.Pet{}
	var externalID, email, phone, city, state sql.NullString
	err := row.Scan(&p.ID, &externalID, &p.Type, &p.Name, &p.Age, &p.Gender, &p.Size, &p.Breed,
		&p.ImageURL, &p.Description, &email, &phone, &city, &state, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.ExternalID = externalID.String
	p.ContactEmail = stringPtr(email)
	p.ContactPhone = stringPtr(phone)
	p.ContactCity = stringPtr(city)
	p.ContactState = stringPtr(state)
	return p, nil
}

func scanPets(rows *sql.Rows) ([]model.Pet, error) {
	var pets []model.Pet
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning pet: %w", err)
		}
		pets = append(pets, *p)
	}
	return pets, rows.Err()
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableID(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertPet(ctx context.Context, db execer, p *model.Pet) (int64, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO pets (external_id, type, name, age, gender, size, breed, image_url, description,
		                   contact_email, contact_phone, contact_city, contact_state)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullableID(p.ExternalID), p.Type, p.Name, p.Age, p.Gender, p.Size, p.Breed, p.ImageURL, p.Description,
		nullable(p.ContactEmail), nullable(p.ContactPhone), nullable(p.ContactCity), nullable(p.ContactState),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// CreatePet inserts a pet and returns the stored record.
func CreatePet(ctx context.Context, db *sql.DB, p *model.Pet) (*model.Pet, error) {
	id, err := insertPet(ctx, db, p)
	if err != nil {
		return nil, fmt.Errorf("creating pet: %w", err)
	}
	return GetPet(ctx, db, id)
}

// UpsertResult summarizes a batch upsert.
type UpsertResult struct {
	Inserted []int64
	Updated  []int64
}

// UpsertPets stores a batch of pets in a single transaction. Pets whose
// ExternalID is already known overwrite the existing row and keep its ID,
// so decisions made on them survive a re-ingest. A cached photo is dropped
// when the pet's image URL changes. Pets without an ExternalID are always
// inserted.
func UpsertPets(ctx context.Context, db *sql.DB, pets []model.Pet) (*UpsertResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res := &UpsertResult{}
	for i := range pets {
		p := &pets[i]

		var existing int64
		var oldImage string
		if p.ExternalID != "" {
			err := tx.QueryRowContext(ctx,
				`SELECT id, image_url FROM pets WHERE external_id = ?`, p.ExternalID,
			).Scan(&existing, &oldImage)
			if err != nil && err != sql.ErrNoRows {
				return nil, fmt.Errorf("looking up pet %s: %w", p.ExternalID, err)
			}
		}

		if existing == 0 {
			id, err := insertPet(ctx, tx, p)
			if err != nil {
				return nil, fmt.Errorf("inserting pet: %w", err)
			}
			res.Inserted = append(res.Inserted, id)
			continue
		}

		if oldImage != p.ImageURL {
			if _, err := tx.ExecContext(ctx, `DELETE FROM pet_photos WHERE pet_id = ?`, existing); err != nil {
				return nil, fmt.Errorf("dropping stale photo of pet %d: %w", existing, err)
			}
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE pets SET type = ?, name = ?, age = ?, gender = ?, size = ?, breed = ?,
			                 image_url = ?, description = ?, contact_email = ?, contact_phone = ?,
			                 contact_city = ?, contact_state = ?
			 WHERE id = ?`,
			p.Type, p.Name, p.Age, p.Gender, p.Size, p.Breed, p.ImageURL, p.Description,
			nullable(p.ContactEmail), nullable(p.ContactPhone), nullable(p.ContactCity), nullable(p.ContactState),
			existing,
		)
		if err != nil {
			return nil, fmt.Errorf("updating pet %d: %w", existing, err)
		}
		res.Updated = append(res.Updated, existing)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing pets: %w", err)
	}
	return res, nil
}

// GetPet returns a pet by ID, or nil if it does not exist.
func GetPet(ctx context.Context, db *sql.DB, id int64) (*model.Pet, error) {
	p, err := scanPet(db.QueryRowContext(ctx,
		`SELECT `+petColumns+` FROM pets p WHERE p.id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting pet: %w", err)
	}
	return p, nil
}

// ListPets returns the whole catalog ordered by ID.
func ListPets(ctx context.Context, db *sql.DB) ([]model.Pet, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+petColumns+` FROM pets p ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("listing pets: %w", err)
	}
	defer rows.Close()

	return scanPets(rows)
}

// CountPets returns the catalog size.
func CountPets(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting pets: %w", err)
	}
	return n, nil
}

// ResetCatalog deletes every pet together with its decisions and cached photo.
func ResetCatalog(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"hearted_pets", "skipped_pets", "pet_photos", "pets"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reset: %w", err)
	}
	return nil
}
