package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/pawswipe/internal/model"
)

// FilterPets returns every catalog pet matching all of the filter's criteria,
// regardless of whether it was hearted or skipped. Type and gender match
// exactly; city and state match as case-insensitive substrings, folded with
// Unicode rules on both sides.
func FilterPets(ctx context.Context, db *sql.DB, f model.PetFilter) ([]model.Pet, error) {
	f = f.Normalize()

	query := `SELECT ` + petColumns + ` FROM pets p WHERE 1=1`
	var args []any

	if f.Type != "" {
		query += ` AND p.type = ?`
		args = append(args, f.Type)
	}
	if f.Gender != "" {
		query += ` AND p.gender = ?`
		args = append(args, f.Gender)
	}
	if f.City != "" {
		query += ` AND fold_lower(p.contact_city) LIKE ? ESCAPE '\'`
		args = append(args, containsPattern(f.City))
	}
	if f.State != "" {
		query += ` AND fold_lower(p.contact_state) LIKE ? ESCAPE '\'`
		args = append(args, containsPattern(f.State))
	}

	query += ` ORDER BY p.id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filtering pets: %w", err)
	}
	defer rows.Close()

	return scanPets(rows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s anywhere, with s taken literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// ListPetTypes returns the distinct type labels present in the catalog.
func ListPetTypes(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT DISTINCT type FROM pets ORDER BY type`)
	if err != nil {
		return nil, fmt.Errorf("listing pet types: %w", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scanning pet type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// ListPetGenders returns the distinct, non-empty gender labels in the catalog.
func ListPetGenders(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT DISTINCT gender FROM pets WHERE gender <> '' ORDER BY gender`)
	if err != nil {
		return nil, fmt.Errorf("listing pet genders: %w", err)
	}
	defer rows.Close()

	var genders []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("scanning pet gender: %w", err)
		}
		genders = append(genders, g)
	}
	return genders, rows.Err()
}
