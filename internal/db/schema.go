package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS pets (
    id            INTEGER PRIMARY KEY,
    external_id   TEXT UNIQUE,
    type          TEXT NOT NULL DEFAULT 'Unknown',
    name          TEXT NOT NULL DEFAULT '',
    age           TEXT NOT NULL DEFAULT '',
    gender        TEXT NOT NULL DEFAULT '',
    size          TEXT NOT NULL DEFAULT '',
    breed         TEXT NOT NULL DEFAULT 'Unknown',
    image_url     TEXT NOT NULL DEFAULT '',
    description   TEXT NOT NULL DEFAULT '',
    contact_email TEXT,
    contact_phone TEXT,
    contact_city  TEXT,
    contact_state TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS hearted_pets (
    id         INTEGER PRIMARY KEY,
    pet_id     INTEGER NOT NULL UNIQUE REFERENCES pets(id) ON DELETE CASCADE,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS skipped_pets (
    id         INTEGER PRIMARY KEY,
    pet_id     INTEGER NOT NULL UNIQUE REFERENCES pets(id) ON DELETE CASCADE,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS pet_photos (
    pet_id     INTEGER PRIMARY KEY REFERENCES pets(id) ON DELETE CASCADE,
    data       BLOB NOT NULL,
    mime       TEXT NOT NULL,
    width      INTEGER NOT NULL,
    height     INTEGER NOT NULL,
    etag       TEXT NOT NULL,
    fetched_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
