package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Setting keys.
const (
	SettingAPIToken        = "api_token"
	SettingAPITokenExpiry  = "api_token_expires_at"
	SettingLastIngestRun   = "last_ingest_run"
	SettingLastIngestAt    = "last_ingest_at"
	SettingLastIngestCount = "last_ingest_count"
)

// GetSetting returns a setting's value. The empty string is returned for unset keys.
func GetSetting(ctx context.Context, db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying setting %s: %w", key, err)
	}
	return value, nil
}

// SetSettings writes several settings atomically.
func SetSettings(ctx context.Context, db *sql.DB, values map[string]string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for key, value := range values {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO settings (key, value) VALUES (?, ?)
			 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
			key, value,
		)
		if err != nil {
			return fmt.Errorf("storing setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing settings: %w", err)
	}
	return nil
}

// TokenCache persists the external API access token in the settings table so
// a restart can reuse it until it expires.
type TokenCache struct {
	DB *sql.DB
}

// LoadToken returns the cached token and its expiry. A zero expiry means no token is cached.
func (c *TokenCache) LoadToken(ctx context.Context) (string, time.Time, error) {
	token, err := GetSetting(ctx, c.DB, SettingAPIToken)
	if err != nil || token == "" {
		return "", time.Time{}, err
	}
	raw, err := GetSetting(ctx, c.DB, SettingAPITokenExpiry)
	if err != nil {
		return "", time.Time{}, err
	}
	expiry, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// Unparseable expiry: treat as no token.
		return "", time.Time{}, nil
	}
	return token, expiry, nil
}

// SaveToken stores a token and its expiry.
func (c *TokenCache) SaveToken(ctx context.Context, token string, expiry time.Time) error {
	return SetSettings(ctx, c.DB, map[string]string{
		SettingAPIToken:       token,
		SettingAPITokenExpiry: expiry.UTC().Format(time.RFC3339),
	})
}
