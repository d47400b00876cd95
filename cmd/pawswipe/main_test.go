package main

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlagsDefaults(t *testing.T) {
	t.Setenv("PETFINDER_API_KEY", "env-id")
	t.Setenv("PETFINDER_API_SECRET", "env-secret")

	cfg, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, "pawswipe.sqlite3", cfg.dbPath)
	assert.Equal(t, ":8080", cfg.addr)
	assert.Equal(t, "env-id", cfg.apiID)
	assert.Equal(t, "env-secret", cfg.apiSecret)
	assert.Equal(t, 60*time.Second, cfg.ingestTimeout)
	assert.Equal(t, []string{"dog", "cat"}, splitTypes(cfg.types))
}

func TestParseFlagsAliases(t *testing.T) {
	cfg, err := parseFlags([]string{"-d", "x.db", "-a", ":9000", "-petfinder-id", "id", "-types", "rabbit, ,bird", "-no-ingest"})
	require.NoError(t, err)
	assert.Equal(t, "x.db", cfg.dbPath)
	assert.Equal(t, ":9000", cfg.addr)
	assert.Equal(t, "id", cfg.apiID)
	assert.True(t, cfg.noIngest)
	assert.Equal(t, []string{"rabbit", "bird"}, splitTypes(cfg.types))
}

func TestParseFlagsErrors(t *testing.T) {
	_, err := parseFlags([]string{"extra"})
	assert.Error(t, err)

	_, err = parseFlags([]string{"-h"})
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestSetupLoggerValidation(t *testing.T) {
	_, err := setupLogger("", "loud", "text")
	assert.Error(t, err)

	_, err = setupLogger("", "info", "xml")
	assert.Error(t, err)

	_, err = setupLogger("", "debug", "json")
	assert.NoError(t, err)
}
