// Package dbtest opens migrated throwaway SQLite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/AbbasAlizada1380/mellat/config"
	"github.com/AbbasAlizada1380/mellat/internal/database"

	"github.com/stretchr/testify/require"
)

func Config(t testing.TB) config.Config {
	t.Helper()
	return config.Config{
		AppEnv:                 "test",
		AppTimezone:            "UTC",
		DatabaseDriver:         "sqlite",
		DatabaseDbPath:         filepath.Join(t.TempDir(), "mellat.db"),
		SecurityJwtSecret:      "test-secret",
		SecurityTokenTTLHours:  1,
		UploadsDir:             filepath.Join(t.TempDir(), "uploads"),
		UploadsMaxFileBytes:    5 * 1024 * 1024,
		FeesOverpaymentPolicy:  config.OverpaymentAllow,
		PaginationDefaultLimit: 10,
		PaginationMaxLimit:     100,
	}
}

// New opens a database for cfg, applies every migration and closes it when
// the test ends.
func New(t testing.TB, cfg config.Config) database.DB {
	t.Helper()

	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Migrate()
	require.NoError(t, err)

	return db
}
