package database

import (
	"embed"

	migrate "github.com/rubenv/sql-migrate"
)

const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "postgres"

	MIGRATIONS_TABLE = "schema_migrations"
)

//go:embed migrations
var migrationsFS embed.FS

func migrationSource(dialect string) migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationsFS,
		Root:       "migrations/" + dialect,
	}
}

// Migrate applies every pending up migration for the connected dialect.
func (s *DB) Migrate() (int, error) {
	return s.migrate(migrate.Up, 0)
}

// Rollback reverts at most steps migrations; steps <= 0 reverts one.
func (s *DB) Rollback(steps int) (int, error) {
	if steps <= 0 {
		steps = 1
	}
	return s.migrate(migrate.Down, steps)
}

func (s *DB) migrate(direction migrate.MigrationDirection, max int) (int, error) {
	log := s.log.Function("migrate")

	if s.SQL == nil {
		return 0, log.ErrMsg("database is nil")
	}

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return 0, log.Err("failed to get database from GORM", err)
	}

	migrate.SetTable(MIGRATIONS_TABLE)

	applied, err := migrate.ExecMax(sqlDB, s.Dialect, migrationSource(s.Dialect), direction, max)
	if err != nil {
		return applied, log.Err("failed to run migrations", err, "dialect", s.Dialect, "applied", applied)
	}

	log.Info("Migrations complete", "dialect", s.Dialect, "applied", applied, "direction", direction)
	return applied, nil
}
