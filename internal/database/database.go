package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AbbasAlizada1380/mellat/config"
	logg "github.com/AbbasAlizada1380/mellat/internal/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	SQL     *gorm.DB
	Cache   Cache
	Dialect string
	log     logg.Logger
}

// New opens the relational store and, when configured, the valkey clients.
// The returned handle is shared by every repository and closed once at
// shutdown.
func New(config config.Config) (DB, error) {
	log := logg.New("database").Function("New")

	log.Info("Initializing database", "driver", config.DatabaseDriver)
	db := &DB{log: log}

	err := db.initializeDB(config)
	if err != nil {
		return DB{}, log.Err("failed to initialize database", err)
	}

	err = db.initializeCacheDB(config)
	if err != nil {
		_ = db.Close()
		return DB{}, log.Err("failed to initialize cache database", err)
	}

	return *db, nil
}

func (s *DB) initializeDB(config config.Config) error {
	gormLogger := logger.New(
		slog.NewLogLogger(logg.Handler(), slog.LevelInfo),
		logger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	gormConfig := &gorm.Config{
		Logger:                                   gormLogger,
		PrepareStmt:                              true,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: false,
		CreateBatchSize:                          100,
	}

	switch config.DatabaseDriver {
	case "postgres":
		return s.initializePostgresDB(gormConfig, config)
	default:
		return s.initializeSQLiteDB(gormConfig, config)
	}
}

// sqliteDSN turns foreign keys on for every pooled connection; cascading
// fee deletes depend on it.
func sqliteDSN(dbPath string) string {
	separator := "?"
	if strings.Contains(dbPath, "?") {
		separator = "&"
	}
	return dbPath + separator + "_foreign_keys=on&_busy_timeout=5000"
}

func (s *DB) initializeSQLiteDB(gormConfig *gorm.Config, config config.Config) error {
	log := s.log.Function("initializeSQLiteDB")

	dbPath := config.DatabaseDbPath
	if dbPath == "" {
		return log.Error("database path is empty", "dbPath", dbPath)
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		log.Info("Creating database directory", "dir", dir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return log.Err("failed to create database directory", err, "dir", dir)
		}
	}

	log.Info("Connecting with GORM", "dbPath", dbPath)
	db, err := gorm.Open(sqlite.Open(sqliteDSN(dbPath)), gormConfig)
	if err != nil {
		return log.Err("failed to open database with GORM", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return log.Err("failed to ping database through GORM", err)
	}

	log.Info("Successfully connected with GORM")
	if dbPath == ":memory:" {
		// each connection would otherwise see its own empty database
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.SQL = db
	s.Dialect = DialectSQLite

	return nil
}

func (s *DB) initializePostgresDB(gormConfig *gorm.Config, config config.Config) error {
	log := s.log.Function("initializePostgresDB")

	log.Info("Connecting with GORM", "host", config.DatabaseHost, "database", config.DatabaseName)
	db, err := gorm.Open(postgres.Open(config.PostgresDSN()), gormConfig)
	if err != nil {
		return log.Err("failed to open database with GORM", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return log.Err("failed to ping database through GORM", err)
	}

	log.Info("Successfully connected with GORM")
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.SQL = db
	s.Dialect = DialectPostgres

	return nil
}

func (s *DB) Close() error {
	var closeErr error

	if s.SQL != nil {
		sqlDB, err := s.SQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = s.log.Function("Close").Err("failed to close database", err)
			}
		}
	}

	s.Cache.Close()

	return closeErr
}

func (s *DB) SQLWithContext(ctx context.Context) *gorm.DB {
	return s.SQL.WithContext(ctx)
}

func (s *DB) Ping(ctx context.Context) error {
	if s.SQL == nil {
		return fmt.Errorf("database is not initialized")
	}

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
