// Package database manages the local SQLite store that keeps the history of
// restore runs and their outcomes.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"sprestore/logging"

	_ "modernc.org/sqlite"
)

// Config holds database configuration
type Config struct {
	Path            string        `env:"DB_PATH" default:"./sprestore.db"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" default:"4"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" default:"1h"`
	BusyTimeoutMs   int           `env:"DB_BUSY_TIMEOUT_MS" default:"5000"`
	EnableWAL       bool          `env:"DB_ENABLE_WAL" default:"true"`
}

// Database wraps the SQL database connections and provides managed access.
// Reads go through a small pool; writes go through a single serialized
// connection, which is how SQLite behaves best under WAL.
type Database struct {
	readDB  *sql.DB
	writeDB *sql.DB
	config  Config
	logger  *logging.Logger
}

// New creates a new Database instance with separate read/write connections
// and brings the schema up to date.
func New(config Config, logger *logging.Logger) (*Database, error) {
	dsn := buildDSN(config)
	dbExists := checkDatabaseExists(config.Path)

	logger.Database("Opening database connections",
		"path", config.Path,
		"exists", dbExists)

	readDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open read database: %w", err)
	}
	readDB.SetMaxOpenConns(config.MaxOpenConns)
	readDB.SetMaxIdleConns(config.MaxIdleConns)
	readDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	writeDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		readDB.Close()
		return nil, fmt.Errorf("failed to open write database: %w", err)
	}
	// Single connection forces write serialization
	writeDB.SetMaxOpenConns(1)
	writeDB.SetMaxIdleConns(1)
	writeDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	database := &Database{
		readDB:  readDB,
		writeDB: writeDB,
		config:  config,
		logger:  logger,
	}

	if err := database.initialize(); err != nil {
		readDB.Close()
		writeDB.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := database.runMigrations(); err != nil {
		readDB.Close()
		writeDB.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	logger.Database("Database initialized successfully",
		"path", config.Path,
		"existed", dbExists,
		"wal_mode", config.EnableWAL)

	return database, nil
}

// buildDSN constructs the SQLite Data Source Name with proper parameters
func buildDSN(config Config) string {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d", config.Path, config.BusyTimeoutMs)
	if config.EnableWAL {
		dsn += "&_journal_mode=WAL"
	}
	dsn += "&_foreign_keys=on"
	dsn += "&_synchronous=normal"
	return dsn
}

// initialize verifies both connections after creation
func (d *Database) initialize() error {
	if err := d.readDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping read database: %w", err)
	}
	if err := d.writeDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping write database: %w", err)
	}
	return nil
}

func checkDatabaseExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Read returns the read connection pool.
func (d *Database) Read() *sql.DB {
	return d.readDB
}

// Write returns the serialized write connection.
func (d *Database) Write() *sql.DB {
	return d.writeDB
}

// Close closes both database connections.
func (d *Database) Close() error {
	var firstErr error
	if err := d.writeDB.Close(); err != nil {
		firstErr = err
	}
	if err := d.readDB.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
