package tourdb

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // CGo-based SQLite driver

	"github.com/Kaouthar-hr/Move2See-Project/internal/appconf"
	"github.com/Kaouthar-hr/Move2See-Project/internal/logging"
)

//go:embed schema.sql
var ddl string

// createDB opens a new SQLite database and creates the tour tables.
func createDB(config Config) (*sql.DB, error) {
	if config.Env == appconf.Test && config.DBPath != ":memory:" {
		return nil, fmt.Errorf("test database must use in-memory storage, got path: %s", config.DBPath)
	}

	db, err := sql.Open("sqlite3", dsn(config.DBPath))
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	err = configureSQLitePerformance(ctx, db, config)
	if err != nil {
		return nil, fmt.Errorf("error configuring SQLite performance: %w", err)
	}

	err = performDatabaseMigration(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("error performing database migration: %w", err)
	}

	configureConnectionPool(db, config)

	return db, nil
}

func performDatabaseMigration(ctx context.Context, db *sql.DB) error {
	statements := strings.Split(ddl, "-- migrate") // Split DDL into individual statements
	for _, stmt := range statements {
		trimmedStmt := strings.TrimSpace(stmt)
		if trimmedStmt == "" {
			continue // Skip empty statements
		}
		if _, err := db.ExecContext(ctx, trimmedStmt); err != nil {
			return fmt.Errorf("error executing DDL statement [%s]: %w", trimmedStmt, err)
		}
	}
	return nil
}

// configureSQLitePerformance applies PRAGMA settings suited to a mixed
// read/write workload of sequence mutations and trace ingestion.
func configureSQLitePerformance(ctx context.Context, db *sql.DB, config Config) error {
	pragmas := []struct {
		name        string
		description string
	}{
		{"PRAGMA foreign_keys=ON", "Enforce foreign key constraints"},
		{"PRAGMA busy_timeout=5000", "Wait up to 5s for a competing writer"},
		{"PRAGMA temp_store=MEMORY", "Store temporary data in memory"},
	}

	if config.DBPath != ":memory:" {
		// WAL allows concurrent readers while trace ingestion writes.
		pragmas = append(pragmas, struct {
			name        string
			description string
		}{"PRAGMA journal_mode=WAL", "Enable write-ahead logging"})
	}

	logger := slog.Default().With(slog.String("component", "sqlite_performance"))

	for _, pragma := range pragmas {
		_, err := db.ExecContext(ctx, pragma.name)
		if err != nil {
			logging.LogError(logger, fmt.Sprintf("Failed to set %s", pragma.description), err)
			return fmt.Errorf("failed to execute %s: %w", pragma.name, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	if config.verbose {
		logging.LogOperation(logger, "sqlite_performance_settings_applied",
			slog.Int("pragma_count", len(pragmas)))
	}

	return nil
}

// configureConnectionPool sets up appropriate connection pool settings for SQLite.
//
//   - :memory: databases: MaxOpenConns=1 to ensure data consistency. Each
//     connection to a :memory: database creates a separate database instance,
//     so access must be limited to a single connection.
//
//   - File databases: SQLite with WAL mode supports concurrent readers and a
//     single writer, so a modest pool is allowed.
func configureConnectionPool(db *sql.DB, config Config) {
	if config.DBPath == ":memory:" {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}
}

// dsn appends the driver options every connection needs. Transactions
// start immediate so ExecTx takes the write lock up front; a deferred
// transaction that upgrades from read to write mid-flight fails with
// SQLITE_BUSY instead of waiting on busy_timeout.
func dsn(path string) string {
	return path + "?_txlock=immediate"
}
