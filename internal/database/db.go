package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL deployments
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL deployments
)

// Driver names matched against the connection URL
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// DriverFor auto-detects the driver from the connection URL
func DriverFor(databaseURL string) string {
	if strings.HasPrefix(databaseURL, DriverPostgres) {
		return DriverPostgres
	}
	return DriverMySQL
}

// New creates a new database connection (supports both MySQL and PostgreSQL)
func New(databaseURL string) (*sqlx.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	driver := DriverFor(databaseURL)

	db, err := sqlx.Open(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool settings
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := EnforceReadOnly(db, driver); err != nil {
		// Tolerated: the MySQL user may lack the privilege. Grant it
		// SELECT-only rights instead.
		fmt.Printf("Warning: could not set MySQL session to read-only: %v\n", err)
	}

	return db, nil
}

// EnforceReadOnly locks a MySQL session down to reads. MySQL
// deployments are reporting mirrors of an existing support database:
// every write statement targets PostgreSQL syntax, so writes must not
// reach a MySQL backend. No-op for postgres.
func EnforceReadOnly(db *sqlx.DB, driver string) error {
	if driver != DriverMySQL {
		return nil
	}
	if _, err := db.Exec("SET SESSION TRANSACTION READ ONLY"); err != nil {
		return fmt.Errorf("failed to set read-only session: %w", err)
	}
	return nil
}

// IsReadOnly reports whether the current MySQL session is read-only
func IsReadOnly(db *sqlx.DB) (bool, error) {
	var readOnly int
	if err := db.Get(&readOnly, "SELECT @@session.tx_read_only"); err != nil {
		return false, err
	}
	return readOnly == 1, nil
}

// Select executes a multi-row query with a per-call timeout context
func Select(ctx context.Context, db *sqlx.DB, dest interface{}, query string, args ...interface{}) error {
	if err := db.SelectContext(ctx, dest, query, args...); err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}

// Get executes a single-row query with a per-call timeout context
func Get(ctx context.Context, db *sqlx.DB, dest interface{}, query string, args ...interface{}) error {
	if err := db.GetContext(ctx, dest, query, args...); err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}
