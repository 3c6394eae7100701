package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

// Repository represents a data repository that interacts with the database
// and provides logging capabilities. It holds a reference to the database
// and a logger instance for logging operations.
type Repository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(ctx context.Context, log *slog.Logger, storagePath string) (*Repository, error) {
	// Open (or create if it doesn't exist) the database file.
	dtb, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", storagePath))
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Check if the connection is actually established.
	if err = dtb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("unable to establish connection to database: %w", err)
	}

	// Perform the initial schema migration.
	if err = initSchema(ctx, dtb); err != nil {
		return nil, fmt.Errorf("DB schema initialization error: %w", err)
	}

	return &Repository{db: dtb, log: log}, nil
}

// NewForTest wraps an already opened database without running migrations.
func NewForTest(db *sql.DB) *Repository {
	return &Repository{db: db, log: slog.New(slog.DiscardHandler)}
}

// initSchema creates the necessary tables if they don't already exist.
//
// Preference columns are nullable: rows imported from the old subscriptions
// table only carry a chat ID and get defaults on load.
func initSchema(ctx context.Context, dtb *sql.DB) error {
	const migrationQuery = `
	CREATE TABLE IF NOT EXISTS recipients (
		chat_id INTEGER PRIMARY KEY NOT NULL,
		notify_new INTEGER,
		notify_removed INTEGER,
		notify_price_increase INTEGER,
		notify_all_changes INTEGER,
		price_decrease_threshold INTEGER,
		notifications_enabled INTEGER,
		registered_at TEXT
	);
	`
	if _, err := dtb.ExecContext(ctx, migrationQuery); err != nil {
		return fmt.Errorf("failed to execute migration query: %w", err)
	}

	var legacy int
	err := dtb.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'subscriptions'").Scan(&legacy)
	if err != nil {
		return fmt.Errorf("failed to look up legacy tables: %w", err)
	}
	if legacy == 0 {
		return nil
	}

	const importQuery = `
	INSERT OR IGNORE INTO recipients (chat_id) SELECT chat_id FROM subscriptions;
	DROP TABLE subscriptions;
	`
	if _, err = dtb.ExecContext(ctx, importQuery); err != nil {
		return fmt.Errorf("failed to import legacy subscriptions: %w", err)
	}

	return nil
}

// Close closes the connection to the database.
func (r *Repository) Close() error {
	if err := r.db.Close(); err != nil {
		r.log.Error("failed to close the database", "op", "repository.sqlite.Close", "error", err)
		return fmt.Errorf("failed to close the database: %w", err)
	}

	return nil
}

// DB is a getter for database handler.
func (r *Repository) DB() *sql.DB {
	return r.db
}
