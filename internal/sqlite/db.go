package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strings"

	"github.com/rpggio/llmatic/internal/repository"
	"github.com/rpggio/llmatic/migrations"
	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection. The pool is limited to a
// single connection: writers in one process queue behind it, and an
// in-memory database survives for the lifetime of the DB.
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w: %w", repository.ErrStorageUnavailable, err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w: %w", pragma, repository.ErrStorageUnavailable, err)
		}
	}

	return &DB{db}, nil
}

// trackingColumns lists the columns the store reads and writes.
var trackingColumns = []string{
	"id", "project_id", "tracking_id", "call_site", "execution_time_ms",
	"model", "input", "output", "eval_results", "created_at",
	"prompt_cost", "completion_cost", "total_cost",
	"prompt_tokens", "completion_tokens", "total_tokens",
}

// RunMigrations applies the embedded schema. Every statement is idempotent,
// so running it against an existing database is a no-op. The resulting
// trackings table is then checked for the expected columns.
func (db *DB) RunMigrations(ctx context.Context) error {
	files, err := fs.Glob(migrations.FS, "*.up.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w: %w", repository.ErrSchema, err)
	}

	for _, name := range files {
		migration, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w: %w", name, repository.ErrSchema, err)
		}
		if _, err := db.ExecContext(ctx, string(migration)); err != nil {
			return fmt.Errorf("failed to run migration %s: %w: %w", name, repository.ErrSchema, err)
		}
	}

	return db.verifySchema(ctx)
}

func (db *DB) verifySchema(ctx context.Context) error {
	rows, err := db.QueryContext(ctx, "SELECT name FROM pragma_table_info('trackings')")
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w: %w", repository.ErrSchema, err)
	}
	defer rows.Close()

	present := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan schema column: %w: %w", repository.ErrSchema, err)
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating schema columns: %w: %w", repository.ErrSchema, err)
	}

	var missing []string
	for _, col := range trackingColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: trackings table is missing columns %s", repository.ErrSchema, strings.Join(missing, ", "))
	}
	return nil
}
