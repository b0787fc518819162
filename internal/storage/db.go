// Package storage opens the local SQLite database behind the decision journal
// and keeps its schema current.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/photosift/internal/filex"
	"github.com/dmitrijs2005/photosift/internal/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return gooseUpContext(ctx, db, ".")
}

// Open opens (creating if needed) the SQLite database at dsn and applies
// migrations. File paths get their parent directory created first.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn != ":memory:" {
		if err := filex.EnsureParentDir(dsn, 0o700); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dsn, err)
	}
	return db, nil
}
