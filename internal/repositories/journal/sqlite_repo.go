package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/photosift/internal/models"
	"github.com/google/uuid"
)

// storedTime is fixed-width UTC so committed_at sorts as text.
const storedTime = "2006-01-02T15:04:05.000000000Z"

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// withTx runs fn inside a transaction, committing on success and rolling back
// on error or panic. Panics are rethrown.
func withTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx dbtx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}

// Append stores rec and bumps the folder summary in one transaction.
func (r *SQLiteRepository) Append(ctx context.Context, rec models.JournalRecord) error {
	removed := rec.RemovedFiles
	if removed == nil {
		removed = []string{}
	}
	files, err := json.Marshal(removed)
	if err != nil {
		return fmt.Errorf("failed to encode removed files: %w", err)
	}
	at := rec.CommittedAt.UTC().Format(storedTime)

	err = withTx(ctx, r.db, func(ctx context.Context, tx dbtx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO journal (id, folder, base_name, action, removed_files, committed_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, rec.ID.String(), rec.Folder, rec.BaseName, string(rec.Action), string(files), at); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO folders (path, last_reviewed, actions) VALUES (?, ?, 1)
			ON CONFLICT(path) DO UPDATE SET last_reviewed = excluded.last_reviewed, actions = folders.actions + 1
		`, rec.Folder, at)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to append journal record %s: %w", rec.ID, err)
	}
	return nil
}

// ListByFolder returns the newest records first. limit <= 0 means no limit.
func (r *SQLiteRepository) ListByFolder(ctx context.Context, folder string, limit int) ([]models.JournalRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, folder, base_name, action, removed_files, committed_at
		FROM journal WHERE folder = ?
		ORDER BY committed_at DESC, rowid DESC
		LIMIT ?
	`, folder, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal: %w", err)
	}
	defer rows.Close()

	result := make([]models.JournalRecord, 0)
	for rows.Next() {
		var (
			id, action, files, at string
			rec                   models.JournalRecord
		)
		if err := rows.Scan(&id, &rec.Folder, &rec.BaseName, &action, &files, &at); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("failed to parse journal id %q: %w", id, err)
		}
		if rec.Action, err = models.ParseActionKind(action); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(files), &rec.RemovedFiles); err != nil {
			return nil, fmt.Errorf("failed to decode removed files: %w", err)
		}
		if rec.CommittedAt, err = time.Parse(storedTime, at); err != nil {
			return nil, fmt.Errorf("failed to parse committed_at: %w", err)
		}
		result = append(result, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Folders(ctx context.Context) ([]Folder, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT path, last_reviewed, actions FROM folders ORDER BY last_reviewed DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	result := make([]Folder, 0)
	for rows.Next() {
		var (
			f  Folder
			at string
		)
		if err := rows.Scan(&f.Path, &at, &f.Actions); err != nil {
			return nil, fmt.Errorf("failed to scan folder row: %w", err)
		}
		if f.LastReviewed, err = time.Parse(storedTime, at); err != nil {
			return nil, fmt.Errorf("failed to parse last_reviewed: %w", err)
		}
		result = append(result, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate folder rows: %w", err)
	}
	return result, nil
}
