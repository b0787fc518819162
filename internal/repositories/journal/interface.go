// Package journal keeps an append-only log of committed review actions in
// SQLite. The log is informational: resuming a folder relies on the sidecar
// file only.
package journal

import (
	"context"
	"time"

	"github.com/dmitrijs2005/photosift/internal/models"
)

// Folder summarizes the journal activity of one reviewed folder.
type Folder struct {
	Path         string
	LastReviewed time.Time
	Actions      int
}

type Repository interface {
	Append(ctx context.Context, rec models.JournalRecord) error
	ListByFolder(ctx context.Context, folder string, limit int) ([]models.JournalRecord, error)
	Folders(ctx context.Context) ([]Folder, error)
}
