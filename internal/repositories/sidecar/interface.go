package sidecar

import (
	"context"

	"github.com/dmitrijs2005/photosift/internal/models"
)

type Repository interface {
	// Load never fails: missing or malformed files yield an empty map.
	Load(ctx context.Context, dir string) map[string]models.Decision
	// Save replaces the whole file. The error is informational; it has
	// already been logged.
	Save(ctx context.Context, dir string, entries []*models.PhotoEntry) error
}
