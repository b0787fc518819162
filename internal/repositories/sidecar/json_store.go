package sidecar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/photosift/internal/common"
	"github.com/dmitrijs2005/photosift/internal/filex"
	"github.com/dmitrijs2005/photosift/internal/logging"
	"github.com/dmitrijs2005/photosift/internal/models"
	"github.com/dmitrijs2005/photosift/internal/timex"
)

type sessionFile struct {
	FolderPath  string                  `json:"folder_path"`
	Created     string                  `json:"created"`
	LastUpdated string                  `json:"last_updated"`
	Actions     map[string]actionRecord `json:"actions"`
}

type actionRecord struct {
	Action    string  `json:"action"`
	Timestamp *string `json:"timestamp"`
}

type JSONStore struct {
	log logging.Logger
	now func() time.Time
}

func NewJSONStore(log logging.Logger) *JSONStore {
	return &JSONStore{log: log.With("component", "sidecar"), now: time.Now}
}

// Path returns the sidecar location for dir.
func Path(dir string) string {
	return filepath.Join(dir, common.SessionFileName)
}

func (s *JSONStore) read(dir string) (*sessionFile, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return nil, err
	}
	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedSession, err)
	}
	return &f, nil
}

func (s *JSONStore) Load(ctx context.Context, dir string) map[string]models.Decision {
	result := make(map[string]models.Decision)

	f, err := s.read(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return result
	}
	if err != nil {
		s.log.Warn(ctx, "ignoring unreadable session file", "dir", dir, "error", err)
		return result
	}

	for name, rec := range f.Actions {
		kind, err := models.ParseActionKind(rec.Action)
		if err != nil {
			s.log.Warn(ctx, "ignoring session entry", "name", name, "error", err)
			continue
		}
		if kind == models.ActionNone {
			continue
		}

		d := models.Decision{Action: kind}
		if rec.Timestamp != nil {
			if ts, err := timex.ParseISO(*rec.Timestamp); err == nil {
				d.Timestamp = &ts
			} else {
				s.log.Warn(ctx, "dropping bad timestamp", "name", name, "error", err)
			}
		}
		result[name] = d
	}

	s.log.Debug(ctx, "session loaded", "dir", dir, "decisions", len(result))
	return result
}

func (s *JSONStore) Save(ctx context.Context, dir string, entries []*models.PhotoEntry) error {
	now := s.now()

	created := timex.FormatISO(now)
	if prev, err := s.read(dir); err == nil && prev.Created != "" {
		created = prev.Created
	}

	out := sessionFile{
		FolderPath:  dir,
		Created:     created,
		LastUpdated: timex.FormatISO(now),
		Actions:     make(map[string]actionRecord),
	}
	for _, e := range entries {
		if e.Action == models.ActionNone {
			continue
		}
		rec := actionRecord{Action: string(e.Action)}
		if e.ActionTime != nil {
			ts := timex.FormatISO(*e.ActionTime)
			rec.Timestamp = &ts
		}
		out.Actions[e.BaseName] = rec
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode session: %v", common.ErrFileIO, err)
	}

	if err := filex.WriteAtomic(Path(dir), data, 0o644); err != nil {
		err = fmt.Errorf("%w: save session: %v", common.ErrFileIO, err)
		s.log.Error(ctx, "failed to save session", "dir", dir, "error", err)
		return err
	}

	s.log.Debug(ctx, "session saved", "dir", dir, "decisions", len(out.Actions))
	return nil
}
