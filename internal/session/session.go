// Package session holds the review state of one folder: the ordered photo
// entries, the cursor and the persisted decisions.
//
// A Session is not safe for concurrent use. All calls must come from one
// goroutine (the CLI event loop) or be serialized by the caller.
package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dmitrijs2005/photosift/internal/common"
	"github.com/dmitrijs2005/photosift/internal/logging"
	"github.com/dmitrijs2005/photosift/internal/models"
	"github.com/dmitrijs2005/photosift/internal/repositories/sidecar"
)

// Scanner produces the initial entries of a folder.
type Scanner interface {
	Scan(dir string) ([]*models.PhotoEntry, error)
}

// Preferences is the narrow view of the settings store the session reads.
type Preferences interface {
	ResumeSession() bool
}

// Recorder receives a record of every committed mutation.
type Recorder interface {
	Append(ctx context.Context, rec models.JournalRecord) error
}

type Session struct {
	scanner  Scanner
	store    sidecar.Repository
	recorder Recorder
	log      logging.Logger

	dir     string
	entries []*models.PhotoEntry
	cursor  int
	// Decisions for base names not present in the folder, kept so they
	// survive the next save.
	orphans []*models.PhotoEntry

	listeners []Listener
	now       func() time.Time
	remove    func(path string) error
}

type Option func(*Session)

// WithRecorder attaches a journal recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithClock overrides the time source used for action timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func New(scanner Scanner, store sidecar.Repository, log logging.Logger, opts ...Option) *Session {
	s := &Session{
		scanner: scanner,
		store:   store,
		log:     log.With("component", "session"),
		cursor:  -1,
		now:     time.Now,
		remove:  os.Remove,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers l for all future events.
func (s *Session) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

func (s *Session) emit(e Event) {
	for _, l := range s.listeners {
		l(e)
	}
}

func (s *Session) Dir() string {
	return s.dir
}

// Load scans dir, applies the decisions stored in its sidecar file and
// positions the cursor. With resume enabled the cursor lands on the first
// unreviewed entry; otherwise, or when everything is reviewed, on the first
// entry. On error the previous state is left untouched.
func (s *Session) Load(ctx context.Context, dir string, resume bool) (int, error) {
	entries, err := s.scanner.Scan(dir)
	if err != nil {
		s.log.Error(ctx, "failed to load folder", "dir", dir, "error", err)
		s.emit(Event{Kind: EventError, Err: err})
		return 0, err
	}

	decisions := s.store.Load(ctx, dir)

	byName := make(map[string]*models.PhotoEntry, len(entries))
	for _, e := range entries {
		byName[e.BaseName] = e
	}

	var orphans []*models.PhotoEntry
	for name, d := range decisions {
		if e, ok := byName[name]; ok {
			e.Apply(d)
			continue
		}
		o := models.NewPhotoEntry(name)
		o.Apply(d)
		orphans = append(orphans, o)
	}

	cursor := -1
	if len(entries) > 0 {
		cursor = 0
		if resume {
			if i, ok := firstUnprocessed(entries); ok {
				cursor = i
			}
		}
	}

	s.dir = dir
	s.entries = entries
	s.orphans = orphans
	s.cursor = cursor

	s.log.Info(ctx, "folder loaded", "dir", dir, "entries", len(entries), "decisions", len(decisions), "cursor", cursor)
	s.emit(Event{Kind: EventEntriesLoaded, Count: len(entries)})
	return len(entries), nil
}

func firstUnprocessed(entries []*models.PhotoEntry) (int, bool) {
	for i, e := range entries {
		if e.Action == models.ActionNone {
			return i, true
		}
	}
	return 0, false
}

// Current returns the entry under the cursor, or nil when the session is empty.
func (s *Session) Current() *models.PhotoEntry {
	if s.cursor < 0 || s.cursor >= len(s.entries) {
		return nil
	}
	return s.entries[s.cursor]
}

// Cursor returns the 0-based cursor, -1 when empty.
func (s *Session) Cursor() int {
	return s.cursor
}

// Count returns the 1-based position and the total; (0, 0) when empty.
func (s *Session) Count() (int, int) {
	if len(s.entries) == 0 {
		return 0, 0
	}
	return s.cursor + 1, len(s.entries)
}

func (s *Session) Len() int {
	return len(s.entries)
}

// Entries returns a snapshot of the ordered entries.
func (s *Session) Entries() []*models.PhotoEntry {
	out := make([]*models.PhotoEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Session) Advance() bool {
	if s.cursor < len(s.entries)-1 {
		s.cursor++
		return true
	}
	return false
}

func (s *Session) Retreat() bool {
	if s.cursor > 0 {
		s.cursor--
		return true
	}
	return false
}

// JumpTo moves the cursor to index. Out-of-range indices are refused.
func (s *Session) JumpTo(index int) bool {
	if index < 0 || index >= len(s.entries) {
		return false
	}
	s.cursor = index
	return true
}

// SetCursor moves the cursor to index clamped into the live range.
func (s *Session) SetCursor(index int) {
	switch {
	case len(s.entries) == 0:
		s.cursor = -1
	case index < 0:
		s.cursor = 0
	case index >= len(s.entries):
		s.cursor = len(s.entries) - 1
	default:
		s.cursor = index
	}
}

func (s *Session) indexOf(entry *models.PhotoEntry) int {
	for i, e := range s.entries {
		if e == entry {
			return i
		}
	}
	return -1
}

// persist writes the sidecar and journals the change. Neither failure is
// fatal; both surface as EventError.
func (s *Session) persist(ctx context.Context, entry *models.PhotoEntry, removed []string) {
	all := make([]*models.PhotoEntry, 0, len(s.entries)+len(s.orphans))
	all = append(all, s.entries...)
	all = append(all, s.orphans...)

	if err := s.store.Save(ctx, s.dir, all); err != nil {
		s.emit(Event{Kind: EventError, Err: err})
	}

	if s.recorder != nil {
		rec := models.NewJournalRecord(s.dir, entry.BaseName, entry.Action, removed, s.now())
		if err := s.recorder.Append(ctx, rec); err != nil {
			s.log.Warn(ctx, "failed to journal action", "name", entry.BaseName, "error", err)
		}
	}
}

// MarkAction records kind on entry, persists and notifies.
func (s *Session) MarkAction(ctx context.Context, entry *models.PhotoEntry, kind models.ActionKind) {
	entry.SetAction(kind, s.now())
	s.log.Debug(ctx, "action recorded", "name", entry.BaseName, "action", kind)
	s.persist(ctx, entry, nil)
	s.emit(Event{Kind: EventSessionChanged})
}

func (s *Session) KeepBoth(ctx context.Context, entry *models.PhotoEntry) {
	s.MarkAction(ctx, entry, models.ActionKeepAll)
}

func (s *Session) Skip(ctx context.Context, entry *models.PhotoEntry) {
	s.MarkAction(ctx, entry, models.ActionSkipped)
}

// deleteFile removes path. A file that is already gone counts as deleted.
func (s *Session) deleteFile(path string) error {
	if err := s.remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: delete %s: %v", common.ErrFileIO, path, err)
	}
	return nil
}

// DeleteArchiveOnly removes the archive file of entry and marks it
// delete_raw. It returns false when there is no archive file, or when the
// delete failed; in the latter case the action is still recorded and the
// path kept.
func (s *Session) DeleteArchiveOnly(ctx context.Context, entry *models.PhotoEntry) bool {
	if !entry.HasArchive() {
		return false
	}

	path := *entry.ArchivePath
	ok := true
	var removed []string

	if err := s.deleteFile(path); err != nil {
		ok = false
		s.log.Error(ctx, "failed to delete archive", "name", entry.BaseName, "error", err)
		s.emit(Event{Kind: EventError, Err: err})
	} else {
		entry.ArchivePath = nil
		removed = append(removed, path)
	}

	entry.SetAction(models.ActionDeleteRaw, s.now())
	s.persist(ctx, entry, removed)
	s.emit(Event{Kind: EventSessionChanged})
	return ok
}

// DeleteBoth removes every file of entry, marks it delete_all and drops it
// from the sequence. A partial failure still commits the removal and
// returns false. Entries not in the sequence are ignored.
func (s *Session) DeleteBoth(ctx context.Context, entry *models.PhotoEntry) bool {
	idx := s.indexOf(entry)
	if idx < 0 {
		return false
	}

	ok := true
	var removed []string
	for _, p := range []**string{&entry.PreviewPath, &entry.ArchivePath} {
		if *p == nil {
			continue
		}
		path := **p
		if err := s.deleteFile(path); err != nil {
			ok = false
			s.log.Error(ctx, "failed to delete file", "name", entry.BaseName, "path", path, "error", err)
			s.emit(Event{Kind: EventError, Err: err})
			continue
		}
		*p = nil
		removed = append(removed, path)
	}

	entry.SetAction(models.ActionDeleteAll, s.now())

	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	switch {
	case len(s.entries) == 0:
		s.cursor = -1
	case idx < s.cursor:
		s.cursor--
	case idx == s.cursor && s.cursor >= len(s.entries):
		s.cursor = len(s.entries) - 1
	}
	// Kept with the orphans so the sidecar remembers the decision.
	s.orphans = append(s.orphans, entry)

	s.persist(ctx, entry, removed)
	s.log.Info(ctx, "entry removed", "name", entry.BaseName, "files", len(removed), "complete", ok)
	s.emit(Event{Kind: EventEntryRemoved, Name: entry.BaseName})
	s.emit(Event{Kind: EventSessionChanged})
	return ok
}
