package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/photosift/internal/common"
	"github.com/dmitrijs2005/photosift/internal/grouper"
	"github.com/dmitrijs2005/photosift/internal/logging"
	"github.com/dmitrijs2005/photosift/internal/models"
	"github.com/dmitrijs2005/photosift/internal/repositories/sidecar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type recorderStub struct {
	records []models.JournalRecord
	err     error
}

func (r *recorderStub) Append(ctx context.Context, rec models.JournalRecord) error {
	r.records = append(r.records, rec)
	return r.err
}

type failingStore struct {
	sidecar.Repository
	err error
}

func (f failingStore) Save(ctx context.Context, dir string, entries []*models.PhotoEntry) error {
	return f.err
}

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	g, err := grouper.New([]string{"jpg", "jpeg"}, []string{"cr2", "cr3"})
	require.NoError(t, err)
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(g, sidecar.NewJSONStore(logging.Nop()), logging.Nop(), opts...)
}

func makeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("data"), 0o600))
	}
}

// pairs creates name.jpg + name.CR2 for each name.
func pairs(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		makeFiles(t, dir, n+".jpg", n+".CR2")
	}
}

func loaded(t *testing.T, dir string, resume bool, opts ...Option) *Session {
	t.Helper()
	s := newSession(t, opts...)
	_, err := s.Load(context.Background(), dir, resume)
	require.NoError(t, err)
	return s
}

func collect(s *Session) *[]Event {
	var events []Event
	s.Subscribe(func(e Event) { events = append(events, e) })
	return &events
}

func currentName(s *Session) string {
	if c := s.Current(); c != nil {
		return c.BaseName
	}
	return ""
}

func TestLoad_EmptyDirectory(t *testing.T) {
	s := newSession(t)
	events := collect(s)

	n, err := s.Load(context.Background(), t.TempDir(), true)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	pos, total := s.Count()
	assert.Equal(t, 0, pos)
	assert.Equal(t, 0, total)
	assert.Nil(t, s.Current())
	assert.Equal(t, -1, s.Cursor())
	assert.Equal(t, []Event{{Kind: EventEntriesLoaded, Count: 0}}, *events)
}

func TestLoad_InvalidDirectoryKeepsPreviousState(t *testing.T) {
	dir := t.TempDir()
	pairs(t, dir, "A", "B")
	s := loaded(t, dir, false)
	require.True(t, s.Advance())
	events := collect(s)

	_, err := s.Load(context.Background(), filepath.Join(dir, "missing"), true)
	require.ErrorIs(t, err, common.ErrInvalidDirectory)

	assert.Equal(t, dir, s.Dir())
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "B", currentName(s))
	require.Len(t, *events, 1)
	assert.Equal(t, EventError, (*events)[0].Kind)
}

func TestLoad_ResumeLandsOnFirstUnprocessed(t *testing.T) {
	dir := t.TempDir()
	pairs(t, dir, "IMG_001", "IMG_002", "IMG_003", "IMG_004")
	require.NoError(t, os.WriteFile(sidecar.Path(dir), []byte(`{
  "folder_path": "x",
  "created": "2025-06-28T10:00:00",
  "last_updated": "2025-06-28T10:30:00",
  "actions": {
    "IMG_001": {"action": "keep_all", "timestamp": "2025-06-28T10:15:00"},
    "IMG_002": {"action": "delete_raw", "timestamp": "2025-06-28T10:20:00"}
  }
}`), 0o600))

	resumed := loaded(t, dir, true)
	assert.Equal(t, "IMG_003", currentName(resumed))
	assert.Equal(t, 2, resumed.Cursor())

	fresh := loaded(t, dir, false)
	assert.Equal(t, "IMG_001", currentName(fresh))

	processed, total, pct := resumed.Progress()
	assert.Equal(t, 2, processed)
	assert.Equal(t, 4, total)
	assert.Equal(t, 50, pct)
}

func TestLoad_ResumeWithEverythingReviewedStartsAtZero(t *testing.T) {
	dir := t.TempDir()
	pairs(t, dir, "A", "B")

	s := loaded(t, dir, true)
	for _, e := range s.Entries() {
		s.KeepBoth(context.Background(), e)
	}

	again := loaded(t, dir, true)
	assert.Equal(t, 0, again.Cursor())
}

func TestNavigation_Boundaries(t *testing.T) {
	dir := t.TempDir()
	pairs(t, dir, "A", "B", "C")
	s := loaded(t, dir, false)

	assert.False(t, s.Retreat())
	assert.Equal(t, 0, s.Cursor())

	assert.True(t, s.Advance())
	assert.True(t, s.Advance())
	assert.False(t, s.Advance())
	assert.Equal(t, 2, s.Cursor())

	pos, total := s.Count()
	assert.Equal(t, 3, pos)
	assert.Equal(t, 3, total)

	assert.True(t, s.Retreat())
	assert.Equal(t, "B", currentName(s))

	assert.False(t, s.JumpTo(3))
	assert.False(t, s.JumpTo(-1))
	assert.True(t, s.JumpTo(0))
	assert.Equal(t, "A", currentName(s))

	s.SetCursor(99)
	assert.Equal(t, 2, s.Cursor())
	s.SetCursor(-5)
	assert.Equal(t, 0, s.Cursor())
}

func TestMarkAction_PersistsAndNotifies(t *testing.T) {
	dir := t.TempDir()
	pairs(t, dir, "X", "Y", "Z")
	rec := &recorderStub{}
	s := loaded(t, dir, false, WithRecorder(rec))
	events := collect(s)

	entries := s.Entries()
	s.KeepBoth(context.Background(), entries[0])
	s.Skip(context.Background(), entries[2])

	assert.Equal(t, models.ActionKeepAll, entries[0].Action)
	require.NotNil(t, entries[0].ActionTime)
	assert.Equal(t, fixedNow, *entries[0].ActionTime)
	assert.Equal(t, []Event{{Kind: EventSessionChanged}, {Kind: EventSessionChanged}}, *events)

	require.Len(t, rec.records, 2)
	assert.Equal(t, "X", rec.records[0].BaseName)
	assert.Equal(t, models.ActionSkipped, rec.records[1].Action)
	assert.Equal(t, dir, rec.records[1].Folder)

	reloaded := loaded(t, dir, false)
	got := reloaded.Entries()
	assert.Equal(t, models.ActionKeepAll, got[0].Action)
	assert.Equal(t, models.ActionNone, got[1].Action)
	assert.Equal(t, models.ActionSkipped, got[2].Action)
	require.NotNil(t, got[0].ActionTime)
	assert.True(t, fixedNow.Equal(*got[0].ActionTime))
}

func TestMarkAction_JournalFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	pairs(t, dir, "A")
	s := loaded(t, dir, false, WithRecorder(&recorderStub{err: errors.New("db locked")}))

	s.KeepBoth(context.Background(), s.Current())
	assert.Equal(t, models.ActionKeepAll, s.Current().Action)
}

func TestMarkAction_SaveFailureEmitsError(t *testing.T) {
	dir := t.TempDir()
	pairs(t, dir, "A")
	s := loaded(t, dir, false)
	boom := errors.New("read-only")
	s.store = failingStore{Repository: s.store, err: boom}
	events := collect(s)

	s.KeepBoth(context.Background(), s.Current())

	require.Len(t, *events, 2)
	assert.Equal(t, EventError, (*events)[0].Kind)
	assert.ErrorIs(t, (*events)[0].Err, boom)
	assert.Equal(t, EventSessionChanged, (*events)[1].Kind)
}

func TestSingleEntryKeepAll_ProgressIsComplete(t *testing.T) {
	dir := t.TempDir()
	makeFiles(t, dir, "only.jpg")
	s := loaded(t, dir, true)

	s.KeepBoth(context.Background(), s.Current())

	processed, total, pct := s.Progress()
	assert.Equal(t, 1, processed)
	assert.Equal(t, 1, total)
	assert.Equal(t, 100, pct)
}

func TestDeleteArchiveOnly(t *testing.T) {
	dir := t.TempDir()
	pairs(t, dir, "A")
	makeFiles(t, dir, "B.jpg")
	s := loaded(t, dir, false)
	entries := s.Entries()

	assert.True(t, s.DeleteArchiveOnly(context.Background(), entries[0]))
	assert.NoFileExists(t, filepath.Join(dir, "A.CR2"))
	assert.FileExists(t, filepath.Join(dir, "A.jpg"))
	assert.Nil(t, entries[0].ArchivePath)
	assert.Equal(t, models.ActionDeleteRaw, entries[0].Action)
	assert.Equal(t, 2, s.Len(), "partial delete keeps the entry")

	assert.False(t, s.DeleteArchiveOnly(context.Background(), entries[1]))
	assert.Equal(t, models.ActionNone, entries[1].Action)

	assert.False(t, s.DeleteArchiveOnly(context.Background(), entries[0]), "archive already gone")
}

func TestDeleteArchiveOnly_FailureStillRecordsAction(t *testing.T) {
	dir := t.TempDir()
	pairs(t, dir, "A")
	s := loaded(t, dir, false)
	s.remove = func(string) error { return os.ErrPermission }
	events := collect(s)

	e := s.Current()
	assert.False(t, s.DeleteArchiveOnly(context.Background(), e))
	assert.Equal(t, models.ActionDeleteRaw, e.Action)
	assert.NotNil(t, e.ArchivePath)
	require.NotEmpty(t, *events)
	assert.Equal(t, EventError, (*events)[0].Kind)
	assert.ErrorIs(t, (*events)[0].Err, common.ErrFileIO)
}

func TestDeleteBoth_RemovesAndReindexes(t *testing.T) {
	dir := t.TempDir()
	pairs(t, dir, "A", "B", "C")
	rec := &recorderStub{}
	s := loaded(t, dir, false, WithRecorder(rec))
	require.True(t, s.JumpTo(1))
	events := collect(s)

	b := s.Current()
	assert.True(t, s.DeleteBoth(context.Background(), b))

	assert.NoFileExists(t, filepath.Join(dir, "B.jpg"))
	assert.NoFileExists(t, filepath.Join(dir, "B.CR2"))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.Cursor())
	assert.Equal(t, "C", currentName(s))
	assert.Equal(t, models.ActionDeleteAll, b.Action)
	assert.Equal(t, []Event{{Kind: EventEntryRemoved, Name: "B"}, {Kind: EventSessionChanged}}, *events)

	require.Len(t, rec.records, 1)
	assert.ElementsMatch(t, []string{filepath.Join(dir, "B.jpg"), filepath.Join(dir, "B.CR2")}, rec.records[0].RemovedFiles)

	assert.False(t, s.DeleteBoth(context.Background(), b), "already removed")
}

func TestDeleteBoth_CursorAdjustments(t *testing.T) {
	tests := []struct {
		name       string
		cursor     int
		remove     int
		wantCursor int
		wantName   string
	}{
		{name: "before cursor", cursor: 2, remove: 0, wantCursor: 1, wantName: "C"},
		{name: "after cursor", cursor: 0, remove: 2, wantCursor: 0, wantName: "A"},
		{name: "last at cursor clamps", cursor: 2, remove: 2, wantCursor: 1, wantName: "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			pairs(t, dir, "A", "B", "C")
			s := loaded(t, dir, false)
			require.True(t, s.JumpTo(tt.cursor))

			s.DeleteBoth(context.Background(), s.Entries()[tt.remove])

			assert.Equal(t, tt.wantCursor, s.Cursor())
			assert.Equal(t, tt.wantName, currentName(s))
		})
	}
}

func TestDeleteBoth_LastEntryEmptiesSession(t *testing.T) {
	dir := t.TempDir()
	pairs(t, dir, "IMG_0001")
	s := loaded(t, dir, false)

	assert.True(t, s.DeleteBoth(context.Background(), s.Current()))
	assert.Nil(t, s.Current())
	assert.Equal(t, -1, s.Cursor())
	pos, total := s.Count()
	assert.Equal(t, 0, pos)
	assert.Equal(t, 0, total)
}

// A failed delete still commits: the entry leaves the list and is recorded
// as delete_all.
func TestDeleteBoth_PartialFailureStillCommits(t *testing.T) {
	dir := t.TempDir()
	pairs(t, dir, "A", "B")
	s := loaded(t, dir, false)
	archive := filepath.Join(dir, "A.CR2")
	s.remove = func(p string) error {
		if p == archive {
			return os.ErrPermission
		}
		return os.Remove(p)
	}
	events := collect(s)

	a := s.Current()
	assert.False(t, s.DeleteBoth(context.Background(), a))

	assert.NoFileExists(t, filepath.Join(dir, "A.jpg"))
	assert.FileExists(t, archive)
	assert.Equal(t, models.ActionDeleteAll, a.Action)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "B", currentName(s))
	assert.Equal(t, EventError, (*events)[0].Kind)

	// The decision outlives the entry in the sidecar.
	reloaded := loaded(t, dir, false)
	require.Equal(t, 2, reloaded.Len(), "the surviving archive is rediscovered")
	assert.Equal(t, models.ActionDeleteAll, reloaded.Entries()[0].Action)
}

func TestOrphanDecisionsSurviveSave(t *testing.T) {
	dir := t.TempDir()
	pairs(t, dir, "A", "B")
	s := loaded(t, dir, false)
	s.KeepBoth(context.Background(), s.Entries()[1])

	require.NoError(t, os.Remove(filepath.Join(dir, "B.jpg")))
	require.NoError(t, os.Remove(filepath.Join(dir, "B.CR2")))

	s2 := loaded(t, dir, false)
	require.Equal(t, 1, s2.Len())
	s2.Skip(context.Background(), s2.Current())

	decisions := sidecar.NewJSONStore(logging.Nop()).Load(context.Background(), dir)
	assert.Equal(t, models.ActionKeepAll, decisions["B"].Action)
	assert.Equal(t, models.ActionSkipped, decisions["A"].Action)
}
