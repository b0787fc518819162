package models

import (
	"os"
	"time"
)

// PhotoEntry is one base name's preview and/or archive file.
//
// A nil path means the role was never present or its file has been deleted.
type PhotoEntry struct {
	BaseName    string
	PreviewPath *string
	ArchivePath *string
	Action      ActionKind
	ActionTime  *time.Time
}

// NewPhotoEntry returns an unreviewed entry without files.
func NewPhotoEntry(baseName string) *PhotoEntry {
	return &PhotoEntry{BaseName: baseName, Action: ActionNone}
}

// HasPreview reports whether the preview path is set and the file is on disk.
func (e *PhotoEntry) HasPreview() bool {
	return fileExists(e.PreviewPath)
}

// HasArchive reports whether the archive path is set and the file is on disk.
func (e *PhotoEntry) HasArchive() bool {
	return fileExists(e.ArchivePath)
}

// DisplayPath prefers the preview and falls back to the archive. Empty when
// neither file is present.
func (e *PhotoEntry) DisplayPath() string {
	if e.HasPreview() {
		return *e.PreviewPath
	}
	if e.HasArchive() {
		return *e.ArchivePath
	}
	return ""
}

func (e *PhotoEntry) FileStatus() string {
	preview, archive := e.HasPreview(), e.HasArchive()
	switch {
	case preview && archive:
		return "JPEG + RAW"
	case preview:
		return "JPEG only"
	case archive:
		return "RAW only"
	default:
		return "No files"
	}
}

// SetAction records kind with timestamp at.
func (e *PhotoEntry) SetAction(kind ActionKind, at time.Time) {
	e.Action = kind
	e.ActionTime = &at
}

// Decision returns the persisted view of the entry's action.
func (e *PhotoEntry) Decision() Decision {
	return Decision{Action: e.Action, Timestamp: e.ActionTime}
}

// Apply copies a persisted decision onto the entry.
func (e *PhotoEntry) Apply(d Decision) {
	e.Action = d.Action
	e.ActionTime = d.Timestamp
}

func fileExists(path *string) bool {
	if path == nil {
		return false
	}
	info, err := os.Stat(*path)
	return err == nil && info.Mode().IsRegular()
}

// Decision is the persisted action and its timestamp for one base name.
type Decision struct {
	Action    ActionKind
	Timestamp *time.Time
}
