package models

import (
	"time"

	"github.com/google/uuid"
)

// JournalRecord is one committed review action, kept in the decision journal.
type JournalRecord struct {
	ID           uuid.UUID
	Folder       string
	BaseName     string
	Action       ActionKind
	RemovedFiles []string
	CommittedAt  time.Time
}

// NewJournalRecord stamps a record with a fresh ID.
func NewJournalRecord(folder, baseName string, action ActionKind, removed []string, at time.Time) JournalRecord {
	return JournalRecord{
		ID:           uuid.New(),
		Folder:       folder,
		BaseName:     baseName,
		Action:       action,
		RemovedFiles: removed,
		CommittedAt:  at,
	}
}
