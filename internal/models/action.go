// Package models defines the photo entry, the review action enum and the
// records PhotoSift persists.
package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/photosift/internal/common"
)

// ActionKind is the reviewer's disposition for a photo entry.
type ActionKind string

const (
	ActionNone      ActionKind = "none"
	ActionKeepAll   ActionKind = "keep_all"
	ActionDeleteRaw ActionKind = "delete_raw"
	ActionDeleteAll ActionKind = "delete_all"
	ActionSkipped   ActionKind = "skipped"
)

// AllActions lists every kind in display order.
var AllActions = []ActionKind{ActionNone, ActionKeepAll, ActionDeleteRaw, ActionDeleteAll, ActionSkipped}

// ParseActionKind maps the stable string form back to an ActionKind.
func ParseActionKind(s string) (ActionKind, error) {
	for _, k := range AllActions {
		if string(k) == s {
			return k, nil
		}
	}
	return ActionNone, fmt.Errorf("%w: %q", common.ErrUnknownAction, s)
}

// Destructive reports whether committing the action removes files.
func (k ActionKind) Destructive() bool {
	return k == ActionDeleteRaw || k == ActionDeleteAll
}

func (k ActionKind) Label() string {
	switch k {
	case ActionNone:
		return "Unprocessed"
	case ActionKeepAll:
		return "Keep All"
	case ActionDeleteRaw:
		return "Delete RAW"
	case ActionDeleteAll:
		return "Delete All"
	case ActionSkipped:
		return "Skipped"
	default:
		return strings.ReplaceAll(string(k), "_", " ")
	}
}
