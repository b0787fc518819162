package session

import "github.com/dmitrijs2005/photosift/internal/models"

// Progress returns the number of reviewed entries, the total and the
// reviewed share as an integer percentage.
func (s *Session) Progress() (int, int, int) {
	total := len(s.entries)
	if total == 0 {
		return 0, 0, 0
	}
	processed := 0
	for _, e := range s.entries {
		if e.Action != models.ActionNone {
			processed++
		}
	}
	return processed, total, processed * 100 / total
}

// EntriesByAction returns the live entries with the given action, in order.
func (s *Session) EntriesByAction(kind models.ActionKind) []*models.PhotoEntry {
	out := make([]*models.PhotoEntry, 0)
	for _, e := range s.entries {
		if e.Action == kind {
			out = append(out, e)
		}
	}
	return out
}

// Stats counts live entries per action.
func (s *Session) Stats() map[models.ActionKind]int {
	out := make(map[models.ActionKind]int, len(models.AllActions))
	for _, k := range models.AllActions {
		out[k] = 0
	}
	for _, e := range s.entries {
		out[e.Action]++
	}
	return out
}

// NextUnprocessedFrom searches [start, total) and then [0, start) for an
// unreviewed entry.
func (s *Session) NextUnprocessedFrom(start int) (int, bool) {
	total := len(s.entries)
	if total == 0 {
		return 0, false
	}
	if start < 0 || start > total {
		start = 0
	}
	for i := start; i < total; i++ {
		if s.entries[i].Action == models.ActionNone {
			return i, true
		}
	}
	for i := 0; i < start; i++ {
		if s.entries[i].Action == models.ActionNone {
			return i, true
		}
	}
	return 0, false
}
