package session

import "fmt"

// EventKind names a notification emitted after a committed change.
type EventKind int

const (
	EventEntriesLoaded EventKind = iota + 1
	EventEntryRemoved
	EventError
	EventSessionChanged
)

func (k EventKind) String() string {
	switch k {
	case EventEntriesLoaded:
		return "entries_loaded"
	case EventEntryRemoved:
		return "entry_removed"
	case EventError:
		return "error"
	case EventSessionChanged:
		return "session_changed"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event carries the payload of a notification. Count is set for
// EventEntriesLoaded, Name for EventEntryRemoved and Err for EventError.
type Event struct {
	Kind  EventKind
	Count int
	Name  string
	Err   error
}

// Listener receives events synchronously on the caller's goroutine.
type Listener func(Event)
