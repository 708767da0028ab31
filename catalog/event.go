package catalog

import "time"

// EventKind names what happened to the catalog.
type EventKind string

const (
	EventRefreshed EventKind = "refreshed"
	EventStale     EventKind = "stale"
	EventFailed    EventKind = "failed"
	EventCleared   EventKind = "cleared"
)

// Event is published on every catalog state change.
type Event struct {
	Kind    EventKind
	Records int
	Origin  Origin
	Err     error
	At      time.Time
}
