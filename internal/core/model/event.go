package model

import "fmt"

// EventKind is the lifecycle signal recorded by the tracker for an application.
// The numeric values are the codes stored in the events table.
type EventKind int

const (
	KindRunning EventKind = iota
	KindStarted
	KindStopped
	KindSuspended
	KindResumed
)

var kindNames = [...]string{
	KindRunning:   "running",
	KindStarted:   "started",
	KindStopped:   "stopped",
	KindSuspended: "suspended",
	KindResumed:   "resumed",
}

// ParseEventKind converts a stored kind code into an EventKind.
// Codes outside 0..4 are rejected.
func ParseEventKind(code int64) (EventKind, error) {
	if code < int64(KindRunning) || code > int64(KindResumed) {
		return 0, fmt.Errorf("event kind code %d out of range", code)
	}
	return EventKind(code), nil
}

func (k EventKind) String() string {
	if k < KindRunning || k > KindResumed {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Opens reports whether the kind marks the start of an active period.
func (k EventKind) Opens() bool {
	return k == KindStarted || k == KindResumed
}

// Closes reports whether the kind marks the end of an active period.
func (k EventKind) Closes() bool {
	return k == KindStopped || k == KindSuspended
}

// Event is a single timestamped lifecycle row for one application.
type Event struct {
	Timestamp int64     `json:"ts"`
	Kind      EventKind `json:"kind"`
}

// App is a tracked application as listed by the event source.
type App struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
}
