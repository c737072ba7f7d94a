package session

import (
	"github.com/penwyp/go-deckview/internal/core/model"
)

// Result is the outcome of a single scan over an event stream.
type Result struct {
	// Intervals holds the closed sessions in stream order.
	Intervals []model.Interval `json:"intervals"`
	// Open is set when the stream ended after an open event with no close.
	Open bool `json:"open"`
	// OpenSince is the timestamp of that dangling open event.
	OpenSince int64 `json:"open_since,omitempty"`
}

// Scan reconstructs sessions from an ordered event stream.
//
// The scan keeps one piece of state, the last open boundary, which starts at
// windowStart. Started and Resumed move it; Stopped and Suspended emit
// [lastOpen, ts]; Running is a heartbeat and is ignored. A close seen before any
// open therefore starts at windowStart. Events are not re-sorted or filtered.
func Scan(events []model.Event, windowStart int64) Result {
	res := Result{}
	lastOpen := windowStart

	for _, ev := range events {
		switch {
		case ev.Kind.Opens():
			lastOpen = ev.Timestamp
			res.Open = true
		case ev.Kind.Closes():
			res.Intervals = append(res.Intervals, model.Interval{Start: lastOpen, Stop: ev.Timestamp})
			res.Open = false
		}
	}

	if res.Open {
		res.OpenSince = lastOpen
	}
	return res
}

// Extract returns the closed sessions of an event stream.
// A trailing open event produces no interval; see Result.CloseOpen.
func Extract(events []model.Event, windowStart int64) []model.Interval {
	return Scan(events, windowStart).Intervals
}

// CloseOpen returns the intervals with the dangling open session, if any,
// closed at the given timestamp. A close time before the open boundary yields
// a zero-length interval. The receiver is not modified.
func (r Result) CloseOpen(at int64) []model.Interval {
	out := make([]model.Interval, len(r.Intervals), len(r.Intervals)+1)
	copy(out, r.Intervals)
	if !r.Open {
		return out
	}
	if at < r.OpenSince {
		at = r.OpenSince
	}
	return append(out, model.Interval{Start: r.OpenSince, Stop: at})
}
