package model

import "time"

// Interval is a reconstructed active period [Start, Stop] in unix seconds.
type Interval struct {
	Start int64 `json:"start"`
	Stop  int64 `json:"stop"`
}

// Duration returns the length of the interval.
func (i Interval) Duration() time.Duration {
	return time.Duration(i.Stop-i.Start) * time.Second
}

// StartTime returns the interval start as a time.Time in UTC.
func (i Interval) StartTime() time.Time {
	return time.Unix(i.Start, 0).UTC()
}

// StopTime returns the interval stop as a time.Time in UTC.
func (i Interval) StopTime() time.Time {
	return time.Unix(i.Stop, 0).UTC()
}

// TotalDuration sums the durations of all intervals.
func TotalDuration(intervals []Interval) time.Duration {
	var total time.Duration
	for _, iv := range intervals {
		total += iv.Duration()
	}
	return total
}
