package formatter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/penwyp/go-deckview/internal/core/model"
	"github.com/penwyp/go-deckview/internal/data/aggregator"
)

// SessionRow is one listed session.
type SessionRow struct {
	Index    int           `json:"index"`
	Start    time.Time     `json:"start"`
	Stop     time.Time     `json:"stop"`
	Duration time.Duration `json:"duration"`
	// Open marks a session that was still running and closed at report time.
	Open bool `json:"open,omitempty"`
}

// SessionReport is the session listing of one application over a window.
type SessionReport struct {
	App      model.App     `json:"app"`
	From     time.Time     `json:"from"`
	To       time.Time     `json:"to"`
	Sessions []SessionRow  `json:"sessions"`
	Total    time.Duration `json:"total"`
	// GroupBy is the unit of the summary totals; empty means day.
	GroupBy aggregator.GroupBy `json:"groupBy,omitempty"`

	intervals []model.Interval
	location  *time.Location
}

// NewSessionReport builds a report in loc. When open is set the last interval
// is the running session closed at report time.
func NewSessionReport(app model.App, start, stop int64, intervals []model.Interval, open bool, loc *time.Location) *SessionReport {
	r := &SessionReport{
		App:      app,
		From:     time.Unix(start, 0).In(loc),
		To:       time.Unix(stop, 0).In(loc),
		Sessions: make([]SessionRow, 0, len(intervals)),
		Total:    model.TotalDuration(intervals),

		intervals: intervals,
		location:  loc,
	}
	for i, iv := range intervals {
		r.Sessions = append(r.Sessions, SessionRow{
			Index:    i + 1,
			Start:    iv.StartTime().In(loc),
			Stop:     iv.StopTime().In(loc),
			Duration: iv.Duration(),
			Open:     open && i == len(intervals)-1,
		})
	}
	return r
}

// Totals sums the active time per GroupBy unit. A session counts towards
// every unit it touches.
func (r *SessionReport) Totals() []aggregator.Bucket {
	return aggregator.NewAggregator(r.location, r.GroupBy).Aggregate(r.intervals)
}

// Formatter writes session reports and application lists.
type Formatter interface {
	Format(w io.Writer, report *SessionReport) error
	FormatApps(w io.Writer, apps []model.App) error
}

// New returns the formatter for an --output name.
func New(output string) (Formatter, error) {
	switch strings.ToLower(output) {
	case "", "table":
		return NewTableFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	case "summary":
		return NewSummaryFormatter(), nil
	}
	return nil, fmt.Errorf("unknown output format %q (want table, json, csv or summary)", output)
}
