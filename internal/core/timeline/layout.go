package timeline

import (
	"errors"
	"fmt"

	"github.com/penwyp/go-deckview/internal/core/model"
)

var (
	// ErrInvalidLayout is returned for a layout with no rows or a non-positive period.
	ErrInvalidLayout = errors.New("invalid layout")
	// ErrInvertedInterval is returned when an interval stops before it starts.
	ErrInvertedInterval = errors.New("interval stops before it starts")
)

// Layout maps absolute time onto the wrapped chart: one row per Period
// seconds starting at Origin, Rows rows in total.
type Layout struct {
	Origin int64 `json:"origin"`
	Period int64 `json:"period"`
	Rows   int   `json:"rows"`
}

// NewLayout returns a validated layout.
func NewLayout(origin, period int64, rows int) (Layout, error) {
	l := Layout{Origin: origin, Period: period, Rows: rows}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// LayoutForWindow sizes a layout to cover [start, stop): the row count is the
// number of periods in the window rounded up, and at least one.
func LayoutForWindow(start, stop, period int64) (Layout, error) {
	if period <= 0 {
		return Layout{}, fmt.Errorf("%w: period %d must be positive", ErrInvalidLayout, period)
	}
	if stop < start {
		return Layout{}, fmt.Errorf("%w: window [%d, %d)", ErrInvertedInterval, start, stop)
	}
	rows := (stop - start + period - 1) / period
	if rows < 1 {
		rows = 1
	}
	return NewLayout(start, period, int(rows))
}

// Validate checks the layout preconditions.
func (l Layout) Validate() error {
	if l.Period <= 0 {
		return fmt.Errorf("%w: period %d must be positive", ErrInvalidLayout, l.Period)
	}
	if l.Rows < 1 {
		return fmt.Errorf("%w: row count %d must be at least 1", ErrInvalidLayout, l.Rows)
	}
	return nil
}

// RowHeight is the normalized distance between two adjacent rows.
// A single-row layout has no spacing and returns 0.
func (l Layout) RowHeight() float64 {
	if l.Rows <= 1 {
		return 0
	}
	return 1 / float64(l.Rows-1)
}

// Row returns the row index of ts, flooring for timestamps before the origin.
func (l Layout) Row(ts int64) int64 {
	return floorDiv(ts-l.Origin, l.Period)
}

// RowStart returns the timestamp at which the given row begins.
func (l Layout) RowStart(row int) int64 {
	return l.Origin + int64(row)*l.Period
}

// End returns the first timestamp past the last row.
func (l Layout) End() int64 {
	return l.RowStart(l.Rows)
}

// Project maps ts to its normalized chart position.
func (l Layout) Project(ts int64) model.Point {
	offset := ts - l.Origin
	row := floorDiv(offset, l.Period)
	rem := offset - row*l.Period
	return model.Point{
		X: float64(rem) / float64(l.Period),
		Y: float64(row) * l.RowHeight(),
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
