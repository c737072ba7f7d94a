package timeline

import (
	"fmt"
	"iter"
	"math"

	"github.com/penwyp/go-deckview/internal/core/model"
)

// Splitter lazily yields the straight pieces of a line that wraps across
// rows: from the start point to the right edge, full-width lines for every
// row in between, and from the left edge to the end point.
// It is finite and not restartable.
type Splitter struct {
	from, to model.Point
	n, i     int
}

// NewSplitter prepares the split of the line from a to b for rows spaced
// rowHeight apart. A non-positive rowHeight means a single row.
func NewSplitter(a, b model.Point, rowHeight float64) *Splitter {
	return &Splitter{
		from: a,
		to:   b,
		n:    RowSpan(a, b, rowHeight) + 1,
	}
}

// RowSpan is the number of row boundaries crossed between a and b, rounded to
// the nearest integer so projection error near a boundary does not add a
// spurious row.
func RowSpan(a, b model.Point, rowHeight float64) int {
	if rowHeight <= 0 {
		return 0
	}
	span := int(math.Round((b.Y - a.Y) / rowHeight))
	if span < 0 {
		return 0
	}
	return span
}

// Len returns the total number of segments the splitter produces.
func (s *Splitter) Len() int {
	return s.n
}

// Next returns the next segment, or false once the sequence is exhausted.
func (s *Splitter) Next() (model.Segment, bool) {
	if s.i >= s.n {
		return model.Segment{}, false
	}
	s.i++

	switch {
	case s.n == 1:
		return model.Seg(s.from, s.to), true
	case s.i == 1:
		return model.Seg(s.from, model.Pt(1, s.from.Y)), true
	case s.i == s.n:
		return model.Seg(model.Pt(0, s.to.Y), s.to), true
	default:
		// interpolate so rounding error is spread over the rows
		y := s.from.Y + (s.to.Y-s.from.Y)*float64(s.i-1)/float64(s.n-1)
		return model.Seg(model.Pt(0, y), model.Pt(1, y)), true
	}
}

// All returns the remaining segments as a range-over-func sequence.
func (s *Splitter) All() iter.Seq[model.Segment] {
	return func(yield func(model.Segment) bool) {
		for {
			seg, ok := s.Next()
			if !ok || !yield(seg) {
				return
			}
		}
	}
}

// Collect drains the splitter into a slice.
func (s *Splitter) Collect() []model.Segment {
	out := make([]model.Segment, 0, s.n-s.i)
	for seg := range s.All() {
		out = append(out, seg)
	}
	return out
}

// WrapPoints splits the line between two already projected points.
func WrapPoints(a, b model.Point, rowHeight float64) []model.Segment {
	return NewSplitter(a, b, rowHeight).Collect()
}

// Wrap projects an interval onto the layout and splits it into the segments
// needed to draw it across row boundaries.
func Wrap(iv model.Interval, l Layout) ([]model.Segment, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if iv.Stop < iv.Start {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrInvertedInterval, iv.Start, iv.Stop)
	}
	return WrapPoints(l.Project(iv.Start), l.Project(iv.Stop), l.RowHeight()), nil
}

// Grid returns one full-width line per row of the layout. It is the wrap of
// the diagonal (0,0)-(1,1); a single-row layout gets a single line at y=0.
func Grid(l Layout) ([]model.Segment, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if l.Rows == 1 {
		return []model.Segment{model.Seg(model.Pt(0, 0), model.Pt(1, 0))}, nil
	}
	return WrapPoints(model.Pt(0, 0), model.Pt(1, 1), l.RowHeight()), nil
}
