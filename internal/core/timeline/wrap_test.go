package timeline

import (
	"testing"

	"github.com/penwyp/go-deckview/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = int64(86400)

func TestWrap_WithinSingleRow(t *testing.T) {
	l, err := NewLayout(0, 3600, 24)
	require.NoError(t, err)

	segs, err := Wrap(model.Interval{Start: 100, Stop: 3000}, l)

	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, l.Project(100), segs[0].Start())
	assert.Equal(t, l.Project(3000), segs[0].End())
	assert.InDelta(t, 100.0/3600, segs[0].Start().X, 1e-12)
	assert.Equal(t, 0.0, segs[0].Start().Y)
}

func TestWrap_ZeroLengthInterval(t *testing.T) {
	l, err := NewLayout(0, day, 7)
	require.NoError(t, err)

	segs, err := Wrap(model.Interval{Start: 5000, Stop: 5000}, l)

	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, segs[0].Start(), segs[0].End())
}

func TestWrap_AcrossThreeDays(t *testing.T) {
	l, err := NewLayout(0, day, 3)
	require.NoError(t, err)

	// day 0 20:00 to day 2 04:00
	segs, err := Wrap(model.Interval{Start: 20 * 3600, Stop: 2*day + 4*3600}, l)

	require.NoError(t, err)
	require.Len(t, segs, 3)

	assert.InDelta(t, 20.0/24, segs[0][0].X, 1e-12)
	assert.Equal(t, model.Pt(1, 0), segs[0][1])

	assert.Equal(t, model.Seg(model.Pt(0, 0.5), model.Pt(1, 0.5)), segs[1])

	assert.Equal(t, model.Pt(0, 1), segs[2][0])
	assert.InDelta(t, 4.0/24, segs[2][1].X, 1e-12)
	assert.Equal(t, 1.0, segs[2][1].Y)
}

func TestWrap_SegmentCountAndContinuity(t *testing.T) {
	l, err := NewLayout(1738368000, day, 30)
	require.NoError(t, err)
	rowHeight := l.RowHeight()

	for k := 0; k < 10; k++ {
		start := l.Origin + 3*day + 13*3600 + 17
		stop := start + int64(k)*day + 600

		segs, err := Wrap(model.Interval{Start: start, Stop: stop}, l)
		require.NoError(t, err)
		require.Len(t, segs, k+1, "interval spanning %d boundaries", k)

		assert.Equal(t, l.Project(start), segs[0].Start())
		assert.Equal(t, l.Project(stop), segs[len(segs)-1].End())

		for i := 0; i+1 < len(segs); i++ {
			prev, next := segs[i].End(), segs[i+1].Start()
			assert.Equal(t, 1.0, prev.X, "segment %d must end on the right edge", i)
			assert.Equal(t, 0.0, next.X, "segment %d must start on the left edge", i+1)
			assert.InDelta(t, rowHeight, next.Y-prev.Y, 1e-9, "wrap must move down one row")
		}
	}
}

func TestWrap_StopAtRowBoundary(t *testing.T) {
	l, err := NewLayout(0, day, 4)
	require.NoError(t, err)

	segs, err := Wrap(model.Interval{Start: 12 * 3600, Stop: day}, l)

	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, model.Seg(model.Pt(0, l.RowHeight()), model.Pt(0, l.RowHeight())), segs[1])
}

func TestWrap_SingleRowLayout(t *testing.T) {
	l, err := NewLayout(0, 3600, 1)
	require.NoError(t, err)

	segs, err := Wrap(model.Interval{Start: 100, Stop: 3700}, l)

	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.InDelta(t, 100.0/3600, segs[0][0].X, 1e-12)
	assert.InDelta(t, 100.0/3600, segs[0][1].X, 1e-12)
	assert.Equal(t, 0.0, segs[0][0].Y)
	assert.Equal(t, 0.0, segs[0][1].Y)
}

func TestWrap_Preconditions(t *testing.T) {
	_, err := Wrap(model.Interval{Start: 10, Stop: 20}, Layout{Origin: 0, Period: 0, Rows: 3})
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = Wrap(model.Interval{Start: 10, Stop: 20}, Layout{Origin: 0, Period: 60, Rows: 0})
	assert.ErrorIs(t, err, ErrInvalidLayout)

	l, err := NewLayout(0, 60, 3)
	require.NoError(t, err)
	_, err = Wrap(model.Interval{Start: 20, Stop: 10}, l)
	assert.ErrorIs(t, err, ErrInvertedInterval)
}

func TestRowSpan_RoundsToNearest(t *testing.T) {
	assert.Equal(t, 1, RowSpan(model.Pt(0, 0), model.Pt(0, 0.4999), 0.5))
	assert.Equal(t, 1, RowSpan(model.Pt(0, 0), model.Pt(0, 0.5001), 0.5))
	assert.Equal(t, 0, RowSpan(model.Pt(0, 0), model.Pt(0, 0.2), 0.5))
	assert.Equal(t, 0, RowSpan(model.Pt(0, 0), model.Pt(0, 1), 0))
	assert.Equal(t, 0, RowSpan(model.Pt(0, 1), model.Pt(0, 0), 0.5))
}

func TestWrapPoints_MatchesWrap(t *testing.T) {
	l, err := NewLayout(0, day, 10)
	require.NoError(t, err)
	iv := model.Interval{Start: day + 100, Stop: 5*day + 7200}

	viaLayout, err := Wrap(iv, l)
	require.NoError(t, err)
	viaPoints := WrapPoints(l.Project(iv.Start), l.Project(iv.Stop), l.RowHeight())

	assert.Equal(t, viaLayout, viaPoints)
}

func TestGrid_FullWidthLinePerRow(t *testing.T) {
	l, err := NewLayout(0, day, 5)
	require.NoError(t, err)

	grid, err := Grid(l)

	require.NoError(t, err)
	require.Len(t, grid, 5)
	for i, seg := range grid {
		y := float64(i) / 4
		assert.Equal(t, 0.0, seg[0].X)
		assert.Equal(t, 1.0, seg[1].X)
		assert.InDelta(t, y, seg[0].Y, 1e-12)
		assert.InDelta(t, y, seg[1].Y, 1e-12)
	}
}

func TestGrid_SameThroughTimestampAndPointPaths(t *testing.T) {
	for _, days := range []int64{2, 7, 14, 31} {
		start := int64(1738368000)
		stop := start + days*day

		l, err := LayoutForWindow(start, stop, day)
		require.NoError(t, err)
		viaTimestamps, err := Grid(l)
		require.NoError(t, err)

		// row height computed from the raw window, as the background grid does
		dy := 1 / float64(days-1)
		viaPoints := WrapPoints(model.Pt(0, 0), model.Pt(1, 1), dy)

		assert.Equal(t, viaPoints, viaTimestamps, "%d days", days)
		assert.Len(t, viaTimestamps, int(days))
	}
}

func TestGrid_SingleRow(t *testing.T) {
	l, err := NewLayout(0, day, 1)
	require.NoError(t, err)

	grid, err := Grid(l)

	require.NoError(t, err)
	assert.Equal(t, []model.Segment{model.Seg(model.Pt(0, 0), model.Pt(1, 0))}, grid)
}

func TestSplitter_IsLazyAndNotRestartable(t *testing.T) {
	s := NewSplitter(model.Pt(0.5, 0), model.Pt(0.5, 1), 0.25)
	assert.Equal(t, 5, s.Len())

	first, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, model.Seg(model.Pt(0.5, 0), model.Pt(1, 0)), first)

	for range s.All() {
		break
	}
	rest := s.Collect()
	assert.Len(t, rest, 3)

	_, ok = s.Next()
	assert.False(t, ok)
	assert.Empty(t, s.Collect())
}
