package timeline

import (
	"testing"
	"time"

	"github.com/penwyp/go-deckview/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineBuilder_Window(t *testing.T) {
	tb := NewTimelineBuilder("UTC")

	from := time.Date(2025, 2, 1, 15, 30, 0, 0, time.UTC)
	to := time.Date(2025, 2, 14, 8, 0, 0, 0, time.UTC)
	start, stop, err := tb.Window(from, to)

	require.NoError(t, err)
	assert.Equal(t, int64(1738368000), start)
	assert.Equal(t, start+14*day, stop)
}

func TestTimelineBuilder_WindowSingleDay(t *testing.T) {
	tb := NewTimelineBuilder("UTC")
	d := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	start, stop, err := tb.Window(d, d)

	require.NoError(t, err)
	assert.Equal(t, day, stop-start)
}

func TestTimelineBuilder_WindowInverted(t *testing.T) {
	tb := NewTimelineBuilder("UTC")

	_, _, err := tb.Window(time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))

	assert.ErrorIs(t, err, ErrInvertedInterval)
}

func TestTimelineBuilder_WindowHonoursTimezone(t *testing.T) {
	tb := NewTimelineBuilder("Asia/Shanghai")
	d := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	start, _, err := tb.Window(d, d)

	require.NoError(t, err)
	// midnight in UTC+8 is 16:00 UTC the previous day
	assert.Equal(t, int64(1738368000-8*3600), start)
}

func TestTimelineBuilder_InvalidTimezoneFallsBackToLocal(t *testing.T) {
	tb := NewTimelineBuilder("Not/AZone")
	assert.Equal(t, time.Local, tb.Location())
}

func TestTimelineBuilder_Foreground(t *testing.T) {
	tb := NewTimelineBuilder("UTC")
	l, err := tb.LayoutFor(0, 3*day, 24*time.Hour)
	require.NoError(t, err)

	segs, skipped, err := tb.Foreground([]model.Interval{
		{Start: 3600, Stop: 7200},
		{Start: 20 * 3600, Stop: 2*day + 4*3600},
		{Start: 500, Stop: 100},
	}, l)

	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.Len(t, segs, 4)
}

func TestTimelineBuilder_ForegroundEmpty(t *testing.T) {
	tb := NewTimelineBuilder("UTC")
	l, err := tb.LayoutFor(0, 3*day, 24*time.Hour)
	require.NoError(t, err)

	segs, skipped, err := tb.Foreground(nil, l)

	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Empty(t, segs)
}

func TestTimelineBuilder_ColumnGuides(t *testing.T) {
	tb := NewTimelineBuilder("UTC")

	guides := tb.ColumnGuides(24 * time.Hour)
	assert.Equal(t, []Guide{{X: 0.25, Label: "6"}, {X: 0.5, Label: "12"}, {X: 0.75, Label: "18"}}, guides)

	guides = tb.ColumnGuides(time.Hour)
	assert.Equal(t, "15m0s", guides[0].Label)
	assert.Equal(t, "45m0s", guides[2].Label)
}

func TestTimelineBuilder_RowLabels(t *testing.T) {
	tb := NewTimelineBuilder("UTC")

	l, err := tb.LayoutFor(1738368000, 1738368000+14*day, 24*time.Hour)
	require.NoError(t, err)
	labels := tb.RowLabels(l)
	require.Len(t, labels, 14)
	assert.Equal(t, "01.02", labels[0].Text)
	assert.Equal(t, 0.0, labels[0].Y)
	assert.Equal(t, "14.02", labels[13].Text)
	assert.InDelta(t, 1.0, labels[13].Y, 1e-12)

	l, err = tb.LayoutFor(0, 100*day, 24*time.Hour)
	require.NoError(t, err)
	labels = tb.RowLabels(l)
	assert.Len(t, labels, 34)
	assert.InDelta(t, 3*l.RowHeight(), labels[1].Y, 1e-12)
}

func TestTimelineBuilder_RowLabelsSubDayPeriod(t *testing.T) {
	tb := NewTimelineBuilder("UTC")
	l, err := tb.LayoutFor(1738368000, 1738368000+4*3600, time.Hour)
	require.NoError(t, err)

	labels := tb.RowLabels(l)

	require.Len(t, labels, 4)
	assert.Equal(t, "01.02 03:00", labels[3].Text)
}

func TestTimelineBuilder_ForegroundClipsAtLayoutEnd(t *testing.T) {
	tb := NewTimelineBuilder("UTC")
	l, err := tb.LayoutFor(0, 3*day, 24*time.Hour)
	require.NoError(t, err)

	segs, skipped, err := tb.Foreground([]model.Interval{{Start: 2*day + 20*3600, Stop: 3 * day}}, l)

	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, segs, 1)
	end := segs[0].End()
	assert.Equal(t, 1.0, end.Y)
	assert.Less(t, end.X, 1.0)
	assert.InDelta(t, 1.0, end.X, 1e-4)
}

func TestTimelineBuilder_LayoutAcrossDST(t *testing.T) {
	tb := NewTimelineBuilder("Europe/Berlin")
	loc := tb.Location()

	tests := []struct {
		name      string
		from, to  time.Time
		period    time.Duration
		rows      int
		lastLabel string
	}{
		{"fall back", time.Date(2026, 10, 20, 0, 0, 0, 0, loc), time.Date(2026, 11, 2, 0, 0, 0, 0, loc), 24 * time.Hour, 14, "02.11"},
		{"spring forward", time.Date(2026, 3, 23, 0, 0, 0, 0, loc), time.Date(2026, 4, 5, 0, 0, 0, 0, loc), 24 * time.Hour, 14, "05.04"},
		{"fall back six hours", time.Date(2026, 10, 24, 0, 0, 0, 0, loc), time.Date(2026, 10, 25, 0, 0, 0, 0, loc), 6 * time.Hour, 8, "25.10 18:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, stop, err := tb.Window(tt.from, tt.to)
			require.NoError(t, err)
			l, err := tb.LayoutFor(start, stop, tt.period)
			require.NoError(t, err)
			assert.Equal(t, tt.rows, l.Rows)

			labels := tb.RowLabels(l)
			require.Len(t, labels, tt.rows)
			seen := make(map[string]bool)
			for _, label := range labels {
				assert.False(t, seen[label.Text], "duplicate label %s", label.Text)
				seen[label.Text] = true
			}
			assert.Equal(t, tt.lastLabel, labels[len(labels)-1].Text)
		})
	}
}
