package timeline

import (
	"fmt"
	"strconv"
	"time"

	"github.com/penwyp/go-deckview/internal/core/constants"
	"github.com/penwyp/go-deckview/internal/core/model"
	"github.com/penwyp/go-deckview/internal/util"
)

// maxDSTShift bounds how far a calendar day may differ from 24 hours.
const maxDSTShift = int64(2 * 3600)

// Guide is a vertical guide line at a column fraction.
type Guide struct {
	X     float64 `json:"x"`
	Label string  `json:"label"`
}

// Label names a row at its normalized Y position.
type Label struct {
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

// TimelineBuilder turns dates and sessions into chart geometry
type TimelineBuilder struct {
	timezone *time.Location
}

// NewTimelineBuilder creates a new timeline builder
func NewTimelineBuilder(timezone string) *TimelineBuilder {
	loc := time.Local
	if timezone != "" && timezone != "Local" {
		if l, err := time.LoadLocation(timezone); err == nil {
			loc = l
		}
	}
	return &TimelineBuilder{
		timezone: loc,
	}
}

// Location returns the builder's timezone.
func (tb *TimelineBuilder) Location() *time.Location {
	return tb.timezone
}

// Window returns the half-open window [midnight(from), midnight(to)+1 day) in
// the builder's timezone, so both dates are shown in full.
func (tb *TimelineBuilder) Window(from, to time.Time) (int64, int64, error) {
	start := util.StartOfDay(from, tb.timezone)
	stop := util.StartOfDay(to, tb.timezone).AddDate(0, 0, 1)
	if !stop.After(start) {
		return 0, 0, fmt.Errorf("%w: range %s .. %s is empty", ErrInvertedInterval,
			start.Format("2006-01-02"), to.In(tb.timezone).Format("2006-01-02"))
	}
	return start.Unix(), stop.Unix(), nil
}

// LayoutFor sizes a layout for the window with the given column period.
// When the period divides a day and the window spans whole calendar days,
// rows are counted per calendar day so a DST shift does not add or drop one.
func (tb *TimelineBuilder) LayoutFor(start, stop int64, period time.Duration) (Layout, error) {
	l, err := LayoutForWindow(start, stop, int64(period/time.Second))
	if err != nil {
		return Layout{}, err
	}
	if perDay := rowsPerDay(l.Period); perDay > 0 {
		if days := calendarDays(start, stop); days > 0 {
			l.Rows = int(days * perDay)
		}
	}
	return l, nil
}

// rowsPerDay returns how many periods fit in a day, or 0 when the period
// does not divide a day evenly.
func rowsPerDay(period int64) int64 {
	if period <= 0 || constants.DayPeriodSeconds%period != 0 {
		return 0
	}
	return constants.DayPeriodSeconds / period
}

// calendarDays returns the number of days in [start, stop) when the span is
// a whole number of days give or take a DST shift, and 0 otherwise.
func calendarDays(start, stop int64) int64 {
	span := stop - start
	days := (span + constants.DayPeriodSeconds/2) / constants.DayPeriodSeconds
	if diff := span - days*constants.DayPeriodSeconds; diff > maxDSTShift || diff < -maxDSTShift {
		return 0
	}
	return days
}

// Foreground wraps every interval onto the layout. Stops at or past the end of
// the last row are clipped into it. Intervals that violate
// the preconditions are skipped and reported through the returned count.
func (tb *TimelineBuilder) Foreground(intervals []model.Interval, l Layout) ([]model.Segment, int, error) {
	if err := l.Validate(); err != nil {
		return nil, 0, err
	}

	segments := make([]model.Segment, 0, len(intervals))
	skipped := 0
	end := l.End()
	for _, iv := range intervals {
		// the last row ends just before End; a stop at or past it would
		// project onto a row that does not exist
		if iv.Stop >= end && iv.Start < end {
			iv.Stop = end - 1
		}
		segs, err := Wrap(iv, l)
		if err != nil {
			util.LogDebugf("Skip interval [%d, %d]: %v", iv.Start, iv.Stop, err)
			skipped++
			continue
		}
		segments = append(segments, segs...)
	}
	return segments, skipped, nil
}

// Background returns the row grid of the layout.
func (tb *TimelineBuilder) Background(l Layout) ([]model.Segment, error) {
	return Grid(l)
}

// ColumnGuides places guides at the quarters of a column. Labels are the hour
// offset into the column when the period is a whole number of hours.
func (tb *TimelineBuilder) ColumnGuides(period time.Duration) []Guide {
	guides := make([]Guide, 0, 3)
	for _, q := range []int64{1, 2, 3} {
		offset := period * time.Duration(q) / 4
		guides = append(guides, Guide{
			X:     float64(q) / 4,
			Label: guideLabel(offset, period),
		})
	}
	return guides
}

func guideLabel(offset, period time.Duration) string {
	if period%(4*time.Hour) == 0 {
		return strconv.FormatInt(int64(offset/time.Hour), 10)
	}
	return offset.String()
}

// rowTime is the wall-clock start of row i. Day-aligned periods follow the
// calendar so labels stay on the date across DST changes.
func rowTime(origin time.Time, l Layout, perDay int64, i int) time.Time {
	if perDay == 0 {
		return time.Unix(l.RowStart(i), 0).In(origin.Location())
	}
	day, slot := int(int64(i)/perDay), int(int64(i)%perDay)
	return time.Date(origin.Year(), origin.Month(), origin.Day()+day,
		origin.Hour(), origin.Minute(), origin.Second()+slot*int(l.Period), 0, origin.Location())
}

// RowLabels names the rows with their start date, thinned so that roughly
// constants.MaxRowLabels labels are kept.
func (tb *TimelineBuilder) RowLabels(l Layout) []Label {
	layout := "02.01"
	if l.Period < constants.DayPeriodSeconds {
		layout = "02.01 15:04"
	}

	origin := time.Unix(l.Origin, 0).In(tb.timezone)
	perDay := rowsPerDay(l.Period)

	step := l.Rows / constants.MaxRowLabels
	labels := make([]Label, 0, l.Rows/(step+1)+1)
	for i := 0; i < l.Rows; i++ {
		if step != 0 && i%(step+1) != 0 {
			continue
		}
		labels = append(labels, Label{
			Y:    float64(i) * l.RowHeight(),
			Text: rowTime(origin, l, perDay, i).Format(layout),
		})
	}
	return labels
}
