package aggregator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-deckview/internal/core/model"
	"github.com/penwyp/go-deckview/internal/util"
)

// GroupBy selects the calendar unit active time is summed over.
type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)

// ParseGroupBy validates a group-by name; "" means day.
func ParseGroupBy(s string) (GroupBy, error) {
	switch g := GroupBy(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return GroupByDay, nil
	case GroupByDay, GroupByWeek, GroupByMonth:
		return g, nil
	}
	return "", fmt.Errorf("invalid group-by %q (want day, week or month)", s)
}

// Bucket is the active time that falls into one calendar unit.
type Bucket struct {
	Key      string        `json:"key"`
	Start    time.Time     `json:"start"`
	Sessions int           `json:"sessions"`
	Active   time.Duration `json:"active"`
}

// Aggregator sums session time per calendar unit in a timezone.
type Aggregator struct {
	location *time.Location
	groupBy  GroupBy
}

// NewAggregator creates an aggregator; a nil location means time.Local.
func NewAggregator(loc *time.Location, groupBy GroupBy) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	if groupBy == "" {
		groupBy = GroupByDay
	}
	return &Aggregator{location: loc, groupBy: groupBy}
}

// GroupBy returns the configured unit.
func (a *Aggregator) GroupBy() GroupBy {
	return a.groupBy
}

// truncate returns the start of the unit containing t. Weeks start on Monday.
func (a *Aggregator) truncate(t time.Time) time.Time {
	day := util.StartOfDay(t, a.location)
	switch a.groupBy {
	case GroupByWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case GroupByMonth:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, a.location)
	}
	return day
}

func (a *Aggregator) next(start time.Time) time.Time {
	switch a.groupBy {
	case GroupByWeek:
		return start.AddDate(0, 0, 7)
	case GroupByMonth:
		return start.AddDate(0, 1, 0)
	}
	return start.AddDate(0, 0, 1)
}

func (a *Aggregator) key(start time.Time) string {
	switch a.groupBy {
	case GroupByWeek:
		year, week := start.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case GroupByMonth:
		return start.Format("2006-01")
	}
	return start.Format("2006-01-02")
}

// Aggregate splits every interval at unit boundaries and sums the pieces.
// A session counts once towards every unit it touches. Buckets are returned
// in chronological order; units without activity are omitted.
func (a *Aggregator) Aggregate(intervals []model.Interval) []Bucket {
	buckets := make(map[int64]*Bucket)

	for _, iv := range intervals {
		stop := iv.StopTime().In(a.location)
		cur := iv.StartTime().In(a.location)
		for {
			unit := a.truncate(cur)
			b, ok := buckets[unit.Unix()]
			if !ok {
				b = &Bucket{Key: a.key(unit), Start: unit}
				buckets[unit.Unix()] = b
			}
			b.Sessions++

			end := a.next(unit)
			if !end.Before(stop) {
				b.Active += stop.Sub(cur)
				break
			}
			b.Active += end.Sub(cur)
			cur = end
		}
	}

	result := make([]Bucket, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Start.Before(result[j].Start)
	})

	util.LogDebug(fmt.Sprintf("Aggregated %d sessions into %d %s buckets", len(intervals), len(result), a.groupBy))
	return result
}
