package interaction

import (
	"fmt"
	"sort"
	"strings"

	"github.com/penwyp/go-deckview/internal/presentation/formatter"
)

// SortField represents the field to sort sessions by
type SortField int

const (
	SortByStart SortField = iota
	SortByDuration
)

// SortOrder represents the sort order
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

// ParseSortField maps a flag value to a field; "" means start.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "start", "time":
		return SortByStart, nil
	case "duration":
		return SortByDuration, nil
	}
	return 0, fmt.Errorf("invalid sort field %q (want start or duration)", s)
}

// SessionSorter handles sorting of listed sessions
type SessionSorter struct {
	field SortField
	order SortOrder
}

// NewSessionSorter returns a sorter in chronological order.
func NewSessionSorter() *SessionSorter {
	return &SessionSorter{
		field: SortByStart,
		order: SortAscending,
	}
}

// SetField changes the sort field
func (s *SessionSorter) SetField(field SortField) {
	s.field = field
}

// SetOrder changes the sort order
func (s *SessionSorter) SetOrder(order SortOrder) {
	s.order = order
}

// Sort sorts the rows in place; ties are ordered by start time.
func (s *SessionSorter) Sort(rows []formatter.SessionRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if s.order == SortDescending {
			a, b = b, a
		}

		switch s.field {
		case SortByDuration:
			if a.Duration != b.Duration {
				return a.Duration < b.Duration
			}
		}
		return a.Start.Before(b.Start)
	})
}
