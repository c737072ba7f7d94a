package util

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// TimeProvider resolves "now" and calendar days in the configured timezone
type TimeProvider struct {
	location *time.Location
	mu       sync.RWMutex
}

var (
	globalTimeProvider *TimeProvider
	mu                 sync.Mutex
)

// InitializeTimeProvider initializes the global time provider with the specified timezone
func InitializeTimeProvider(timezone string) error {
	provider := &TimeProvider{}
	if err := provider.SetTimezone(timezone); err != nil {
		return err
	}

	mu.Lock()
	globalTimeProvider = provider
	mu.Unlock()
	return nil
}

// GetTimeProvider returns the global time provider, defaulting to Local
func GetTimeProvider() *TimeProvider {
	mu.Lock()
	defer mu.Unlock()
	if globalTimeProvider == nil {
		globalTimeProvider = &TimeProvider{location: time.Local}
	}
	return globalTimeProvider
}

// LoadLocation resolves a timezone name; "" and "Local" mean time.Local.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w\nValid examples: Local, UTC, Europe/Moscow, America/New_York, Asia/Shanghai", timezone, err)
	}
	return loc, nil
}

// SetTimezone updates the timezone for the time provider
func (tp *TimeProvider) SetTimezone(timezone string) error {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return err
	}

	tp.mu.Lock()
	defer tp.mu.Unlock()
	tp.location = loc
	return nil
}

// Location returns the configured timezone
func (tp *TimeProvider) Location() *time.Location {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return tp.location
}

// Now returns the current time in the configured timezone
func (tp *TimeProvider) Now() time.Time {
	return time.Now().In(tp.Location())
}

// Today returns midnight of the current day in the configured timezone
func (tp *TimeProvider) Today() time.Time {
	return StartOfDay(time.Now(), tp.Location())
}

// ParseDate parses a calendar date in the configured timezone. Besides
// YYYY-MM-DD it accepts "today", "yesterday" and relative days such as "-7d".
func (tp *TimeProvider) ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	today := tp.Today()

	switch s {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if strings.HasPrefix(s, "-") && strings.HasSuffix(s, "d") {
		var days int
		if _, err := fmt.Sscanf(s, "-%dd", &days); err == nil && days >= 0 {
			return today.AddDate(0, 0, -days), nil
		}
	}

	t, err := time.ParseInLocation("2006-01-02", s, tp.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD, today, yesterday or -Nd", s)
	}
	return t, nil
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
