package constants

import "time"

const (
	// Column period of the default calendar chart: one row per day.
	DayPeriod        = 24 * time.Hour
	DayPeriodSeconds = int64(24 * 3600)

	// Default date range shown when no --from is given.
	DefaultRangeDays = 14

	// Row labels are thinned so that at most about this many are drawn.
	MaxRowLabels = 40

	// Refresh schedule for the live chart.
	DefaultWatchRefresh = "@every 1m"

	// Source files unmodified for this long skip the fingerprint check.
	CacheFingerprintSkipAge = 48 * time.Hour
)
