package util

import (
	"fmt"
	"time"
)

// FormatDuration renders a duration as "3h 05m", "12m" or "40s".
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %02dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatTimestamp renders unix seconds in the global time provider's zone.
func FormatTimestamp(ts int64) string {
	return time.Unix(ts, 0).In(GetTimeProvider().Location()).Format("2006-01-02 15:04:05")
}
