package core

import (
	"time"
)

// Midnight truncates a time to 00:00 in its own location. Date-only
// comparisons across the dashboard all go through this.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
