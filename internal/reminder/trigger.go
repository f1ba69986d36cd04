package reminder

import (
	"fmt"
	"strings"
	"time"
)

// NextTrigger returns the next instant, strictly after now, at which the
// wall clock in loc reads selected's hour, minute and second. The date of
// selected is ignored. Rolling over adds one calendar day to the wall-clock
// fields, so the result keeps its local time across DST changes.
func NextTrigger(now, selected time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	y, m, d := local.Date()
	h, mi, s := selected.Clock()

	candidate := time.Date(y, m, d, h, mi, s, 0, loc)
	for !candidate.After(now) {
		d++
		candidate = time.Date(y, m, d, h, mi, s, 0, loc)
	}
	return candidate.UTC()
}

var timeOfDayLayouts = []string{"15:04:05", "15:04"}

// ParseTimeOfDay parses HH:MM or HH:MM:SS.
func ParseTimeOfDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time of day %q (expected HH:MM or HH:MM:SS)", value)
}
