package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CalendarDayLayout is the YYYY-MM-DD form used for calendar days
const CalendarDayLayout = "2006-01-02"

var plainDate = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)

// fallbackLayouts are tried in order when a date is not plain YYYY-MM-DD.
// Layouts without a zone are read in the caller's location.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseCalendarDate reads raw as a calendar date at midnight in loc.
// Plain YYYY-MM-DD input is built from its components, never through a
// zone-aware parse, so the day cannot shift. Other inputs fall back to a
// best-effort parse and keep their own clock time.
func ParseCalendarDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	if m := plainDate.FindStringSubmatch(raw); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])

		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
		// time.Date normalizes 2024-02-30 into March; reject instead.
		if t.Year() != year || int(t.Month()) != month || t.Day() != day {
			return time.Time{}, validationError("date %q is not a valid calendar day", raw)
		}
		return t, nil
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, validationError("unrecognized date %q, expected YYYY-MM-DD", raw)
}

// DayWindowAt returns the calendar day of now in now's own location and the
// UTC offset in effect at that instant as ±HH:MM. Both are derived from the
// single instant so a DST change cannot split them.
func DayWindowAt(now time.Time) (day, offset string) {
	_, seconds := now.Zone()
	return now.Format(CalendarDayLayout), FormatUTCOffset(seconds)
}

// FormatUTCOffset renders an offset in seconds east of UTC as ±HH:MM
func FormatUTCOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	minutes := seconds / 60
	return fmt.Sprintf("%c%02d:%02d", sign, minutes/60, minutes%60)
}
