package timex

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Window is a half-open time interval [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

// DayWindow returns the calendar day containing t, in t's location.
func DayWindow(t time.Time) Window {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Window{From: start, To: start.AddDate(0, 0, 1)}
}

// WeekWindow returns the ISO week (Monday 00:00 to the next Monday 00:00)
// containing t, in t's location.
func WeekWindow(t time.Time) Window {
	day := DayWindow(t).From
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	start := day.AddDate(0, 0, -offset)
	return Window{From: start, To: start.AddDate(0, 0, 7)}
}

// ParseWindow parses caller-supplied bounds. Each bound is either a date
// (YYYY-MM-DD, interpreted in loc) or an RFC 3339 timestamp. A date-only end
// covers that whole day; a timestamp end is exclusive.
func ParseWindow(start, end string, loc *time.Location) (Window, error) {
	from, _, err := parseBound(start, loc)
	if err != nil {
		return Window{}, fmt.Errorf("invalid start: %w", err)
	}
	to, dateOnly, err := parseBound(end, loc)
	if err != nil {
		return Window{}, fmt.Errorf("invalid end: %w", err)
	}
	if dateOnly {
		to = to.AddDate(0, 0, 1)
	}
	if !to.After(from) {
		return Window{}, fmt.Errorf("end must be after start")
	}
	return Window{From: from, To: to}, nil
}

func parseBound(s string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, false, nil
}
