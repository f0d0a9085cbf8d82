package journal

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// FirstWeekday is the day every week starts on.
const FirstWeekday = time.Sunday

// ParseDate parses a YYYY-MM-DD calendar date into a UTC midnight.
// Dates that do not exist (2023-02-29, 2024-13-01) are rejected.
func ParseDate(s string) (time.Time, error) {
	if len(s) != len(DateLayout) {
		return time.Time{}, fmt.Errorf("date %q is not in YYYY-MM-DD form", s)
	}
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is not a calendar date", s)
	}
	return d, nil
}

// FormatDate renders the calendar date of t (in t's location).
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the calendar date of now as seen in loc.
func Today(clock Clock, loc *time.Location) time.Time {
	now := clock.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the first day of the week containing d.
func WeekStart(d time.Time) time.Time {
	offset := (int(d.Weekday()) - int(FirstWeekday) + 7) % 7
	return d.AddDate(0, 0, -offset)
}

// PeriodEnd returns the last day of the period starting at start. A week is
// start+6 days; a month ends on the last day of start's calendar month.
func PeriodEnd(p PeriodType, start time.Time) (time.Time, error) {
	switch p {
	case PeriodWeek:
		return start.AddDate(0, 0, 6), nil
	case PeriodMonth:
		firstOfNext := time.Date(start.Year(), start.Month()+1, 1, 0, 0, 0, 0, start.Location())
		return firstOfNext.AddDate(0, 0, -1), nil
	default:
		return time.Time{}, fmt.Errorf("unknown period type %q", p)
	}
}

// WeekStartOf is WeekStart for wire-format dates.
func WeekStartOf(date string) (string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(WeekStart(d)), nil
}

// PeriodEndOf is PeriodEnd for wire-format dates.
func PeriodEndOf(p PeriodType, start string) (string, error) {
	s, err := ParseDate(start)
	if err != nil {
		return "", err
	}
	end, err := PeriodEnd(p, s)
	if err != nil {
		return "", err
	}
	return FormatDate(end), nil
}
