package dateutil

import (
	"fmt"
	"time"
)

// ISODateLayout is the YYYY-MM-DD layout used as the holiday lookup key
const ISODateLayout = "2006-01-02"

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// StartOfMonth returns the first day of the month at midnight
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// AddMonths moves the date by n calendar months and resets it to the 1st.
// Resetting first avoids the day-overflow normalization of time.AddDate (Jan 31 + 1 month).
func AddMonths(date time.Time, n int) time.Time {
	return time.Date(date.Year(), date.Month()+time.Month(n), 1, 0, 0, 0, 0, date.Location())
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MondayIndex returns the ISO weekday index of the date: Monday=0 ... Sunday=6
func MondayIndex(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}

// IsSunday returns true if the date is a Sunday
func IsSunday(date time.Time) bool {
	return date.Weekday() == time.Sunday
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// ISODate formats the date as YYYY-MM-DD
func ISODate(date time.Time) string {
	return date.Format(ISODateLayout)
}

// ParseISODate parses a YYYY-MM-DD string as midnight in loc
func ParseISODate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(ISODateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// ParseMonth parses a YYYY-MM string as the first day of that month in loc
func ParseMonth(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation("2006-01", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", s, err)
	}
	return t, nil
}

// ParseClock parses an "HH:MM" label into hour and minute
func ParseClock(label string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", label)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM: %w", label, err)
	}
	return t.Hour(), t.Minute(), nil
}

// Today returns today's date (start of day)
func Today() time.Time {
	return StartOfDay(time.Now())
}
