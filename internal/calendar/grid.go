package calendar

import (
	"fmt"
	"time"

	"github.com/username/booking-form/internal/holidays"
	"github.com/username/booking-form/pkg/dateutil"
)

// Weekdays are the grid column headers, Monday first
var Weekdays = [7]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// Cell is one slot of the month grid.
// A padding cell has a zero Date and aligns day 1 under its weekday column.
type Cell struct {
	Date    time.Time
	Blocked bool
}

// IsPadding reports whether the cell is a leading padding slot
func (c Cell) IsPadding() bool {
	return c.Date.IsZero()
}

// Month is a rendered month: its cells and label
type Month struct {
	Cursor time.Time
	Label  string
	Cells  []Cell
}

// Days returns the non-padding cells
func (m Month) Days() []Cell {
	days := make([]Cell, 0, len(m.Cells))
	for _, c := range m.Cells {
		if !c.IsPadding() {
			days = append(days, c)
		}
	}
	return days
}

// Cell returns the cell for the given day of the month
func (m Month) Cell(day int) (Cell, bool) {
	for _, c := range m.Cells {
		if !c.IsPadding() && c.Date.Day() == day {
			return c, true
		}
	}
	return Cell{}, false
}

// BuildMonthGrid returns the cells of cursor's month and its label ("January 2025").
// Cells start with Monday-first padding and end on the month's last day.
func BuildMonthGrid(cursor time.Time, byDate holidays.ByDate, today time.Time) ([]Cell, string) {
	first := dateutil.StartOfMonth(cursor)
	daysInMonth := dateutil.DaysInMonth(first.Year(), first.Month())
	offset := dateutil.MondayIndex(first)
	today = dateutil.StartOfDay(today)

	cells := make([]Cell, 0, offset+daysInMonth)
	for i := 0; i < offset; i++ {
		cells = append(cells, Cell{})
	}

	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, first.Location())
		cells = append(cells, Cell{
			Date:    date,
			Blocked: IsBlocked(date, byDate, today),
		})
	}

	return cells, MonthLabel(first)
}

// IsBlocked reports whether a day cannot be scheduled: Sunday, national holiday or past.
// Observance-only days are not blocked.
func IsBlocked(date time.Time, byDate holidays.ByDate, today time.Time) bool {
	day := dateutil.StartOfDay(date)
	return dateutil.IsSunday(day) ||
		byDate.IsNationalHoliday(dateutil.ISODate(day)) ||
		day.Before(dateutil.StartOfDay(today))
}

// MonthLabel formats the long English month name and four-digit year
func MonthLabel(date time.Time) string {
	return fmt.Sprintf("%s %04d", date.Month().String(), date.Year())
}

// ObservancesFor returns the holiday and observance names of a date, or an empty slice
func ObservancesFor(date time.Time, byDate holidays.ByDate) []string {
	info, ok := byDate.Get(dateutil.ISODate(date))
	if !ok || len(info.ObservanceNames) == 0 {
		return []string{}
	}
	return info.ObservanceNames
}
