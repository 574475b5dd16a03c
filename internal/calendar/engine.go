package calendar

import (
	"time"

	"github.com/username/booking-form/internal/holidays"
	"github.com/username/booking-form/pkg/dateutil"
)

// Direction is a month navigation step
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// Engine holds the date picker state: the displayed month, the selected day and "today".
// Today is fixed at construction, so a session that crosses midnight keeps its initial day.
type Engine struct {
	cursor   time.Time
	selected time.Time
	today    time.Time
}

// NewEngine creates an engine showing the month that contains now
func NewEngine(now time.Time) *Engine {
	today := dateutil.StartOfDay(now)
	return &Engine{
		cursor: dateutil.StartOfMonth(today),
		today:  today,
	}
}

// Today returns the day the engine was created on
func (e *Engine) Today() time.Time {
	return e.today
}

// Cursor returns the first day of the displayed month
func (e *Engine) Cursor() time.Time {
	return e.cursor
}

// Selected returns the selected day, if any
func (e *Engine) Selected() (time.Time, bool) {
	return e.selected, !e.selected.IsZero()
}

// Navigate moves the cursor by one month. Moving before the month containing
// today is rejected and leaves the cursor unchanged.
func (e *Engine) Navigate(dir Direction) (time.Time, bool) {
	target := dateutil.AddMonths(e.cursor, int(dir))
	if target.Before(dateutil.StartOfMonth(e.today)) {
		return e.cursor, false
	}
	e.cursor = target
	return e.cursor, true
}

// CanNavigate reports whether Navigate(dir) would move the cursor
func (e *Engine) CanNavigate(dir Direction) bool {
	return !dateutil.AddMonths(e.cursor, int(dir)).Before(dateutil.StartOfMonth(e.today))
}

// JumpTo moves the cursor to the month containing date, clamped to today's month
func (e *Engine) JumpTo(date time.Time) time.Time {
	target := dateutil.StartOfMonth(date)
	if earliest := dateutil.StartOfMonth(e.today); target.Before(earliest) {
		target = earliest
	}
	e.cursor = target
	return e.cursor
}

// Select replaces the selection. Blocked days are not rejected here;
// callers consult Cell.Blocked before offering a day.
func (e *Engine) Select(date time.Time) {
	e.selected = dateutil.StartOfDay(date)
}

// ClearSelection drops the selected day
func (e *Engine) ClearSelection() {
	e.selected = time.Time{}
}

// Month builds the grid for the displayed month
func (e *Engine) Month(byDate holidays.ByDate) Month {
	cells, label := BuildMonthGrid(e.cursor, byDate, e.today)
	return Month{
		Cursor: e.cursor,
		Label:  label,
		Cells:  cells,
	}
}

// IsBlocked reports whether date is blocked relative to the engine's today
func (e *Engine) IsBlocked(date time.Time, byDate holidays.ByDate) bool {
	return IsBlocked(date, byDate, e.today)
}

// Observances returns the names for the selected day, empty when nothing is selected
func (e *Engine) Observances(byDate holidays.ByDate) []string {
	if e.selected.IsZero() {
		return []string{}
	}
	return ObservancesFor(e.selected, byDate)
}

// Slots returns the time-slot availability of the selected day
func (e *Engine) Slots(candidates []string, now time.Time) Availability {
	return AvailableSlots(e.selected, candidates, now)
}
