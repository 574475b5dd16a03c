package calendar

import (
	"time"

	"github.com/username/booking-form/pkg/dateutil"
)

// DefaultSlots are the bookable start times offered for every open day
var DefaultSlots = []string{"12:00", "14:00", "16:30", "18:30", "20:00"}

// Slot is one candidate start time
type Slot struct {
	Label      string
	Selectable bool
}

// Availability lists the candidate slots in their configured order
type Availability []Slot

// Selectable reports whether the labelled slot can be chosen
func (a Availability) Selectable(label string) bool {
	for _, s := range a {
		if s.Label == label {
			return s.Selectable
		}
	}
	return false
}

// Open returns the labels of selectable slots
func (a Availability) Open() []string {
	var open []string
	for _, s := range a {
		if s.Selectable {
			open = append(open, s.Label)
		}
	}
	return open
}

// AvailableSlots computes which "HH:MM" candidates can be chosen on selected.
// A zero selected means nothing is selected. Past days have no open slots; on
// today only slots strictly after now are open; future days are fully open.
// Holidays are not considered: callers must not offer slots on blocked days.
//
// selected and now are expected to be in the same location.
func AvailableSlots(selected time.Time, candidates []string, now time.Time) Availability {
	out := make(Availability, 0, len(candidates))

	day := dateutil.StartOfDay(selected)
	today := dateutil.StartOfDay(now)
	allClosed := selected.IsZero() || day.Before(today)
	isToday := !selected.IsZero() && dateutil.IsSameDay(day, today)

	for _, label := range candidates {
		hour, minute, err := dateutil.ParseClock(label)
		selectable := err == nil && !allClosed
		if selectable && isToday {
			at := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
			selectable = at.After(now)
		}
		out = append(out, Slot{Label: label, Selectable: selectable})
	}

	return out
}
