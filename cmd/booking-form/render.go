package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/username/booking-form/internal/calendar"
	"github.com/username/booking-form/internal/holidays"
	"github.com/username/booking-form/pkg/dateutil"
)

const (
	ansiReset   = "\x1b[0m"
	ansiDim     = "\x1b[2m"
	ansiReverse = "\x1b[7m"
	ansiStrike  = "\x1b[9m"

	markSelected   = '*'
	markBlocked    = 'x'
	markObservance = '!'

	legend = "x unavailable   ! observance   * selected"
)

// renderMonth prints the month label, weekday header and the grid, one week per line
func renderMonth(w io.Writer, month calendar.Month, selected time.Time, byDate holidays.ByDate, color bool) {
	fmt.Fprintln(w, month.Label)

	var row strings.Builder
	for _, wd := range calendar.Weekdays {
		row.WriteString(wd + " ")
	}
	fmt.Fprintln(w, strings.TrimRight(row.String(), " "))
	row.Reset()

	for i, cell := range month.Cells {
		row.WriteString(renderCell(cell, selected, byDate, color))
		if i%7 == 6 || i == len(month.Cells)-1 {
			fmt.Fprintln(w, strings.TrimRight(row.String(), " "))
			row.Reset()
		}
	}
}

func renderCell(cell calendar.Cell, selected time.Time, byDate holidays.ByDate, color bool) string {
	if cell.IsPadding() {
		return "   "
	}

	isSelected := !selected.IsZero() && dateutil.IsSameDay(cell.Date, selected)

	mark := ' '
	switch {
	case isSelected:
		mark = markSelected
	case cell.Blocked:
		mark = markBlocked
	case len(calendar.ObservancesFor(cell.Date, byDate)) > 0:
		mark = markObservance
	}

	text := fmt.Sprintf("%2d%c", cell.Date.Day(), mark)
	if !color {
		return text
	}

	switch {
	case isSelected:
		return ansiReverse + text + ansiReset
	case cell.Blocked:
		return ansiDim + text + ansiReset
	default:
		return text
	}
}

// renderSlots prints one line per candidate slot
func renderSlots(w io.Writer, slots calendar.Availability, chosen string, color bool) {
	for _, slot := range slots {
		line := slot.Label
		switch {
		case !slot.Selectable && color:
			line = ansiStrike + ansiDim + line + ansiReset + "  unavailable"
		case !slot.Selectable:
			line += "  unavailable"
		case slot.Label == chosen:
			line += "  *"
		}
		fmt.Fprintln(w, line)
	}
}

// renderObservances prints the names for the selected day, if any
func renderObservances(w io.Writer, date time.Time, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(w, "%s: %s\n", date.Format("Mon, 2 Jan 2006"), strings.Join(names, ", "))
}
