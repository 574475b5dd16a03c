package holidays

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/emersion/go-ical"
)

const icsProductID = "-//booking-form//Holidays//EN"

// WriteICS writes the lookup as an iCalendar feed with one all-day event per date.
// National holidays are marked TRANSP:OPAQUE and categorised NATIONAL_HOLIDAY,
// observance-only days TRANSP:TRANSPARENT / OBSERVANCE.
func WriteICS(w io.Writer, byDate ByDate, country string, stamp time.Time) error {
	country = normalizeCountry(country)

	cal := ics.NewCalendar()
	cal.Props.SetText(ics.PropVersion, "2.0")
	cal.Props.SetText(ics.PropProductID, icsProductID)
	cal.Props.SetText("X-WR-CALNAME", fmt.Sprintf("Holidays %s", country))

	for _, key := range byDate.Dates() {
		info := byDate[key]

		start, err := time.Parse("2006-01-02", key)
		if err != nil {
			// Keys come from the remote source verbatim; skip anything that is not a date
			continue
		}

		comp := ics.NewComponent(ics.CompEvent)
		comp.Props.SetText(ics.PropUID, fmt.Sprintf("%s-%s@booking-form", key, strings.ToLower(country)))
		comp.Props.SetText(ics.PropSummary, strings.Join(info.ObservanceNames, " • "))
		comp.Props.SetDateTime(ics.PropDateTimeStamp, stamp.UTC())
		comp.Props.SetDate(ics.PropDateTimeStart, start)
		comp.Props.SetDate(ics.PropDateTimeEnd, start.AddDate(0, 0, 1))

		if info.IsNationalHoliday {
			comp.Props.SetText(ics.PropCategories, typeNationalHoliday)
			comp.Props.SetText(ics.PropTransparency, "OPAQUE")
		} else {
			comp.Props.SetText(ics.PropCategories, typeObservance)
			comp.Props.SetText(ics.PropTransparency, "TRANSPARENT")
		}

		cal.Children = append(cal.Children, comp)
	}

	if err := ics.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode ICS: %w", err)
	}
	return nil
}
