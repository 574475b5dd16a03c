package holidays

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/pl"
	"github.com/rickar/cal/v2/us"
)

// BuiltinSource computes holidays offline from the rickar/cal rule sets.
// Public holidays are reported as NATIONAL_HOLIDAY, everything else as OBSERVANCE.
type BuiltinSource struct {
	sets map[string][]*cal.Holiday
	now  func() time.Time
}

// NewBuiltinSource creates a source covering the bundled countries
func NewBuiltinSource() *BuiltinSource {
	return &BuiltinSource{
		sets: map[string][]*cal.Holiday{
			"PL": pl.Holidays,
			"US": us.Holidays,
		},
		now: time.Now,
	}
}

// Countries returns the supported country codes
func (bs *BuiltinSource) Countries() []string {
	codes := make([]string, 0, len(bs.sets))
	for code := range bs.sets {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Fetch computes the records for the country and year (current year when zero)
func (bs *BuiltinSource) Fetch(ctx context.Context, country string, year int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, cancelled(ctx)
	}

	country = normalizeCountry(country)
	set, ok := bs.sets[country]
	if !ok {
		return nil, fmt.Errorf("no built-in holidays for country %s", country)
	}

	if year <= 0 {
		year = bs.now().Year()
	}

	records := make([]Record, 0, len(set))
	for _, h := range set {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue
		}

		typeLabel := typeObservance
		if h.Type == cal.ObservancePublic {
			typeLabel = typeNationalHoliday
		}

		records = append(records, Record{
			Name: h.Name,
			Date: actual.Format("2006-01-02"),
			Type: typeLabel,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})

	return records, nil
}
