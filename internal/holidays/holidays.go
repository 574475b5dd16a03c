package holidays

import (
	"context"
	"sort"
	"strings"
)

const (
	// DefaultCountry is used when no country code is given
	DefaultCountry = "PL"

	typeNationalHoliday = "NATIONAL_HOLIDAY"
	typeObservance      = "OBSERVANCE"
)

// Record is a single holiday entry as returned by the holiday API
type Record struct {
	Name string `json:"name" yaml:"name"`
	Date string `json:"date" yaml:"date"` // YYYY-MM-DD
	Type string `json:"type" yaml:"type"`
}

// Category classifies a record by its type label
type Category int

const (
	CategoryNone Category = iota
	CategoryNational
	CategoryObservance
)

// DayInfo aggregates all qualifying records of one date
type DayInfo struct {
	IsNationalHoliday bool
	ObservanceNames   []string
}

// ByDate maps an ISO date key to its holiday info.
// A missing key means no holiday or observance on that date.
type ByDate map[string]DayInfo

// Source provides raw holiday records for a country.
// A zero year means the source's default (usually the current year).
type Source interface {
	Fetch(ctx context.Context, country string, year int) ([]Record, error)
}

// Classify returns the category of a type label (case-insensitive)
func Classify(typeLabel string) Category {
	upper := strings.ToUpper(typeLabel)
	if upper == typeNationalHoliday {
		return CategoryNational
	}
	if strings.Contains(upper, typeObservance) {
		return CategoryObservance
	}
	return CategoryNone
}

// Normalize reduces records into a per-date lookup.
// Records of any other category are dropped; names keep input order and are not deduplicated.
func Normalize(records []Record) ByDate {
	out := make(ByDate)
	for _, r := range records {
		category := Classify(r.Type)
		if category == CategoryNone {
			continue
		}

		info := out[r.Date]
		if category == CategoryNational {
			info.IsNationalHoliday = true
		}
		info.ObservanceNames = append(info.ObservanceNames, r.Name)
		out[r.Date] = info
	}
	return out
}

// Get returns the info for an ISO date key
func (b ByDate) Get(key string) (DayInfo, bool) {
	info, ok := b[key]
	return info, ok
}

// IsNationalHoliday reports whether the ISO date key is a national holiday
func (b ByDate) IsNationalHoliday(key string) bool {
	return b[key].IsNationalHoliday
}

// Dates returns the keys in chronological order
func (b ByDate) Dates() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NationalCount returns the number of national holiday dates
func (b ByDate) NationalCount() int {
	n := 0
	for _, info := range b {
		if info.IsNationalHoliday {
			n++
		}
	}
	return n
}

func normalizeCountry(country string) string {
	country = strings.ToUpper(strings.TrimSpace(country))
	if country == "" {
		return DefaultCountry
	}
	return country
}
