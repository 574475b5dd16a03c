package form

import (
	"time"

	"github.com/username/booking-form/internal/calendar"
)

// Application is everything the applicant submits
type Application struct {
	FirstName string
	LastName  string
	Email     string
	Age       int
	// Files are attachment paths; exactly one is accepted
	Files []string
	// Date is the chosen day, zero when none
	Date time.Time
	// Time is the chosen "HH:MM" slot
	Time string
}

// Photo returns the single attachment path, or "" when there is not exactly one
func (a Application) Photo() string {
	if len(a.Files) != 1 {
		return ""
	}
	return a.Files[0]
}

// Rules holds the field constraints checked before submission
type Rules struct {
	NameMin     int
	NameMax     int
	AgeMin      int
	AgeMax      int
	MaxFileSize int64
	// Accept lists ".ext" suffixes or "type/*" MIME patterns; empty accepts anything
	Accept []string
	Slots  []string
}

// DefaultRules returns the constraints used when nothing is configured
func DefaultRules() Rules {
	return Rules{
		NameMin:     1,
		NameMax:     64,
		AgeMin:      8,
		AgeMax:      100,
		MaxFileSize: 5 << 20,
		Accept:      []string{".jpg", ".jpeg", ".png", ".pdf"},
		Slots:       calendar.DefaultSlots,
	}
}
