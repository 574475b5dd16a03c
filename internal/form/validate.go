package form

import (
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/username/booking-form/internal/calendar"
	"github.com/username/booking-form/internal/holidays"
	"github.com/username/booking-form/pkg/dateutil"
)

// Field names, as sent in the multipart body
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldAge       = "age"
	FieldPhoto     = "photo"
	FieldDate      = "date"
	FieldTime      = "time"
)

const (
	msgRequired    = "This field is required."
	msgEmailFormat = "Please use correct formatting.\nExample: address@email.com"
)

// FieldError is a validation failure of one field
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every failed field, in form order
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Error()
	}
	return "invalid application: " + strings.Join(parts, "; ")
}

// Message returns the message for field, or "" when the field passed
func (v ValidationErrors) Message(field string) string {
	for _, fe := range v {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// IsValidationError reports whether err carries ValidationErrors
func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// Validate checks app against the rules. The date is checked against byDate
// relative to now's day; the time must be an open slot at now.
// It returns nil or ValidationErrors.
func (r Rules) Validate(app Application, byDate holidays.ByDate, now time.Time) error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, FieldError{Field: field, Message: msg})
	}

	if msg := r.checkName(app.FirstName); msg != "" {
		add(FieldFirstName, msg)
	}
	if msg := r.checkName(app.LastName); msg != "" {
		add(FieldLastName, msg)
	}
	if msg := checkEmail(app.Email); msg != "" {
		add(FieldEmail, msg)
	}
	if app.Age < r.AgeMin || app.Age > r.AgeMax {
		add(FieldAge, fmt.Sprintf("Must be between %d and %d.", r.AgeMin, r.AgeMax))
	}
	if msg := r.checkFiles(app.Files); msg != "" {
		add(FieldPhoto, msg)
	}

	dateOK := false
	switch {
	case app.Date.IsZero():
		add(FieldDate, msgRequired)
	case calendar.IsBlocked(app.Date, byDate, dateutil.StartOfDay(now)):
		add(FieldDate, "This day is not available.")
	default:
		dateOK = true
	}

	switch {
	case app.Time == "":
		add(FieldTime, msgRequired)
	case dateOK && !calendar.AvailableSlots(app.Date, r.Slots, now).Selectable(app.Time):
		add(FieldTime, "This time is not available.")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (r Rules) checkName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return msgRequired
	}
	n := utf8.RuneCountInString(name)
	if r.NameMin > 0 && n < r.NameMin {
		return fmt.Sprintf("Must be at least %d characters.", r.NameMin)
	}
	if r.NameMax > 0 && n > r.NameMax {
		return fmt.Sprintf("Must be at most %d characters.", r.NameMax)
	}
	return ""
}

func checkEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return msgRequired
	}
	// A bare address only, no display name
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(addr.Address, "@") {
		return msgEmailFormat
	}
	return ""
}

func (r Rules) checkFiles(files []string) string {
	switch len(files) {
	case 0:
		return msgRequired
	case 1:
	default:
		return "Only one file can be attached."
	}

	info, err := os.Stat(files[0])
	if err != nil || info.IsDir() {
		return "File not found."
	}
	if r.MaxFileSize > 0 && info.Size() > r.MaxFileSize {
		return fmt.Sprintf("File must be at most %s.", formatSize(r.MaxFileSize))
	}
	if !accepts(r.Accept, files[0]) {
		return "File type not accepted."
	}
	return ""
}

func accepts(accept []string, path string) bool {
	if len(accept) == 0 {
		return true
	}

	ext := strings.ToLower(filepath.Ext(path))
	mediaType, _, _ := mime.ParseMediaType(mime.TypeByExtension(ext))

	for _, pattern := range accept {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		switch {
		case strings.HasPrefix(pattern, "."):
			if pattern == ext {
				return true
			}
		case strings.HasSuffix(pattern, "/*"):
			if mediaType != "" && strings.HasPrefix(mediaType, strings.TrimSuffix(pattern, "*")) {
				return true
			}
		case pattern != "" && pattern == mediaType:
			return true
		}
	}
	return false
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%d MB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%d KB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
