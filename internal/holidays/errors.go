package holidays

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when a fetch is abandoned before it completes.
// Callers swallow it.
var ErrCancelled = errors.New("holiday fetch cancelled")

// FetchError is returned for non-2xx responses and network failures.
// StatusCode is 0 when no response was received.
type FetchError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("holidays request failed: %v", e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("holidays HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("holidays HTTP %d: %s", e.StatusCode, e.Body)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err carries a FetchError
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
