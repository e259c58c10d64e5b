package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned for any 401 response. The session has
	// already been told about it by the time the caller sees this error.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNetwork wraps transport-level failures (offline, DNS, refused).
	ErrNetwork = errors.New("network failure")
)

// APIError is a non-2xx, non-401 response. Message is the human-readable text
// picked by ExtractErrorMessage, suitable for showing next to a form.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsValidation reports whether err is a 4xx APIError, i.e. a problem with the
// submitted data rather than with the session or the server.
func IsValidation(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status >= 400 && apiErr.Status < 500
}
