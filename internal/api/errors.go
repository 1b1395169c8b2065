package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnexpected marks failures that are neither transport errors nor error
// responses, such as a 2xx body that is not JSON.
var ErrUnexpected = errors.New("unexpected api failure")

// HTTPError is returned for non-2xx responses. Payload holds the raw body.
type HTTPError struct {
	StatusCode int
	Payload    []byte
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// IsStatus reports whether err wraps an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == code
}

func newHTTPError(status int, payload []byte) *HTTPError {
	return &HTTPError{
		StatusCode: status,
		Payload:    payload,
		Message:    http.StatusText(status),
	}
}

// CallError is returned by the typed endpoints. Message is the text shown to
// the user. Status is zero when no response was received.
type CallError struct {
	Message string
	Status  int
	Err     error
}

func (e *CallError) Error() string { return e.Message }

func (e *CallError) Unwrap() error { return e.Err }
