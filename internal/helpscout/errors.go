package helpscout

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies upstream failures.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindTransportFailure ErrorKind = "transport_failure"
	KindDecodeFailure    ErrorKind = "decode_failure"
	KindUpstreamFailure  ErrorKind = "upstream_failure"
)

// Error is returned by every Client method that fails. StatusCode is zero
// when no HTTP response was received.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("help scout %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("help scout %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a not_found upstream error.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindNotFound
}

// statusError maps a non-2xx response to an Error. detail is the message
// extracted from the response body, if any.
func statusError(status int, detail string) *Error {
	if detail == "" {
		detail = http.StatusText(status)
	}
	kind := KindUpstreamFailure
	if status == http.StatusNotFound {
		kind = KindNotFound
	}
	return &Error{Kind: kind, StatusCode: status, Message: detail}
}
