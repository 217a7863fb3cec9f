package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind is the closed set of failure categories a gateway call can
// surface. Raw transport errors never escape the client; every failure is
// normalized into one of these.
type ErrorKind string

const (
	ErrValidation  ErrorKind = "validation"
	ErrAuthExpired ErrorKind = "auth_expired"
	ErrForbidden   ErrorKind = "forbidden"
	ErrNotFound    ErrorKind = "not_found"
	ErrConflict    ErrorKind = "conflict"
	ErrRateLimited ErrorKind = "rate_limited"
	ErrServer      ErrorKind = "server"
	ErrNetwork     ErrorKind = "network"
)

// Error is a normalized gateway failure. Message carries the server-provided
// text when the response contained one, else a generic fallback per kind.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("queue api: %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("queue api: %s: %s", e.Kind, e.Message)
}

var fallbackMessages = map[ErrorKind]string{
	ErrValidation:  "Invalid request. Please check your input.",
	ErrAuthExpired: "Session expired. Please login again.",
	ErrForbidden:   "You do not have permission to perform this action.",
	ErrNotFound:    "Resource not found.",
	ErrConflict:    "A conflict occurred. The resource may already exist.",
	ErrRateLimited: "Too many requests. Please wait a moment and try again.",
	ErrServer:      "Server error. Please try again later.",
	ErrNetwork:     "Unable to connect to server.",
}

// newStatusError maps an HTTP status to the taxonomy, preferring the server's
// own message when present.
func newStatusError(status int, serverMessage string) *Error {
	var kind ErrorKind
	switch {
	case status == http.StatusBadRequest:
		kind = ErrValidation
	case status == http.StatusUnauthorized:
		kind = ErrAuthExpired
	case status == http.StatusForbidden:
		kind = ErrForbidden
	case status == http.StatusNotFound:
		kind = ErrNotFound
	case status == http.StatusConflict:
		kind = ErrConflict
	case status == http.StatusTooManyRequests:
		kind = ErrRateLimited
	default:
		kind = ErrServer
	}
	msg := serverMessage
	if msg == "" {
		msg = fallbackMessages[kind]
	}
	return &Error{Kind: kind, Status: status, Message: msg}
}

func newNetworkError(err error) *Error {
	return &Error{Kind: ErrNetwork, Message: fmt.Sprintf("%s: %v", fallbackMessages[ErrNetwork], err)}
}

// KindOf extracts the error kind, or "" for non-gateway errors.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

func IsNotFound(err error) bool    { return KindOf(err) == ErrNotFound }
func IsConflict(err error) bool    { return KindOf(err) == ErrConflict }
func IsAuthExpired(err error) bool { return KindOf(err) == ErrAuthExpired }
func IsRateLimited(err error) bool { return KindOf(err) == ErrRateLimited }

// retryable reports whether a failure is transient enough that retrying the
// same request can help. Client errors are deterministic and excluded.
func retryable(err error) bool {
	switch KindOf(err) {
	case ErrServer, ErrNetwork, ErrRateLimited:
		return true
	}
	return false
}
