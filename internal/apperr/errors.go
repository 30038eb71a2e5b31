package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the web layer.
type Kind string

const (
	// KindNetwork means the request never produced an HTTP response
	KindNetwork Kind = "NETWORK"

	// KindHTTP is a non-2xx response from the API
	KindHTTP Kind = "HTTP"

	// KindUnauthorized is a 401/403 from the API; the session must be dropped
	KindUnauthorized Kind = "UNAUTHORIZED"

	// KindValidation is a client-side check that failed before any request
	KindValidation Kind = "VALIDATION"
)

// Error is the error type returned by the API client and the form validators.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Network wraps a transport failure
func Network(err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: "could not reach the hospital service",
		Err:     err,
	}
}

// HTTP builds the error for a non-2xx response. 401 and 403 map to KindUnauthorized.
func HTTP(status int, message string) *Error {
	if message == "" {
		message = http.StatusText(status)
	}
	kind := KindHTTP
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		kind = KindUnauthorized
	}
	return &Error{
		Kind:    kind,
		Status:  status,
		Message: message,
	}
}

// Validation creates a client-side validation error
func Validation(message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: message,
	}
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// UserMessage is the text shown to the user for err.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Something went wrong. Please try again."
}
