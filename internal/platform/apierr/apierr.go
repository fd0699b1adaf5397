package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the one error shape services hand to the HTTP layer. Status and
// Code decide the response; Err carries the cause for logs only.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Invalid: the caller's request is structurally wrong. Decided locally,
// before any remote call.
func Invalid(code string, err error) *Error {
	return New(http.StatusBadRequest, code, err)
}

// Rejected: a referenced entity deterministically does not exist. The code
// names the offending reference (e.g. "invalid_product_id").
func Rejected(code string, err error) *Error {
	return New(http.StatusBadRequest, code, err)
}

// Unavailable: a remote dependency could not be reached within budget. The
// outcome of validation is unknown, so this must never be reported as a
// rejection. Handlers map it to 503 with Retry-After.
func Unavailable(kind string, err error) *Error {
	return New(http.StatusServiceUnavailable, kind+"_service_unavailable", err)
}

func NotFound(code string, err error) *Error {
	return New(http.StatusNotFound, code, err)
}

func Conflict(code string, err error) *Error {
	return New(http.StatusConflict, code, err)
}

func Unauthorized(code string, err error) *Error {
	return New(http.StatusUnauthorized, code, err)
}

// Internal deliberately drops detail from the response; the cause stays
// available for logging through Unwrap.
func Internal(err error) *Error {
	return New(http.StatusInternalServerError, "internal_error", err)
}

// From pulls the typed error back out of a wrapped chain, defaulting to an
// internal error so nothing unclassified reaches a response.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

func IsStatus(err error, status int) bool {
	ae := From(err)
	return ae != nil && ae.Status == status
}
