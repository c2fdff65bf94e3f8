// Package apperr defines the error taxonomy shared by the repository and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes.
const (
	ENOTFOUND     = "not_found"
	EINVALID      = "invalid"
	EUNAUTHORIZED = "unauthorized"
	EFORBIDDEN    = "forbidden"
	EINTERNAL     = "internal"
)

// Error is an application error that is safe to show to the caller.
type Error struct {
	Code    string
	Message string
	// Fields holds itemized validation messages keyed by field name.
	Fields map[string][]string
}

func (e *Error) Error() string {
	return fmt.Sprintf("application error: code=%s message=%s", e.Code, e.Message)
}

// Errorf builds an Error with a formatted message.
func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return Errorf(ENOTFOUND, format, args...)
}

func Invalid(format string, args ...interface{}) *Error {
	return Errorf(EINVALID, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return Errorf(EUNAUTHORIZED, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return Errorf(EFORBIDDEN, format, args...)
}

// Validation builds an invalid-input error carrying per-field messages.
func Validation(fields map[string][]string) *Error {
	return &Error{Code: EINVALID, Message: "One or more validation errors occurred.", Fields: fields}
}

// ErrorCode returns the code of an application error, EINTERNAL for any
// other error and "" for nil.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the caller-facing message. Non-application errors
// never leak their text.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// HTTPStatus maps an error to its response status code.
func HTTPStatus(err error) int {
	switch ErrorCode(err) {
	case "":
		return http.StatusOK
	case ENOTFOUND:
		return http.StatusNotFound
	case EINVALID:
		return http.StatusBadRequest
	case EUNAUTHORIZED:
		return http.StatusUnauthorized
	case EFORBIDDEN:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
