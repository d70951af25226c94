package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

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

func Validation(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, "validation_error", fmt.Errorf(format, args...))
}

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, "not_found", fmt.Errorf(format, args...))
}

func Conflict(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, "conflict", fmt.Errorf(format, args...))
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(http.StatusForbidden, "forbidden", fmt.Errorf(format, args...))
}

func Unauthorized(format string, args ...interface{}) *Error {
	return New(http.StatusUnauthorized, "unauthorized", fmt.Errorf(format, args...))
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, "internal_error", err)
}

// From maps any error to an *Error, wrapping unknown failures as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal(err)
}

func IsStatus(err error, status int) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == status
	}
	return false
}
