package core

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error { return err.Err }

// StatusError is returned by the REST transport for any non-2xx response.
type StatusError struct {
	Method  string
	URL     string
	Code    int
	Message string
}

func (err StatusError) Error() string {
	msg := err.Message
	if msg == "" {
		msg = http.StatusText(err.Code)
	}
	return fmt.Sprintf("%s %s: %d %s", err.Method, err.URL, err.Code, msg)
}

// StatusCode returns the HTTP status carried by err, or 0 if err did not come from a response.
func StatusCode(err error) int {
	var serr *StatusError
	if errors.As(err, &serr) {
		return serr.Code
	}
	return 0
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
