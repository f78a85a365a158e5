package core

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is returned by Check when a request is malformed. It is raised
// before any network I/O happens.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	switch len(e.Fields) {
	case 0:
		return "invalid parameters: " + e.Reason
	case 1:
		return fmt.Sprintf("invalid parameter %s: %s", e.Fields[0], e.Reason)
	default:
		return fmt.Sprintf("invalid parameters %s: %s", strings.Join(e.Fields, ", "), e.Reason)
	}
}

// Required builds a ValidationError for a single missing field.
func Required(field string) error {
	return &ValidationError{Fields: []string{field}, Reason: "must be set"}
}

// RequireOneOf builds a ValidationError naming every acceptable alternative.
func RequireOneOf(fields ...string) error {
	return &ValidationError{Fields: fields, Reason: "at least one of them must be set"}
}

// Conflict builds a ValidationError for mutually exclusive fields set together.
func Conflict(fields ...string) error {
	return &ValidationError{Fields: fields, Reason: "are mutually exclusive"}
}

func IsValidationErr(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// ServerError is the Go error view of a result whose Error body is populated.
// Results never return it on their own; callers opt in through BaseResult.Err.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned status code %d: %s", e.StatusCode, e.Message)
}

// IsNotFoundErr reports whether err is a ServerError carrying a 404.
func IsNotFoundErr(err error) bool {
	var sErr *ServerError
	return errors.As(err, &sErr) && sErr.StatusCode == 404
}
