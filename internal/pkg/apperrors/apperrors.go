package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into the engine's taxonomy so handlers can map
// it to an HTTP status without inspecting message strings.
type Kind int

const (
	KindValidation Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindDependency
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) error            { return &Error{Kind: KindValidation, Msg: msg} }
func Unauthorized(msg string) error          { return &Error{Kind: KindUnauthorized, Msg: msg} }
func Forbidden(msg string) error             { return &Error{Kind: KindForbidden, Msg: msg} }
func NotFound(msg string) error              { return &Error{Kind: KindNotFound, Msg: msg} }
func Conflict(msg string) error              { return &Error{Kind: KindConflict, Msg: msg} }
func Dependency(msg string, err error) error { return &Error{Kind: KindDependency, Msg: msg, Err: err} }

// HTTPStatus maps an error to its response status. Unclassified errors are
// treated as dependency failures.
func HTTPStatus(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to expose to API callers.
// Dependency failures never leak internal detail beyond the message string.
func PublicMessage(err error) string {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return "internal error"
	}
	return appErr.Msg
}
