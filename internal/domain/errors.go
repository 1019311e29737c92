package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrValidation   = errors.New("validation")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Error is a caller-facing failure: Msg is safe to return to clients and
// Kind is one of the sentinels above.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func Validation(msg string) error   { return &Error{Kind: ErrValidation, Msg: msg} }
func Conflict(msg string) error     { return &Error{Kind: ErrConflict, Msg: msg} }
func NotFound(msg string) error     { return &Error{Kind: ErrNotFound, Msg: msg} }
func Unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &Error{Kind: ErrForbidden, Msg: msg} }

// FieldErrors maps a request field name to what is wrong with it.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "invalid fields: " + strings.Join(parts, "; ")
}

func (f FieldErrors) Unwrap() error { return ErrValidation }

// OrNil returns nil when no field failed.
func (f FieldErrors) OrNil() error {
	if len(f) == 0 {
		return nil
	}
	return f
}
