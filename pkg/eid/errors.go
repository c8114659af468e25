package eid

import (
	"errors"
	"fmt"
)

// Error kinds reported by the library. Use errors.Is to test for them.
var (
	ErrInputFormat      = errors.New("input format error")
	ErrInvalidKeyLength = errors.New("invalid key length")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrArithmetic       = errors.New("arithmetic error")
	ErrEncoding         = errors.New("encoding error")
)

// Error describes a failed operation.
// It matches its Kind with errors.Is and unwraps to the underlying cause, if any.
type Error struct {
	Op     string
	Kind   error
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := "eid: " + e.Op
	if e.Kind != nil {
		msg += ": " + e.Kind.Error()
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error. kind may be nil for failures outside the
// library's own error kinds, such as a broken randomness source.
func NewError(op string, kind error, reason string, err error) *Error {
	return &Error{
		Op:     op,
		Kind:   kind,
		Reason: reason,
		Err:    err,
	}
}

// Errorf creates a new Error without an underlying cause.
func Errorf(op string, kind error, format string, args ...interface{}) *Error {
	return NewError(op, kind, fmt.Sprintf(format, args...), nil)
}
