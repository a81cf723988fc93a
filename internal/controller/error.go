package controller

import (
	"errors"
	"fmt"
)

type errorCode string

const (
	ErrInternal errorCode = "internal"
	ErrInvalid  errorCode = "invalid"
	ErrNotFound errorCode = "not_found"
)

// Error is an intent failure the presentation layer can act on.
type Error struct {
	// Code is a machine-readable error code.
	Code errorCode

	// Description is a human-readable description of the error.
	Description string
}

func (e *Error) Error() string {
	return "controller: " + string(e.Code) + ": " + e.Description
}

// Errorf builds an *Error.
func Errorf(code errorCode, format string, args ...any) error {
	return &Error{code, fmt.Sprintf(format, args...)}
}

// ErrorCode returns the code associated with err, or ErrInternal if err is not
// an *Error.
func ErrorCode(err error) errorCode {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return ErrInternal
}

// ErrorDescription returns the description of err, or "internal error" if err
// is not an *Error.
func ErrorDescription(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Description != "" {
		return e.Description
	}
	return "internal error"
}
