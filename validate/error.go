// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"errors"
	"fmt"
)

var (
	// ErrRequired is returned when a required field is blank
	ErrRequired = errors.New("required")

	// ErrFormatInvalid is returned when a value does not match its grammar
	ErrFormatInvalid = errors.New("format invalid")

	// ErrTooShort is returned when a value is shorter than its minimum
	ErrTooShort = errors.New("too short")

	// ErrMismatch is returned when a confirmation differs from its original
	ErrMismatch = errors.New("mismatch")

	// ErrInvalidLength is returned when a value's length is out of range
	ErrInvalidLength = errors.New("invalid length")

	// ErrMissingSpace is returned when a full name has no interior whitespace
	ErrMissingSpace = errors.New("missing space")

	// ErrIncomplete is returned when an OTP code has fewer than OTPLength digits
	ErrIncomplete = errors.New("incomplete")
)

// Field identifies the form field a validation Error is about.
type Field string

const (
	FieldCredentials     Field = "credentials"
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirm_password"
	FieldPhone           Field = "phone"
	FieldName            Field = "name"
	FieldCode            Field = "code"
)

// Error is a validation failure for a single field.  Reason is always one of
// the package's sentinel errors, so errors.Is(err, ErrTooShort) works on an
// *Error.
type Error struct {
	Field  Field
	Reason error
}

func newError(f Field, reason error) *Error {
	return &Error{Field: f, Reason: reason}
}

// Error satisfies the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap returns the sentinel reason
func (e *Error) Unwrap() error {
	return e.Reason
}
