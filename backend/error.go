// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package backend

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidCode is returned by ConfirmCode when the code was not
	// accepted.
	ErrInvalidCode = errors.New("invalid verification code")

	// ErrUnavailable is returned when the backend could not be reached or
	// did not answer in time.
	ErrUnavailable = errors.New("backend unavailable")
)

// RemoteError is a failure described by the backend itself.  Message is
// meant for the user and may be empty.
type RemoteError struct {
	StatusCode int
	Message    string
}

// Error satisfies the error interface
func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}
