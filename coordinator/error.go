// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package coordinator

import "errors"

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrNilParameter     = errors.New("nil parameter")

	// ErrInvalidTransition is returned when a navigation is not possible
	// from the current screen.
	ErrInvalidTransition = errors.New("invalid transition")
)
