// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package flow

import "errors"

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrNilParameter     = errors.New("nil parameter")

	// ErrBusy is returned by an action issued while another action of the
	// same controller is still in flight.  The rejected action changes no
	// state and makes no remote call.
	ErrBusy = errors.New("operation already in flight")
)
