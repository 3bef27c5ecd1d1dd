// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package identity

// Outcome is the result of a sign-in: exactly one of Success or Failure.
// Outcomes are only produced by a Provider.
type Outcome interface {
	outcome()
}

// Success is a sign-in that the identity provider accepted.
type Success struct {
	UserID string
}

// Failure is a sign-in that did not succeed.  Message is ready to be shown
// to the user.
type Failure struct {
	Kind    Kind
	Message string
}

func (Success) outcome() {}
func (Failure) outcome() {}

// Kind is the bucket a Failure falls in.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnknownAccount
	KindInvalidCredentials
	KindNetworkUnreachable
)

// String returns the Kind's name for logging
func (k Kind) String() string {
	switch k {
	case KindUnknownAccount:
		return "unknown-account"
	case KindInvalidCredentials:
		return "invalid-credentials"
	case KindNetworkUnreachable:
		return "network-unreachable"
	default:
		return "unknown"
	}
}
