// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package identity

import "errors"

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrNilParameter     = errors.New("nil parameter")

	// ErrUnknownAccount is returned by authenticators when no account matches
	// the identifier.
	ErrUnknownAccount = errors.New("unknown account")

	// ErrInvalidCredentials is returned by authenticators when the account
	// exists but the secret does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNetworkUnreachable is returned by authenticators when the identity
	// provider could not be reached.
	ErrNetworkUnreachable = errors.New("network unreachable")

	// ErrNotConfigured is returned when a sign-in method has no authenticator.
	ErrNotConfigured = errors.New("sign-in method not configured")
)

// ProviderError carries the identity provider's own description of a failure.
// Its Message is shown to the user verbatim when the failure does not fall in
// one of the known buckets.
type ProviderError struct {
	Message string
	Err     error
}

// Error satisfies the error interface
func (e *ProviderError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

// Unwrap returns the wrapped error
func (e *ProviderError) Unwrap() error {
	return e.Err
}
