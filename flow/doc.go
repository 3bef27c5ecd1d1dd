// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

/*
Package flow provides the controllers behind the sign-in, sign-up and
password recovery screens.

Each controller owns the state of one form.  Field setters replace a value
and clear the error shown next to the form.  Actions (Submit, SendCode,
Confirm, Resend) validate locally first and only call the identity provider
or backend when the form is valid; they block until the call finishes, so a
UI that must stay responsive runs them on their own goroutine.  At most one
action per controller is in flight: an action issued meanwhile returns
ErrBusy and does nothing.

Results are reported through the controller's state.  Success and
NavigateNext are one-shot signals: they stay set until the matching
Acknowledge method clears them, so a replayed snapshot never navigates
twice.

	login, err := flow.NewLogin(provider)
	if err != nil {
		// handle error
	}
	login.SetEmail("a@b.co")
	login.SetPassword("123456")
	_ = login.Submit(ctx)
	if login.State().Success && login.AcknowledgeSuccess() {
		// navigate home
	}
*/
package flow
