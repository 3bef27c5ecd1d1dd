// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/medinotify/authflow/backend"
	"github.com/medinotify/authflow/validate"
)

// RegisterState is a snapshot of the sign-up form.
type RegisterState struct {
	FullName               string
	Email                  string
	Phone                  string
	Password               string
	ConfirmPassword        string
	PasswordVisible        bool
	ConfirmPasswordVisible bool
	Loading                bool
	ErrorMessage           string

	// NavigateNext is a one-shot signal, cleared by AcknowledgeNavigation.
	NavigateNext bool
}

// Register is the sign-up form controller.
type Register struct {
	registrar backend.Registrar
	run       runner
	st        *store[RegisterState]
}

// NewRegister creates a Register controller that creates accounts with r.
//
// Supported options: WithLogger, WithPrinter, WithTimeout
func NewRegister(r backend.Registrar, opt ...Option) (*Register, error) {
	const op = "flow.NewRegister"
	if r == nil {
		return nil, fmt.Errorf("%s: missing registrar: %w", op, ErrNilParameter)
	}
	run, err := newRunner("register", opt...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Register{registrar: r, run: run, st: newStore(RegisterState{})}, nil
}

// State returns the current snapshot.
func (r *Register) State() RegisterState { return r.st.get() }

// Subscribe streams snapshots until ctx is done.
func (r *Register) Subscribe(ctx context.Context) <-chan RegisterState { return r.st.subscribe(ctx) }

func (r *Register) edit(fn func(*RegisterState)) {
	r.st.update(func(s RegisterState) RegisterState {
		fn(&s)
		s.ErrorMessage = ""
		return s
	})
}

// SetFullName replaces the name and clears any error.
func (r *Register) SetFullName(v string) { r.edit(func(s *RegisterState) { s.FullName = v }) }

// SetEmail replaces the email and clears any error.
func (r *Register) SetEmail(v string) { r.edit(func(s *RegisterState) { s.Email = v }) }

// SetPhone replaces the phone number and clears any error.
func (r *Register) SetPhone(v string) { r.edit(func(s *RegisterState) { s.Phone = v }) }

// SetPassword replaces the password and clears any error.
func (r *Register) SetPassword(v string) { r.edit(func(s *RegisterState) { s.Password = v }) }

// SetConfirmPassword replaces the confirmation and clears any error.
func (r *Register) SetConfirmPassword(v string) {
	r.edit(func(s *RegisterState) { s.ConfirmPassword = v })
}

// TogglePasswordVisibility flips whether the password is shown.
func (r *Register) TogglePasswordVisibility() {
	r.st.update(func(s RegisterState) RegisterState {
		s.PasswordVisible = !s.PasswordVisible
		return s
	})
}

// ToggleConfirmPasswordVisibility flips whether the confirmation is shown.
func (r *Register) ToggleConfirmPasswordVisibility() {
	r.st.update(func(s RegisterState) RegisterState {
		s.ConfirmPasswordVisible = !s.ConfirmPasswordVisible
		return s
	})
}

// Submit validates the form, stopping at the first failing field in the
// order name, email, phone, password, confirmation, and creates the
// account.  It blocks until the registrar answers and returns ErrBusy when
// a submit is already in flight.
func (r *Register) Submit(ctx context.Context) error {
	var reg backend.Registration
	proceed, err := r.st.begin(func(s RegisterState) (RegisterState, bool) {
		reg = backend.Registration{
			FullName: strings.TrimSpace(s.FullName),
			Email:    strings.TrimSpace(s.Email),
			Phone:    validate.NormalizePhone(s.Phone),
			Password: s.Password,
		}
		if err := validate.Registration(reg.FullName, reg.Email, s.Phone, s.Password, s.ConfirmPassword); err != nil {
			s.ErrorMessage = r.run.printer.Validation(err)
			return s, false
		}
		s.Loading, s.ErrorMessage = true, ""
		return s, true
	})
	if err != nil || !proceed {
		return err
	}
	callErr := r.run.call(ctx, "create_account", func(ctx context.Context) error {
		return r.registrar.CreateAccount(ctx, reg)
	})
	r.st.finish(func(s RegisterState) RegisterState {
		s.Loading = false
		if callErr != nil {
			s.ErrorMessage = r.run.remoteMessage(callErr)
			return s
		}
		s.NavigateNext = true
		return s
	})
	return nil
}

// AcknowledgeNavigation clears the NavigateNext signal.  It reports whether
// the signal was set.
func (r *Register) AcknowledgeNavigation() bool {
	return r.st.swap(func(s RegisterState) (RegisterState, bool) {
		was := s.NavigateNext
		s.NavigateNext = false
		return s, was
	})
}
