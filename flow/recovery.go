// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/medinotify/authflow/backend"
	"github.com/medinotify/authflow/i18n"
	"github.com/medinotify/authflow/validate"
)

// ForgotPasswordState is a snapshot of the first recovery step.
type ForgotPasswordState struct {
	Email        string
	Loading      bool
	ErrorMessage string

	// SentTo is the trimmed address the last code was sent to.  Later edits
	// to Email leave it alone.
	SentTo string

	// NavigateNext is a one-shot signal, cleared by AcknowledgeNavigation.
	NavigateNext bool
}

// ForgotPassword asks the backend to send a verification code.
type ForgotPassword struct {
	recovery backend.Recovery
	run      runner
	st       *store[ForgotPasswordState]
}

// NewForgotPassword creates a ForgotPassword controller.
//
// Supported options: WithLogger, WithPrinter, WithTimeout
func NewForgotPassword(r backend.Recovery, opt ...Option) (*ForgotPassword, error) {
	const op = "flow.NewForgotPassword"
	if r == nil {
		return nil, fmt.Errorf("%s: missing recovery backend: %w", op, ErrNilParameter)
	}
	run, err := newRunner("forgot_password", opt...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &ForgotPassword{recovery: r, run: run, st: newStore(ForgotPasswordState{})}, nil
}

// State returns the current snapshot.
func (f *ForgotPassword) State() ForgotPasswordState { return f.st.get() }

// Subscribe streams snapshots until ctx is done.
func (f *ForgotPassword) Subscribe(ctx context.Context) <-chan ForgotPasswordState {
	return f.st.subscribe(ctx)
}

// Email returns the address the last code was sent to, or "" before any
// send succeeded.
func (f *ForgotPassword) Email() string { return f.st.get().SentTo }

// SetEmail replaces the email and clears any error.
func (f *ForgotPassword) SetEmail(email string) {
	f.st.update(func(s ForgotPasswordState) ForgotPasswordState {
		s.Email, s.ErrorMessage = email, ""
		return s
	})
}

// SendCode validates the email and asks the backend to send a code to it.
// It blocks until the backend answers and returns ErrBusy when a request is
// already in flight.
func (f *ForgotPassword) SendCode(ctx context.Context) error {
	var email string
	proceed, err := f.st.begin(func(s ForgotPasswordState) (ForgotPasswordState, bool) {
		email = strings.TrimSpace(s.Email)
		if err := validate.RecoveryEmail(email); err != nil {
			s.ErrorMessage = f.run.printer.Validation(err)
			return s, false
		}
		s.Loading, s.ErrorMessage = true, ""
		return s, true
	})
	if err != nil || !proceed {
		return err
	}
	callErr := f.run.call(ctx, "send_code", func(ctx context.Context) error {
		return f.recovery.SendCode(ctx, email)
	})
	f.st.finish(func(s ForgotPasswordState) ForgotPasswordState {
		s.Loading = false
		if callErr != nil {
			s.ErrorMessage = f.run.remoteMessage(callErr)
			return s
		}
		s.SentTo, s.NavigateNext = email, true
		return s
	})
	return nil
}

// AcknowledgeNavigation clears the NavigateNext signal.  It reports whether
// the signal was set.
func (f *ForgotPassword) AcknowledgeNavigation() bool {
	return f.st.swap(func(s ForgotPasswordState) (ForgotPasswordState, bool) {
		was := s.NavigateNext
		s.NavigateNext = false
		return s, was
	})
}

// VerifyCodeState is a snapshot of the code entry step.
type VerifyCodeState struct {
	// Email is where the code was sent.  It is fixed for the controller's
	// lifetime.
	Email        string
	Code         string
	Loading      bool
	ErrorMessage string

	// InfoMessage is set when a code was resent, cleared by AcknowledgeInfo.
	InfoMessage string

	// NavigateNext is a one-shot signal, cleared by AcknowledgeNavigation.
	NavigateNext bool
}

// VerifyCode checks the code sent by ForgotPassword.
type VerifyCode struct {
	recovery backend.Recovery
	run      runner
	st       *store[VerifyCodeState]
}

// NewVerifyCode creates a VerifyCode controller for the code sent to email.
//
// Supported options: WithLogger, WithPrinter, WithTimeout
func NewVerifyCode(r backend.Recovery, email string, opt ...Option) (*VerifyCode, error) {
	const op = "flow.NewVerifyCode"
	if r == nil {
		return nil, fmt.Errorf("%s: missing recovery backend: %w", op, ErrNilParameter)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%s: missing email: %w", op, ErrInvalidParameter)
	}
	run, err := newRunner("verify_code", opt...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &VerifyCode{recovery: r, run: run, st: newStore(VerifyCodeState{Email: email})}, nil
}

// State returns the current snapshot.
func (v *VerifyCode) State() VerifyCodeState { return v.st.get() }

// Subscribe streams snapshots until ctx is done.
func (v *VerifyCode) Subscribe(ctx context.Context) <-chan VerifyCodeState {
	return v.st.subscribe(ctx)
}

// SetCode keeps the digits of input, up to validate.OTPLength of them, and
// clears any error.
func (v *VerifyCode) SetCode(input string) {
	v.st.update(func(s VerifyCodeState) VerifyCodeState {
		s.Code, s.ErrorMessage = validate.SanitizeOTP(input), ""
		return s
	})
}

// Confirm checks the code with the backend once it is complete.  It blocks
// until the backend answers and returns ErrBusy when a request is already
// in flight.
func (v *VerifyCode) Confirm(ctx context.Context) error {
	var email, code string
	proceed, err := v.st.begin(func(s VerifyCodeState) (VerifyCodeState, bool) {
		email, code = s.Email, s.Code
		if err := validate.OTP(code); err != nil {
			s.ErrorMessage = v.run.printer.Validation(err)
			return s, false
		}
		s.Loading, s.ErrorMessage = true, ""
		return s, true
	})
	if err != nil || !proceed {
		return err
	}
	callErr := v.run.call(ctx, "confirm_code", func(ctx context.Context) error {
		return v.recovery.ConfirmCode(ctx, email, code)
	})
	v.st.finish(func(s VerifyCodeState) VerifyCodeState {
		s.Loading = false
		if callErr != nil {
			s.ErrorMessage = v.run.remoteMessage(callErr)
			return s
		}
		s.NavigateNext = true
		return s
	})
	return nil
}

// Resend asks the backend for a new code.  On success InfoMessage is set;
// the entered code and NavigateNext are left alone.  It returns ErrBusy when
// a request is already in flight.
func (v *VerifyCode) Resend(ctx context.Context) error {
	var email string
	if _, err := v.st.begin(func(s VerifyCodeState) (VerifyCodeState, bool) {
		email = s.Email
		s.Loading, s.ErrorMessage = true, ""
		return s, true
	}); err != nil {
		return err
	}
	callErr := v.run.call(ctx, "resend_code", func(ctx context.Context) error {
		return v.recovery.SendCode(ctx, email)
	})
	v.st.finish(func(s VerifyCodeState) VerifyCodeState {
		s.Loading = false
		if callErr != nil {
			s.ErrorMessage = v.run.remoteMessage(callErr)
			return s
		}
		s.InfoMessage = v.run.printer.Text(i18n.CodeResent)
		return s
	})
	return nil
}

// AcknowledgeInfo clears InfoMessage once it has been shown.  It reports
// whether there was one.
func (v *VerifyCode) AcknowledgeInfo() bool {
	return v.st.swap(func(s VerifyCodeState) (VerifyCodeState, bool) {
		was := s.InfoMessage != ""
		s.InfoMessage = ""
		return s, was
	})
}

// AcknowledgeNavigation clears the NavigateNext signal.  It reports whether
// the signal was set.
func (v *VerifyCode) AcknowledgeNavigation() bool {
	return v.st.swap(func(s VerifyCodeState) (VerifyCodeState, bool) {
		was := s.NavigateNext
		s.NavigateNext = false
		return s, was
	})
}

// ResetPasswordState is a snapshot of the new password step.
type ResetPasswordState struct {
	Password               string
	ConfirmPassword        string
	PasswordVisible        bool
	ConfirmPasswordVisible bool
	Loading                bool
	ErrorMessage           string

	// NavigateNext is a one-shot signal, cleared by AcknowledgeNavigation.
	NavigateNext bool
}

// ResetPassword commits the new password for the recovering account.
type ResetPassword struct {
	recovery backend.Recovery
	email    string
	run      runner
	st       *store[ResetPasswordState]
}

// NewResetPassword creates a ResetPassword controller for email.
//
// Supported options: WithLogger, WithPrinter, WithTimeout
func NewResetPassword(r backend.Recovery, email string, opt ...Option) (*ResetPassword, error) {
	const op = "flow.NewResetPassword"
	if r == nil {
		return nil, fmt.Errorf("%s: missing recovery backend: %w", op, ErrNilParameter)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%s: missing email: %w", op, ErrInvalidParameter)
	}
	run, err := newRunner("reset_password", opt...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &ResetPassword{recovery: r, email: email, run: run, st: newStore(ResetPasswordState{})}, nil
}

// State returns the current snapshot.
func (p *ResetPassword) State() ResetPasswordState { return p.st.get() }

// Subscribe streams snapshots until ctx is done.
func (p *ResetPassword) Subscribe(ctx context.Context) <-chan ResetPasswordState {
	return p.st.subscribe(ctx)
}

// SetPassword replaces the password and clears any error.
func (p *ResetPassword) SetPassword(v string) {
	p.st.update(func(s ResetPasswordState) ResetPasswordState {
		s.Password, s.ErrorMessage = v, ""
		return s
	})
}

// SetConfirmPassword replaces the confirmation and clears any error.
func (p *ResetPassword) SetConfirmPassword(v string) {
	p.st.update(func(s ResetPasswordState) ResetPasswordState {
		s.ConfirmPassword, s.ErrorMessage = v, ""
		return s
	})
}

// TogglePasswordVisibility flips whether the password is shown.
func (p *ResetPassword) TogglePasswordVisibility() {
	p.st.update(func(s ResetPasswordState) ResetPasswordState {
		s.PasswordVisible = !s.PasswordVisible
		return s
	})
}

// ToggleConfirmPasswordVisibility flips whether the confirmation is shown.
func (p *ResetPassword) ToggleConfirmPasswordVisibility() {
	p.st.update(func(s ResetPasswordState) ResetPasswordState {
		s.ConfirmPasswordVisible = !s.ConfirmPasswordVisible
		return s
	})
}

// Submit validates the new password, length before mismatch, and commits
// it.  It blocks until the backend answers and returns ErrBusy when a
// request is already in flight.
func (p *ResetPassword) Submit(ctx context.Context) error {
	var password string
	proceed, err := p.st.begin(func(s ResetPasswordState) (ResetPasswordState, bool) {
		password = s.Password
		if err := validate.NewPassword(s.Password, s.ConfirmPassword); err != nil {
			s.ErrorMessage = p.run.printer.Validation(err)
			return s, false
		}
		s.Loading, s.ErrorMessage = true, ""
		return s, true
	})
	if err != nil || !proceed {
		return err
	}
	callErr := p.run.call(ctx, "commit_password", func(ctx context.Context) error {
		return p.recovery.CommitPassword(ctx, p.email, password)
	})
	p.st.finish(func(s ResetPasswordState) ResetPasswordState {
		s.Loading = false
		if callErr != nil {
			s.ErrorMessage = p.run.remoteMessage(callErr)
			return s
		}
		s.NavigateNext = true
		return s
	})
	return nil
}

// AcknowledgeNavigation clears the NavigateNext signal.  It reports whether
// the signal was set.
func (p *ResetPassword) AcknowledgeNavigation() bool {
	return p.st.swap(func(s ResetPasswordState) (ResetPasswordState, bool) {
		was := s.NavigateNext
		s.NavigateNext = false
		return s, was
	})
}
