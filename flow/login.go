// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/medinotify/authflow/i18n"
	"github.com/medinotify/authflow/identity"
	"github.com/medinotify/authflow/validate"
)

// LoginState is a snapshot of the sign-in form.
type LoginState struct {
	Email           string
	Password        string
	PasswordVisible bool
	Loading         bool
	ErrorMessage    string

	// UserID is the signed in user once Success has been set.
	UserID string

	// Success is a one-shot signal, cleared by AcknowledgeSuccess.
	Success bool
}

// Login is the sign-in form controller.
type Login struct {
	provider identity.Provider
	run      runner
	st       *store[LoginState]
}

// NewLogin creates a Login controller that signs in with p.
//
// Supported options: WithLogger, WithPrinter, WithTimeout
func NewLogin(p identity.Provider, opt ...Option) (*Login, error) {
	const op = "flow.NewLogin"
	if p == nil {
		return nil, fmt.Errorf("%s: missing identity provider: %w", op, ErrNilParameter)
	}
	r, err := newRunner("login", opt...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Login{provider: p, run: r, st: newStore(LoginState{})}, nil
}

// State returns the current snapshot.
func (l *Login) State() LoginState { return l.st.get() }

// Subscribe streams snapshots until ctx is done.
func (l *Login) Subscribe(ctx context.Context) <-chan LoginState { return l.st.subscribe(ctx) }

// SetEmail replaces the email and clears any error.
func (l *Login) SetEmail(email string) {
	l.st.update(func(s LoginState) LoginState {
		s.Email, s.ErrorMessage = email, ""
		return s
	})
}

// SetPassword replaces the password and clears any error.
func (l *Login) SetPassword(password string) {
	l.st.update(func(s LoginState) LoginState {
		s.Password, s.ErrorMessage = password, ""
		return s
	})
}

// TogglePasswordVisibility flips whether the password is shown.
func (l *Login) TogglePasswordVisibility() {
	l.st.update(func(s LoginState) LoginState {
		s.PasswordVisible = !s.PasswordVisible
		return s
	})
}

// Submit validates the form and signs in with the email and password.  It
// blocks until the provider answers; the result is in the state.  It
// returns ErrBusy when a sign-in is already in flight.
func (l *Login) Submit(ctx context.Context) error {
	var email, password string
	proceed, err := l.st.begin(func(s LoginState) (LoginState, bool) {
		email, password = strings.TrimSpace(s.Email), s.Password
		if err := validate.Login(email, password); err != nil {
			s.ErrorMessage = l.run.printer.Validation(err)
			return s, false
		}
		s.Loading, s.ErrorMessage = true, ""
		return s, true
	})
	if err != nil || !proceed {
		return err
	}
	l.signIn(ctx, "sign_in", func(ctx context.Context) identity.Outcome {
		return l.provider.SignIn(ctx, email, password)
	})
	return nil
}

// SubmitWithExternalToken signs in with a token obtained by an external
// sign-in.  A blank token sets a fixed error without calling the provider.
func (l *Login) SubmitWithExternalToken(ctx context.Context, token identity.Token) error {
	proceed, err := l.st.begin(func(s LoginState) (LoginState, bool) {
		if token.Blank() {
			s.Loading, s.ErrorMessage = false, l.run.printer.Text(i18n.TokenMissing)
			return s, false
		}
		s.Loading, s.ErrorMessage = true, ""
		return s, true
	})
	if err != nil || !proceed {
		return err
	}
	l.signIn(ctx, "sign_in_with_token", func(ctx context.Context) identity.Outcome {
		return l.provider.SignInWithToken(ctx, token)
	})
	return nil
}

func (l *Login) signIn(ctx context.Context, action string, fn func(context.Context) identity.Outcome) {
	var outcome identity.Outcome
	err := l.run.call(ctx, action, func(ctx context.Context) error {
		outcome = fn(ctx)
		if f, ok := outcome.(identity.Failure); ok {
			return fmt.Errorf("sign-in failed: %s", f.Kind)
		}
		return nil
	})
	l.st.finish(func(s LoginState) LoginState {
		s.Loading = false
		switch o := outcome.(type) {
		case identity.Success:
			s.Success, s.UserID, s.ErrorMessage = true, o.UserID, ""
		case identity.Failure:
			s.ErrorMessage = o.Message
			if s.ErrorMessage == "" {
				s.ErrorMessage = l.run.printer.Text(i18n.SignInFailed)
			}
		default:
			// no outcome means the call never happened
			l.run.logger.Error("sign-in produced no outcome", "action", action, "error", err)
			s.ErrorMessage = l.run.printer.Text(i18n.SignInFailed)
		}
		return s
	})
}

// AcknowledgeSuccess clears the Success signal.  It reports whether the
// signal was set; a second call is a no-op that returns false.
func (l *Login) AcknowledgeSuccess() bool {
	return l.st.swap(func(s LoginState) (LoginState, bool) {
		was := s.Success
		s.Success = false
		return s, was
	})
}

// ReportExternalError shows a failure from an external sign-in (for example
// the user closing the provider's consent screen) the same way as provider
// failures.  An empty message shows a generic one.  The report is dropped
// while a sign-in is in flight; the result reports whether it was shown.
func (l *Login) ReportExternalError(message string) bool {
	if message == "" {
		message = l.run.printer.Text(i18n.TokenSignInFailed)
	}
	return l.st.idle(func(s LoginState) LoginState {
		s.Loading, s.ErrorMessage = false, message
		return s
	})
}
