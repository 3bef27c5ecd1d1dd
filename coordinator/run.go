// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package coordinator

import (
	"context"
	"fmt"

	"github.com/medinotify/authflow/flow"
)

// Run follows the controller of the screen on top of the stack and, when
// it raises its one-shot signal, acknowledges the signal and navigates:
//
//	login            -> home (stack cleared)
//	register         -> back to login
//	forgot_password  -> verify_code, carrying the email
//	verify_code      -> reset_password
//	reset_password   -> reset_password_success
//
// A signal is only acted on if its acknowledgement reports it pending, so
// each one navigates exactly once.  Run returns when ctx is done.
func (c *Coordinator) Run(ctx context.Context) error {
	for {
		watchCtx, cancel := context.WithCancel(ctx)
		c.mu.Lock()
		gen, changed := c.gen, c.changed
		signal := c.watchLocked(watchCtx)
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			cancel()
			return ctx.Err()
		case <-changed:
		case <-signal:
			if err := c.advance(gen); err != nil {
				c.logger.Error("unable to advance", "error", err)
			}
		}
		cancel()
	}
}

// watchLocked returns a channel closed once the top screen's controller has
// a pending signal.  Screens without a controller never signal.
func (c *Coordinator) watchLocked(ctx context.Context) <-chan struct{} {
	switch c.topLocked() {
	case ScreenLogin:
		return watch(c.login.Subscribe(ctx), func(s flow.LoginState) bool { return s.Success })
	case ScreenRegister:
		return watch(c.register.Subscribe(ctx), func(s flow.RegisterState) bool { return s.NavigateNext })
	case ScreenForgotPassword:
		return watch(c.forgot.Subscribe(ctx), func(s flow.ForgotPasswordState) bool { return s.NavigateNext })
	case ScreenVerifyCode:
		return watch(c.verify.Subscribe(ctx), func(s flow.VerifyCodeState) bool { return s.NavigateNext })
	case ScreenResetPassword:
		return watch(c.reset.Subscribe(ctx), func(s flow.ResetPasswordState) bool { return s.NavigateNext })
	default:
		return nil
	}
}

func watch[S any](states <-chan S, pending func(S) bool) <-chan struct{} {
	fired := make(chan struct{})
	go func() {
		for s := range states {
			if pending(s) {
				close(fired)
				return
			}
		}
	}()
	return fired
}

// advance consumes the signal of the top screen's controller, provided no
// navigation happened since gen.
func (c *Coordinator) advance(gen uint64) error {
	const op = "coordinator.(Coordinator).advance"
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil
	}
	var (
		next  func([]Screen) []Screen
		enter = true
	)
	switch top := c.topLocked(); top {
	case ScreenLogin:
		if !c.login.AcknowledgeSuccess() {
			return nil
		}
		c.userID = c.login.State().UserID
		next = func([]Screen) []Screen { return []Screen{ScreenHome} }
	case ScreenRegister:
		if !c.register.AcknowledgeNavigation() {
			return nil
		}
		// back to the login screen below, or a fresh one when sign-up was
		// opened from the splash screen
		next = func([]Screen) []Screen { return []Screen{ScreenLogin} }
		for i := len(c.stack) - 1; i >= 0; i-- {
			if c.stack[i] == ScreenLogin {
				depth := i + 1
				next, enter = func(s []Screen) []Screen { return s[:depth] }, false
				break
			}
		}
	case ScreenForgotPassword:
		if !c.forgot.AcknowledgeNavigation() {
			return nil
		}
		c.recoveryEmail = c.forgot.State().SentTo
		next = func(s []Screen) []Screen { return append(s, ScreenVerifyCode) }
	case ScreenVerifyCode:
		if !c.verify.AcknowledgeNavigation() {
			return nil
		}
		next = func(s []Screen) []Screen { return append(s, ScreenResetPassword) }
	case ScreenResetPassword:
		if !c.reset.AcknowledgeNavigation() {
			return nil
		}
		next = func(s []Screen) []Screen { return append(s[:len(s)-1:len(s)-1], ScreenResetPasswordSuccess) }
	default:
		return fmt.Errorf("%s: %s has no signal: %w", op, top, ErrInvalidTransition)
	}
	if err := c.navigateLocked(next, enter); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
