// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package coordinator sequences the sign-in, sign-up and recovery screens.
// It owns the back stack, creates a fresh controller whenever a screen is
// entered and drops it when the screen leaves the stack, carries the
// recovery email from one recovery step to the next, and consumes each
// controller's one-shot signal by acknowledging it.
package coordinator

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/medinotify/authflow/backend"
	"github.com/medinotify/authflow/flow"
	"github.com/medinotify/authflow/identity"
)

// Screen names a step of the flow.
type Screen string

const (
	ScreenSplash               Screen = "splash"
	ScreenLogin                Screen = "login"
	ScreenRegister             Screen = "register"
	ScreenForgotPassword       Screen = "forgot_password"
	ScreenVerifyCode           Screen = "verify_code"
	ScreenResetPassword        Screen = "reset_password"
	ScreenResetPasswordSuccess Screen = "reset_password_success"
	ScreenHome                 Screen = "home"
)

// Coordinator drives the screens of the flow.  It is safe for concurrent
// use.
type Coordinator struct {
	provider  identity.Provider
	registrar backend.Registrar
	recovery  backend.Recovery
	flowOpts  []flow.Option
	logger    hclog.Logger

	mu      sync.Mutex
	stack   []Screen
	gen     uint64
	changed chan struct{}

	login    *flow.Login
	register *flow.Register
	forgot   *flow.ForgotPassword
	verify   *flow.VerifyCode
	reset    *flow.ResetPassword

	recoveryEmail string
	userID        string
}

// New creates a Coordinator on the splash screen.
//
// Supported options: WithLogger, WithFlowOptions, WithSkipSplash
func New(p identity.Provider, reg backend.Registrar, rec backend.Recovery, opt ...Option) (*Coordinator, error) {
	const op = "coordinator.New"
	switch {
	case p == nil:
		return nil, fmt.Errorf("%s: missing identity provider: %w", op, ErrNilParameter)
	case reg == nil:
		return nil, fmt.Errorf("%s: missing registrar: %w", op, ErrNilParameter)
	case rec == nil:
		return nil, fmt.Errorf("%s: missing recovery backend: %w", op, ErrNilParameter)
	}
	opts := getCoordinatorOpts(opt...)
	c := &Coordinator{
		provider:  p,
		registrar: reg,
		recovery:  rec,
		logger:    opts.withLogger.Named("coordinator"),
		changed:   make(chan struct{}),
	}
	c.flowOpts = append([]flow.Option{flow.WithLogger(opts.withLogger)}, opts.withFlowOptions...)

	start := ScreenSplash
	if opts.withSkipSplash {
		start = ScreenLogin
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.navigateLocked(func([]Screen) []Screen { return []Screen{start} }, true); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// Screen returns the screen on top of the stack.
func (c *Coordinator) Screen() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.topLocked()
}

// Stack returns a copy of the back stack, bottom first.
func (c *Coordinator) Stack() []Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Screen(nil), c.stack...)
}

// Changed returns a channel that is closed at the next navigation.
func (c *Coordinator) Changed() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.changed
}

// UserID returns the signed in user once the home screen was reached.
func (c *Coordinator) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// RecoveryEmail returns the email a recovery code was sent to, while the
// recovery screens are on the stack.
func (c *Coordinator) RecoveryEmail() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recoveryEmail
}

// Login returns the login controller, nil when the screen is not on the
// stack.
func (c *Coordinator) Login() *flow.Login {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.login
}

// Register returns the sign-up controller, nil when the screen is not on
// the stack.
func (c *Coordinator) Register() *flow.Register {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.register
}

// ForgotPassword returns the first recovery controller, nil when the screen
// is not on the stack.
func (c *Coordinator) ForgotPassword() *flow.ForgotPassword {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.forgot
}

// VerifyCode returns the code entry controller, nil when the screen is not
// on the stack.
func (c *Coordinator) VerifyCode() *flow.VerifyCode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.verify
}

// ResetPassword returns the new password controller, nil when the screen is
// not on the stack.
func (c *Coordinator) ResetPassword() *flow.ResetPassword {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reset
}

// ContinueToLogin leaves the splash screen for the login screen.
func (c *Coordinator) ContinueToLogin() error {
	return c.transition("coordinator.(Coordinator).ContinueToLogin", ScreenSplash, func([]Screen) []Screen {
		return []Screen{ScreenLogin}
	})
}

// OpenRegister opens the sign-up screen from the splash or login screen.
func (c *Coordinator) OpenRegister() error {
	return c.transition("coordinator.(Coordinator).OpenRegister", "", func(s []Screen) []Screen {
		return append(s, ScreenRegister)
	}, ScreenSplash, ScreenLogin)
}

// OpenForgotPassword starts recovery from the login screen.
func (c *Coordinator) OpenForgotPassword() error {
	return c.transition("coordinator.(Coordinator).OpenForgotPassword", ScreenLogin, func(s []Screen) []Screen {
		return append(s, ScreenForgotPassword)
	})
}

// BackToLogin leaves the recovery success screen for a fresh login screen.
func (c *Coordinator) BackToLogin() error {
	return c.transition("coordinator.(Coordinator).BackToLogin", ScreenResetPasswordSuccess, func([]Screen) []Screen {
		return []Screen{ScreenLogin}
	})
}

// Back pops the current screen.  Leaving the login screen returns to the
// splash screen and leaving the recovery success screen acts as
// BackToLogin.  It reports whether anything changed; the bottom screen and
// the home screen cannot be left this way.
func (c *Coordinator) Back() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	top := c.topLocked()
	var next func([]Screen) []Screen
	enter := false
	switch {
	case top == ScreenHome:
		return false
	case top == ScreenLogin:
		next = func(s []Screen) []Screen { return append(s[:len(s)-1:len(s)-1], ScreenSplash) }
	case top == ScreenResetPasswordSuccess:
		next, enter = func([]Screen) []Screen { return []Screen{ScreenLogin} }, true
	case len(c.stack) > 1:
		next = func(s []Screen) []Screen { return s[:len(s)-1] }
	default:
		return false
	}
	if err := c.navigateLocked(next, enter); err != nil {
		c.logger.Error("back navigation failed", "from", top, "error", err)
		return false
	}
	return true
}

func (c *Coordinator) transition(op string, from Screen, next func([]Screen) []Screen, alsoFrom ...Screen) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	top := c.topLocked()
	allowed := top == from
	for _, s := range alsoFrom {
		allowed = allowed || top == s
	}
	if !allowed {
		return fmt.Errorf("%s: not possible from %s: %w", op, top, ErrInvalidTransition)
	}
	if err := c.navigateLocked(next, true); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Coordinator) topLocked() Screen {
	if len(c.stack) == 0 {
		return ""
	}
	return c.stack[len(c.stack)-1]
}

// navigateLocked replaces the stack with next(stack) and drops the
// controllers of screens no longer on the stack.  When enter is set the top
// screen is a new entry and gets a fresh controller; otherwise an existing
// one is kept.
func (c *Coordinator) navigateLocked(next func([]Screen) []Screen, enter bool) error {
	const op = "coordinator.(Coordinator).navigateLocked"
	prevTop := c.topLocked()
	stack := next(append([]Screen(nil), c.stack...))
	if len(stack) == 0 {
		return fmt.Errorf("%s: empty stack: %w", op, ErrInvalidParameter)
	}
	onStack := map[Screen]bool{}
	for _, s := range stack {
		onStack[s] = true
	}
	top := stack[len(stack)-1]

	// build before committing so a failure leaves everything as it was
	var (
		login    *flow.Login
		register *flow.Register
		forgot   *flow.ForgotPassword
		verify   *flow.VerifyCode
		reset    *flow.ResetPassword
		err      error
	)
	switch {
	case top == ScreenLogin && (enter || c.login == nil):
		login, err = flow.NewLogin(c.provider, c.flowOpts...)
	case top == ScreenRegister && (enter || c.register == nil):
		register, err = flow.NewRegister(c.registrar, c.flowOpts...)
	case top == ScreenForgotPassword && (enter || c.forgot == nil):
		forgot, err = flow.NewForgotPassword(c.recovery, c.flowOpts...)
	case top == ScreenVerifyCode && (enter || c.verify == nil):
		verify, err = flow.NewVerifyCode(c.recovery, c.recoveryEmail, c.flowOpts...)
	case top == ScreenResetPassword && (enter || c.reset == nil):
		reset, err = flow.NewResetPassword(c.recovery, c.recoveryEmail, c.flowOpts...)
	}
	if err != nil {
		return fmt.Errorf("%s: unable to enter %s: %w", op, top, err)
	}

	c.stack = stack
	c.login = pick(onStack[ScreenLogin], login, c.login)
	c.register = pick(onStack[ScreenRegister], register, c.register)
	c.forgot = pick(onStack[ScreenForgotPassword], forgot, c.forgot)
	c.verify = pick(onStack[ScreenVerifyCode], verify, c.verify)
	c.reset = pick(onStack[ScreenResetPassword], reset, c.reset)
	if !onStack[ScreenVerifyCode] && !onStack[ScreenResetPassword] && !onStack[ScreenResetPasswordSuccess] {
		c.recoveryEmail = ""
	}

	c.gen++
	close(c.changed)
	c.changed = make(chan struct{})
	c.logger.Debug("navigated", "from", prevTop, "to", top, "depth", len(stack))
	return nil
}

// pick keeps the controller of a screen still on the stack, preferring one
// that was just built.
func pick[T any](keep bool, built, current *T) *T {
	switch {
	case !keep:
		return nil
	case built != nil:
		return built
	default:
		return current
	}
}
