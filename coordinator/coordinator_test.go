// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/medinotify/authflow/backend"
	"github.com/medinotify/authflow/identity"
	"github.com/medinotify/authflow/identity/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCoordinator(t *testing.T, opt ...Option) *Coordinator {
	t.Helper()
	dir := memory.NewDirectory()
	require.NoError(t, dir.AddUser("a@b.co", "u1", "123456"))
	p, err := identity.NewClient(identity.WithPasswordAuthenticator(dir))
	require.NoError(t, err)
	sim, err := backend.NewSimulated(backend.WithLatency(0, 0))
	require.NoError(t, err)
	c, err := New(p, sim, sim, opt...)
	require.NoError(t, err)
	return c
}

// testRun runs the coordinator until the test ends.
func testRun(t *testing.T, c *Coordinator) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
	})
}

func testWaitFor(t *testing.T, c *Coordinator, want Screen) {
	t.Helper()
	require.Eventually(t, func() bool { return c.Screen() == want }, 5*time.Second, 5*time.Millisecond,
		"never reached %s, on %s", want, c.Screen())
}

func TestNew(t *testing.T) {
	t.Parallel()
	sim, err := backend.NewSimulated()
	require.NoError(t, err)
	p, err := identity.NewClient(identity.WithPasswordAuthenticator(memory.NewDirectory()))
	require.NoError(t, err)

	_, err = New(nil, sim, sim)
	assert.ErrorIs(t, err, ErrNilParameter)
	_, err = New(p, nil, sim)
	assert.ErrorIs(t, err, ErrNilParameter)
	_, err = New(p, sim, nil)
	assert.ErrorIs(t, err, ErrNilParameter)

	c, err := New(p, sim, sim)
	require.NoError(t, err)
	assert.Equal(t, ScreenSplash, c.Screen())
	assert.Nil(t, c.Login())

	c, err = New(p, sim, sim, WithSkipSplash(true))
	require.NoError(t, err)
	assert.Equal(t, ScreenLogin, c.Screen())
	assert.NotNil(t, c.Login())
}

func TestCoordinator_Transitions(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	c := testCoordinator(t)

	assert.ErrorIs(c.OpenForgotPassword(), ErrInvalidTransition)
	assert.ErrorIs(c.BackToLogin(), ErrInvalidTransition)
	assert.False(c.Back())

	require.NoError(c.OpenRegister())
	assert.Equal([]Screen{ScreenSplash, ScreenRegister}, c.Stack())
	assert.NotNil(c.Register())
	assert.True(c.Back())
	assert.Nil(c.Register())
	assert.Equal(ScreenSplash, c.Screen())

	require.NoError(c.ContinueToLogin())
	assert.Equal([]Screen{ScreenLogin}, c.Stack())
	login := c.Login()
	require.NotNil(login)

	require.NoError(c.OpenForgotPassword())
	assert.Equal([]Screen{ScreenLogin, ScreenForgotPassword}, c.Stack())
	assert.True(c.Back())
	assert.Same(login, c.Login(), "returning keeps the screen's controller")
	assert.Nil(c.ForgotPassword())

	require.NoError(c.OpenForgotPassword())
	first := c.ForgotPassword()
	assert.True(c.Back())
	require.NoError(c.OpenForgotPassword())
	assert.NotSame(first, c.ForgotPassword(), "entering again starts fresh")

	assert.True(c.Back())
	assert.True(c.Back())
	assert.Equal([]Screen{ScreenSplash}, c.Stack())
	assert.Nil(c.Login())
}

func TestCoordinator_Changed(t *testing.T) {
	t.Parallel()
	c := testCoordinator(t)
	changed := c.Changed()
	select {
	case <-changed:
		t.Fatal("closed before any navigation")
	default:
	}
	require.NoError(t, c.ContinueToLogin())
	select {
	case <-changed:
	default:
		t.Fatal("not closed by navigation")
	}
}

func TestCoordinator_LoginToHome(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	c := testCoordinator(t, WithSkipSplash(true))
	testRun(t, c)

	login := c.Login()
	login.SetEmail("a@b.co")
	login.SetPassword("123456")
	require.NoError(login.Submit(context.Background()))

	testWaitFor(t, c, ScreenHome)
	assert.Equal("u1", c.UserID())
	assert.Equal([]Screen{ScreenHome}, c.Stack())
	assert.False(login.State().Success, "the coordinator acknowledged the signal")
	assert.False(login.AcknowledgeSuccess())
	assert.False(c.Back())
}

func TestCoordinator_RegisterReturnsToLogin(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		fromLogin bool
	}{
		{name: "from-login", fromLogin: true},
		{name: "from-splash"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert, require := assert.New(t), require.New(t)
			c := testCoordinator(t, WithSkipSplash(tt.fromLogin))
			testRun(t, c)
			login := c.Login()

			require.NoError(c.OpenRegister())
			reg := c.Register()
			reg.SetFullName("Ada Lovelace")
			reg.SetEmail("ada@example.com")
			reg.SetPhone("0912345678")
			reg.SetPassword("123456")
			reg.SetConfirmPassword("123456")
			require.NoError(reg.Submit(context.Background()))

			testWaitFor(t, c, ScreenLogin)
			assert.Equal([]Screen{ScreenLogin}, c.Stack())
			assert.Nil(c.Register())
			if tt.fromLogin {
				assert.Same(login, c.Login())
			}
			assert.NotNil(c.Login())
		})
	}
}

func TestCoordinator_RecoveryEndToEnd(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	ctx := context.Background()
	c := testCoordinator(t)
	testRun(t, c)

	require.NoError(c.ContinueToLogin())
	require.NoError(c.OpenForgotPassword())
	forgot := c.ForgotPassword()
	forgot.SetEmail("x@y.com")
	require.NoError(forgot.SendCode(ctx))

	testWaitFor(t, c, ScreenVerifyCode)
	assert.Equal("x@y.com", c.RecoveryEmail())
	verify := c.VerifyCode()
	require.NotNil(verify)
	assert.Equal("x@y.com", verify.State().Email)
	assert.False(forgot.State().NavigateNext)

	verify.SetCode("12")
	verify.SetCode("123456")
	require.NoError(verify.Confirm(ctx))

	testWaitFor(t, c, ScreenResetPassword)
	reset := c.ResetPassword()
	require.NotNil(reset)
	reset.SetPassword("newpass")
	reset.SetConfirmPassword("newpass")
	require.NoError(reset.Submit(ctx))

	testWaitFor(t, c, ScreenResetPasswordSuccess)
	assert.Equal([]Screen{ScreenLogin, ScreenForgotPassword, ScreenVerifyCode, ScreenResetPasswordSuccess}, c.Stack())
	assert.Nil(c.ResetPassword())
	assert.False(reset.AcknowledgeNavigation())

	require.NoError(c.BackToLogin())
	assert.Equal([]Screen{ScreenLogin}, c.Stack())
	assert.Empty(c.RecoveryEmail())
	assert.Nil(c.ForgotPassword())
	assert.Nil(c.VerifyCode())
}

// gatedRecovery holds SendCode until release is closed and reports the
// email each password is committed for.
type gatedRecovery struct {
	backend.Recovery
	entered   chan string
	release   chan struct{}
	committed chan string
}

func (g *gatedRecovery) CommitPassword(ctx context.Context, email, password string) error {
	g.committed <- email
	return g.Recovery.CommitPassword(ctx, email, password)
}

func (g *gatedRecovery) SendCode(ctx context.Context, email string) error {
	g.entered <- email
	select {
	case <-g.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	return g.Recovery.SendCode(ctx, email)
}

func TestCoordinator_RecoveryKeepsSentToEmail(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	ctx := context.Background()
	sim, err := backend.NewSimulated(backend.WithLatency(0, 0))
	require.NoError(err)
	p, err := identity.NewClient(identity.WithPasswordAuthenticator(memory.NewDirectory()))
	require.NoError(err)
	rec := &gatedRecovery{
		Recovery:  sim,
		entered:   make(chan string, 1),
		release:   make(chan struct{}),
		committed: make(chan string, 1),
	}
	c, err := New(p, sim, rec, WithSkipSplash(true))
	require.NoError(err)
	testRun(t, c)

	require.NoError(c.OpenForgotPassword())
	forgot := c.ForgotPassword()
	forgot.SetEmail("a@b.co")
	done := make(chan error, 1)
	go func() { done <- forgot.SendCode(ctx) }()
	select {
	case got := <-rec.entered:
		assert.Equal("a@b.co", got)
	case <-time.After(5 * time.Second):
		require.FailNow("code was never sent")
	}
	forgot.SetEmail("typo@elsewhere.com")
	close(rec.release)
	require.NoError(<-done)

	testWaitFor(t, c, ScreenVerifyCode)
	assert.Equal("a@b.co", c.RecoveryEmail())
	verify := c.VerifyCode()
	require.NotNil(verify)
	assert.Equal("a@b.co", verify.State().Email)

	verify.SetCode("123456")
	require.NoError(verify.Confirm(ctx))
	testWaitFor(t, c, ScreenResetPassword)
	reset := c.ResetPassword()
	require.NotNil(reset)
	reset.SetPassword("newpass")
	reset.SetConfirmPassword("newpass")
	require.NoError(reset.Submit(ctx))
	assert.Equal("a@b.co", <-rec.committed)
	testWaitFor(t, c, ScreenResetPasswordSuccess)
}

func TestCoordinator_BackFromSuccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := testCoordinator(t, WithSkipSplash(true))
	testRun(t, c)
	login := c.Login()

	require.NoError(t, c.OpenForgotPassword())
	c.ForgotPassword().SetEmail("x@y.com")
	require.NoError(t, c.ForgotPassword().SendCode(ctx))
	testWaitFor(t, c, ScreenVerifyCode)
	c.VerifyCode().SetCode("123456")
	require.NoError(t, c.VerifyCode().Confirm(ctx))
	testWaitFor(t, c, ScreenResetPassword)
	c.ResetPassword().SetPassword("newpass")
	c.ResetPassword().SetConfirmPassword("newpass")
	require.NoError(t, c.ResetPassword().Submit(ctx))
	testWaitFor(t, c, ScreenResetPasswordSuccess)

	assert.True(t, c.Back())
	assert.Equal(t, []Screen{ScreenLogin}, c.Stack())
	assert.NotSame(t, login, c.Login())
}
