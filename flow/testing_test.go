// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package flow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/medinotify/authflow/backend"
	"github.com/medinotify/authflow/i18n"
	"github.com/medinotify/authflow/identity"
	"github.com/stretchr/testify/require"
)

var testPrinter = i18n.NewPrinter(i18n.DefaultLanguage)

// testGate blocks fakes until released or until the call's context ends.
type testGate struct {
	entered chan struct{}
	release chan struct{}
}

func newTestGate() *testGate {
	return &testGate{entered: make(chan struct{}, 10), release: make(chan struct{})}
}

func (g *testGate) wait(ctx context.Context) error {
	if g == nil {
		return nil
	}
	g.entered <- struct{}{}
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type testProvider struct {
	mu          sync.Mutex
	outcome     identity.Outcome
	gate        *testGate
	calls       int
	gotEmail    string
	gotPassword string
	gotToken    identity.Token
}

func (p *testProvider) SignIn(ctx context.Context, email, password string) identity.Outcome {
	p.mu.Lock()
	p.calls++
	p.gotEmail, p.gotPassword = email, password
	p.mu.Unlock()
	if err := p.gate.wait(ctx); err != nil {
		return identity.Failure{Kind: identity.KindNetworkUnreachable, Message: testPrinter.Text(i18n.NetworkUnreachable)}
	}
	return p.outcome
}

func (p *testProvider) SignInWithToken(ctx context.Context, token identity.Token) identity.Outcome {
	p.mu.Lock()
	p.calls++
	p.gotToken = token
	p.mu.Unlock()
	if err := p.gate.wait(ctx); err != nil {
		return identity.Failure{Kind: identity.KindNetworkUnreachable, Message: testPrinter.Text(i18n.NetworkUnreachable)}
	}
	return p.outcome
}

func (p *testProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// testBackend records calls and answers with err.
type testBackend struct {
	mu    sync.Mutex
	err   error
	gate  *testGate
	calls []string
	args  [][]string
}

func (b *testBackend) record(ctx context.Context, call string, args ...string) error {
	b.mu.Lock()
	b.calls = append(b.calls, call)
	b.args = append(b.args, args)
	err := b.err
	b.mu.Unlock()
	if gateErr := b.gate.wait(ctx); gateErr != nil {
		return gateErr
	}
	return err
}

func (b *testBackend) SendCode(ctx context.Context, email string) error {
	return b.record(ctx, "send_code", email)
}

func (b *testBackend) ConfirmCode(ctx context.Context, email, code string) error {
	return b.record(ctx, "confirm_code", email, code)
}

func (b *testBackend) CommitPassword(ctx context.Context, email, password string) error {
	return b.record(ctx, "commit_password", email, password)
}

func (b *testBackend) CreateAccount(ctx context.Context, r backend.Registration) error {
	return b.record(ctx, "create_account", r.FullName, r.Email, r.Phone, r.Password)
}

func (b *testBackend) recorded() ([]string, [][]string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...), append([][]string(nil), b.args...)
}

// testEntered waits for a gated fake to be called.
func testEntered(t *testing.T, g *testGate) {
	t.Helper()
	select {
	case <-g.entered:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "remote call was never made")
	}
}

// testAsync runs fn on its own goroutine and returns its result channel.
func testAsync(fn func() error) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- fn() }()
	return ch
}
