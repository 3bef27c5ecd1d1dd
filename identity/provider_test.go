// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/medinotify/authflow/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type testPasswordAuth struct {
	userID string
	err    error
	block  bool
	calls  int
}

func (a *testPasswordAuth) Authenticate(ctx context.Context, _, _ string) (string, error) {
	a.calls++
	if a.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return a.userID, a.err
}

type testTokenAuth struct {
	userID string
	err    error
	got    Token
}

func (a *testTokenAuth) AuthenticateToken(_ context.Context, t Token) (string, error) {
	a.got = t
	return a.userID, a.err
}

type testNetErr struct{}

func (testNetErr) Error() string   { return "dial tcp: connection refused" }
func (testNetErr) Timeout() bool   { return false }
func (testNetErr) Temporary() bool { return false }

var _ net.Error = testNetErr{}

func TestNewClient(t *testing.T) {
	t.Parallel()
	t.Run("missing-authenticators", func(t *testing.T) {
		_, err := NewClient()
		require.ErrorIs(t, err, ErrInvalidParameter)
	})
	t.Run("negative-timeout", func(t *testing.T) {
		_, err := NewClient(WithPasswordAuthenticator(&testPasswordAuth{}), WithTimeout(-1))
		require.ErrorIs(t, err, ErrInvalidParameter)
	})
	t.Run("valid", func(t *testing.T) {
		c, err := NewClient(WithTokenAuthenticator(&testTokenAuth{}), nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultTimeout, c.timeout)
	})
}

func TestClient_SignIn(t *testing.T) {
	t.Parallel()
	en := i18n.NewPrinter(language.English)
	tests := []struct {
		name string
		auth *testPasswordAuth
		want Outcome
	}{
		{
			name: "success",
			auth: &testPasswordAuth{userID: "u1"},
			want: Success{UserID: "u1"},
		},
		{
			name: "unknown-account",
			auth: &testPasswordAuth{err: fmt.Errorf("lookup: %w", ErrUnknownAccount)},
			want: Failure{Kind: KindUnknownAccount, Message: en.Text(i18n.UnknownAccount)},
		},
		{
			name: "invalid-credentials",
			auth: &testPasswordAuth{err: ErrInvalidCredentials},
			want: Failure{Kind: KindInvalidCredentials, Message: en.Text(i18n.InvalidCredentials)},
		},
		{
			name: "unknown-account-wins-over-network",
			auth: &testPasswordAuth{err: errors.Join(ErrNetworkUnreachable, ErrUnknownAccount)},
			want: Failure{Kind: KindUnknownAccount, Message: en.Text(i18n.UnknownAccount)},
		},
		{
			name: "invalid-credentials-wins-over-network",
			auth: &testPasswordAuth{err: errors.Join(testNetErr{}, ErrInvalidCredentials)},
			want: Failure{Kind: KindInvalidCredentials, Message: en.Text(i18n.InvalidCredentials)},
		},
		{
			name: "network-sentinel",
			auth: &testPasswordAuth{err: ErrNetworkUnreachable},
			want: Failure{Kind: KindNetworkUnreachable, Message: en.Text(i18n.NetworkUnreachable)},
		},
		{
			name: "network-net-error",
			auth: &testPasswordAuth{err: fmt.Errorf("dial: %w", testNetErr{})},
			want: Failure{Kind: KindNetworkUnreachable, Message: en.Text(i18n.NetworkUnreachable)},
		},
		{
			name: "unknown-with-provider-message",
			auth: &testPasswordAuth{err: &ProviderError{Message: "account disabled by administrator"}},
			want: Failure{Kind: KindUnknown, Message: "account disabled by administrator"},
		},
		{
			name: "unknown-without-provider-message",
			auth: &testPasswordAuth{err: errors.New("internal: boom")},
			want: Failure{Kind: KindUnknown, Message: en.Text(i18n.SignInFailed)},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, err := NewClient(WithPasswordAuthenticator(tt.auth), WithPrinter(en))
			require.NoError(t, err)
			got := c.SignIn(context.Background(), "a@b.co", "123456")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, tt.auth.calls)
		})
	}
}

func TestClient_SignIn_Timeout(t *testing.T) {
	t.Parallel()
	auth := &testPasswordAuth{block: true}
	c, err := NewClient(WithPasswordAuthenticator(auth), WithTimeout(10*time.Millisecond))
	require.NoError(t, err)
	got := c.SignIn(context.Background(), "a@b.co", "123456")
	f, ok := got.(Failure)
	require.True(t, ok)
	assert.Equal(t, KindNetworkUnreachable, f.Kind)
}

func TestClient_SignInWithToken(t *testing.T) {
	t.Parallel()
	vi := i18n.NewPrinter(language.Vietnamese)
	tests := []struct {
		name string
		auth *testTokenAuth
		want Outcome
	}{
		{
			name: "success",
			auth: &testTokenAuth{userID: "sub-1"},
			want: Success{UserID: "sub-1"},
		},
		{
			name: "credential-buckets-ignored",
			auth: &testTokenAuth{err: ErrInvalidCredentials},
			want: Failure{Kind: KindUnknown, Message: vi.Text(i18n.TokenSignInFailed)},
		},
		{
			name: "network",
			auth: &testTokenAuth{err: ErrNetworkUnreachable},
			want: Failure{Kind: KindNetworkUnreachable, Message: vi.Text(i18n.NetworkUnreachable)},
		},
		{
			name: "provider-message",
			auth: &testTokenAuth{err: &ProviderError{Message: "token is expired", Err: errors.New("exp")}},
			want: Failure{Kind: KindUnknown, Message: "token is expired"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, err := NewClient(WithTokenAuthenticator(tt.auth), WithPrinter(vi))
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.SignInWithToken(context.Background(), "raw-token"))
			assert.Equal(t, Token("raw-token"), tt.auth.got)
		})
	}
}

func TestClient_NotConfigured(t *testing.T) {
	t.Parallel()
	c, err := NewClient(WithTokenAuthenticator(&testTokenAuth{userID: "x"}))
	require.NoError(t, err)
	got := c.SignIn(context.Background(), "a@b.co", "123456")
	assert.Equal(t, Failure{Kind: KindUnknown, Message: i18n.NewPrinter(i18n.DefaultLanguage).Text(i18n.SignInFailed)}, got)

	c, err = NewClient(WithPasswordAuthenticator(&testPasswordAuth{userID: "x"}))
	require.NoError(t, err)
	_, ok := c.SignInWithToken(context.Background(), "t").(Failure)
	assert.True(t, ok)
}

func TestToken_Redacted(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	tk := Token("eyJhbGciOi.secret.sig")
	assert.Equal(RedactedToken, tk.String())
	assert.Equal(RedactedToken, fmt.Sprintf("%v", tk))
	got, err := json.Marshal(tk)
	require.NoError(err)
	assert.Equal(fmt.Sprintf("%q", RedactedToken), string(got))
	assert.True(Token("  ").Blank())
	assert.False(tk.Blank())
}

func TestProviderError(t *testing.T) {
	t.Parallel()
	inner := errors.New("inner")
	err := &ProviderError{Message: "msg", Err: inner}
	assert.Equal(t, "msg: inner", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "msg", (&ProviderError{Message: "msg"}).Error())
}

func TestKind_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "unknown-account", KindUnknownAccount.String())
	assert.Equal(t, "invalid-credentials", KindInvalidCredentials.String())
	assert.Equal(t, "network-unreachable", KindNetworkUnreachable.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}
