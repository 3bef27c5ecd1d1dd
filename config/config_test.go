// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/medinotify/authflow/backend"
	"github.com/medinotify/authflow/coordinator"
	"github.com/medinotify/authflow/identity"
	"github.com/medinotify/authflow/identity/ldap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
language: vi
log_level: debug
timeout: 5s
skip_splash: true
identity:
  timeout: 2s
  users:
    - email: a@b.co
      user_id: u1
      password: "123456"
  tokens:
    - token: demo-token
      user_id: google-1
backend:
  simulated:
    recovery_latency: 0s
    registration_latency: 10ms
    expected_code: "424242"
`

func TestParse(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	c, err := Parse(strings.NewReader(testYAML))
	require.NoError(err)
	assert.Equal("vi", c.Language)
	assert.Equal(5*time.Second, c.Timeout)
	assert.Equal(2*time.Second, c.Identity.Timeout)
	assert.True(c.SkipSplash)
	require.Len(c.Identity.Users, 1)
	assert.Equal("u1", c.Identity.Users[0].UserID)
	require.NotNil(c.Backend.Simulated.RegistrationLatency)
	assert.Equal(10*time.Millisecond, *c.Backend.Simulated.RegistrationLatency)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		yaml string
	}{
		{name: "unknown-key", yaml: "identity:\n  users: []\nbogus: 1\n"},
		{name: "empty", yaml: ""},
		{name: "not-yaml", yaml: "identity: [\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(strings.NewReader(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "authflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testYAML), 0o600))
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Parallel()
	env := map[string]string{
		EnvLDAPBindPassword: "from-env",
		EnvBackendURL:       "https://api.example.com",
		EnvLogLevel:         "warn",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	c := &Config{Identity: Identity{LDAP: &ldap.Config{BindDN: "cn=svc", BindPassword: "from-file"}}}
	c.applyEnv(lookup)
	assert.Equal(t, "from-env", c.Identity.LDAP.BindPassword)
	assert.Equal(t, "https://api.example.com", c.Backend.URL)
	assert.Equal(t, "warn", c.LogLevel)

	// no ldap section means nothing to override
	c = &Config{}
	c.applyEnv(lookup)
	assert.Nil(t, c.Identity.LDAP)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()
	negative := -time.Second
	retries := -1
	c := &Config{
		Language: "not a language!",
		LogLevel: "loud",
		Timeout:  -time.Second,
		Identity: Identity{
			Users: []User{{Email: "nope", Password: "1"}},
		},
		Backend: Backend{
			URL:      "ftp://example.com",
			RetryMax: &retries,
			Simulated: SimulatedOpts{
				RecoveryLatency: &negative,
				ExpectedCode:    "12ab",
			},
		},
	}
	err := c.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	// language, log level, timeout, email, user id, password, url, retries,
	// latency, expected code
	assert.Len(t, merr.Errors, 10)

	assert.Error(t, (&Config{}).Validate(), "no sign-in method")
	assert.NoError(t, Default().Validate())
}

func TestBuild(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	c, err := Parse(strings.NewReader(testYAML))
	require.NoError(err)
	app, err := Build(c, nil)
	require.NoError(err)

	assert.IsType(&backend.Simulated{}, app.Recovery)
	assert.Equal(coordinator.ScreenLogin, app.Coordinator.Screen())

	ctx := context.Background()
	assert.Equal(identity.Success{UserID: "u1"}, app.Provider.SignIn(ctx, "a@b.co", "123456"))
	assert.Equal(identity.Success{UserID: "google-1"}, app.Provider.SignInWithToken(ctx, "demo-token"))

	// messages are rendered in the configured language
	login := app.Coordinator.Login()
	require.NoError(login.Submit(ctx))
	assert.Equal("Vui lòng nhập đầy đủ email và mật khẩu.", login.State().ErrorMessage)

	assert.ErrorIs(app.Recovery.ConfirmCode(ctx, "a@b.co", "111111"), backend.ErrInvalidCode)
}

func TestBuild_HTTPBackend(t *testing.T) {
	t.Parallel()
	retries := 0
	c := Default()
	c.Backend.URL = "https://api.example.com"
	c.Backend.RetryMax = &retries
	app, err := Build(c, nil)
	require.NoError(t, err)
	assert.IsType(t, &backend.HTTPClient{}, app.Registrar)
	assert.Equal(t, coordinator.ScreenSplash, app.Coordinator.Screen())

	_, err = Build(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
