// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package config loads the YAML configuration that assembles an identity
// provider, a backend and a coordinator.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/medinotify/authflow/identity/ldap"
	"github.com/medinotify/authflow/identity/oidc"
	"github.com/medinotify/authflow/validate"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	// EnvLDAPBindPassword overrides identity.ldap.bind_password
	EnvLDAPBindPassword = "AUTHFLOW_LDAP_BIND_PASSWORD"

	// EnvBackendURL overrides backend.url
	EnvBackendURL = "AUTHFLOW_BACKEND_URL"

	// EnvLogLevel overrides log_level
	EnvLogLevel = "AUTHFLOW_LOG_LEVEL"
)

var ErrInvalidParameter = errors.New("invalid parameter")

// Config is the top level configuration.
type Config struct {
	// Language of user facing messages, a BCP 47 tag.  Defaults to English.
	Language string `yaml:"language"`

	// LogLevel is one of trace, debug, info, warn, error, off.
	LogLevel string `yaml:"log_level"`

	// Timeout bounds every remote call a controller makes.
	Timeout time.Duration `yaml:"timeout"`

	// SkipSplash starts on the login screen.
	SkipSplash bool `yaml:"skip_splash"`

	Identity Identity `yaml:"identity"`
	Backend  Backend  `yaml:"backend"`
}

// Identity configures how users sign in.  At least one of LDAP or Users is
// needed for email sign-in; OIDC or Tokens enable token sign-in.
type Identity struct {
	Timeout time.Duration `yaml:"timeout"`
	LDAP    *ldap.Config  `yaml:"ldap"`
	OIDC    *oidc.Config  `yaml:"oidc"`
	Users   []User        `yaml:"users"`
	Tokens  []StaticToken `yaml:"tokens"`
}

// User is an account of the in-memory directory.
type User struct {
	Email    string `yaml:"email"`
	UserID   string `yaml:"user_id"`
	Password string `yaml:"password"`
}

// StaticToken is a token accepted by the in-memory directory.
type StaticToken struct {
	Token  string `yaml:"token"`
	UserID string `yaml:"user_id"`
}

// Backend configures the registration and recovery backend.  An empty URL
// uses the simulated backend.
type Backend struct {
	URL       string        `yaml:"url"`
	CACert    string        `yaml:"ca_cert"`
	RetryMax  *int          `yaml:"retry_max"`
	Simulated SimulatedOpts `yaml:"simulated"`
}

// SimulatedOpts tunes the simulated backend.
type SimulatedOpts struct {
	RecoveryLatency     *time.Duration `yaml:"recovery_latency"`
	RegistrationLatency *time.Duration `yaml:"registration_latency"`
	ExpectedCode        string         `yaml:"expected_code"`
}

// Load reads the configuration at path.  Environment overrides are applied
// and the result is validated.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, path, err)
	}
	return c, nil
}

// Parse decodes a configuration, applies environment overrides and
// validates the result.  Unknown keys are an error.
func Parse(r io.Reader) (*Config, error) {
	const op = "config.Parse"
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.applyEnv(os.LookupEnv)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// Default returns a configuration with a single demo account, a@b.co with
// password 123456, and the simulated backend.
func Default() *Config {
	return &Config{
		Identity: Identity{
			Users: []User{{Email: "a@b.co", UserID: "u1", Password: "123456"}},
		},
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvLDAPBindPassword); ok && c.Identity.LDAP != nil {
		c.Identity.LDAP.BindPassword = v
	}
	if v, ok := lookup(EnvBackendURL); ok {
		c.Backend.URL = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
}

// Validate the configuration, reporting every problem found.
func (c *Config) Validate() error {
	const op = "config.(Config).Validate"
	var retErr *multierror.Error
	add := func(format string, args ...interface{}) {
		retErr = multierror.Append(retErr, fmt.Errorf("%s: %s: %w", op, fmt.Sprintf(format, args...), ErrInvalidParameter))
	}

	if c.Language != "" {
		if _, err := language.Parse(c.Language); err != nil {
			add("invalid language %q", c.Language)
		}
	}
	if c.LogLevel != "" && hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		add("invalid log level %q", c.LogLevel)
	}
	if c.Timeout < 0 {
		add("negative timeout")
	}

	id := c.Identity
	if id.Timeout < 0 {
		add("negative identity timeout")
	}
	if id.LDAP == nil && len(id.Users) == 0 && id.OIDC == nil && len(id.Tokens) == 0 {
		add("no sign-in method configured")
	}
	if id.LDAP != nil && len(id.Users) > 0 {
		add("identity.ldap and identity.users cannot both be set")
	}
	if id.OIDC != nil && len(id.Tokens) > 0 {
		add("identity.oidc and identity.tokens cannot both be set")
	}
	if id.LDAP != nil {
		if err := id.LDAP.Validate(); err != nil {
			retErr = multierror.Append(retErr, err)
		}
	}
	if id.OIDC != nil {
		if err := id.OIDC.Validate(); err != nil {
			retErr = multierror.Append(retErr, err)
		}
	}
	for i, u := range id.Users {
		if err := validate.Email(u.Email); err != nil {
			add("identity.users[%d]: %v", i, err)
		}
		if u.UserID == "" {
			add("identity.users[%d]: missing user_id", i)
		}
		if err := validate.Password(u.Password); err != nil {
			add("identity.users[%d]: %v", i, err)
		}
	}
	for i, t := range id.Tokens {
		if t.Token == "" || t.UserID == "" {
			add("identity.tokens[%d]: token and user_id are required", i)
		}
	}

	b := c.Backend
	if b.URL != "" {
		if u, err := url.Parse(b.URL); err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			add("backend.url %q is not an http(s) url", b.URL)
		}
	}
	if b.RetryMax != nil && *b.RetryMax < 0 {
		add("negative backend.retry_max")
	}
	if s := b.Simulated; (s.RecoveryLatency != nil && *s.RecoveryLatency < 0) ||
		(s.RegistrationLatency != nil && *s.RegistrationLatency < 0) {
		add("negative simulated latency")
	}
	if code := b.Simulated.ExpectedCode; code != "" {
		if err := validate.OTP(code); err != nil || validate.SanitizeOTP(code) != code {
			add("backend.simulated.expected_code must be %d digits", validate.OTPLength)
		}
	}
	return retErr.ErrorOrNil()
}
