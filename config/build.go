// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/medinotify/authflow/backend"
	"github.com/medinotify/authflow/coordinator"
	"github.com/medinotify/authflow/flow"
	"github.com/medinotify/authflow/i18n"
	"github.com/medinotify/authflow/identity"
	"github.com/medinotify/authflow/identity/ldap"
	"github.com/medinotify/authflow/identity/memory"
	"github.com/medinotify/authflow/identity/oidc"
	cphttp "github.com/medinotify/authflow/sdk/http"
	"golang.org/x/text/language"
)

// App is everything Build assembles.
type App struct {
	Printer     *i18n.Printer
	Provider    *identity.Client
	Registrar   backend.Registrar
	Recovery    backend.Recovery
	Coordinator *coordinator.Coordinator
}

// Build assembles the identity provider, backend and coordinator described
// by c.  Components log through logger; nil discards their logs.
func Build(c *Config, logger hclog.Logger) (*App, error) {
	const op = "config.Build"
	if c == nil {
		return nil, fmt.Errorf("%s: missing config: %w", op, ErrInvalidParameter)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	tag := i18n.DefaultLanguage
	if c.Language != "" {
		tag = language.Make(c.Language)
	}
	app := &App{Printer: i18n.NewPrinter(tag)}

	var err error
	if app.Provider, err = c.buildProvider(app.Printer, logger); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if app.Registrar, app.Recovery, err = c.buildBackend(logger); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	flowOpts := []flow.Option{flow.WithPrinter(app.Printer)}
	if c.Timeout > 0 {
		flowOpts = append(flowOpts, flow.WithTimeout(c.Timeout))
	}
	app.Coordinator, err = coordinator.New(app.Provider, app.Registrar, app.Recovery,
		coordinator.WithLogger(logger),
		coordinator.WithFlowOptions(flowOpts...),
		coordinator.WithSkipSplash(c.SkipSplash),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return app, nil
}

func (c *Config) buildProvider(p *i18n.Printer, logger hclog.Logger) (*identity.Client, error) {
	const op = "config.(Config).buildProvider"
	opts := []identity.Option{identity.WithPrinter(p), identity.WithLogger(logger)}
	if c.Identity.Timeout > 0 {
		opts = append(opts, identity.WithTimeout(c.Identity.Timeout))
	}

	var dir *memory.Directory
	if len(c.Identity.Users) > 0 || len(c.Identity.Tokens) > 0 {
		dir = memory.NewDirectory()
		for _, u := range c.Identity.Users {
			if err := dir.AddUser(u.Email, u.UserID, u.Password); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
		for _, t := range c.Identity.Tokens {
			if err := dir.AddToken(identity.Token(t.Token), t.UserID); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	switch {
	case c.Identity.LDAP != nil:
		a, err := ldap.NewAuthenticator(c.Identity.LDAP, ldap.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		opts = append(opts, identity.WithPasswordAuthenticator(a))
	case len(c.Identity.Users) > 0:
		opts = append(opts, identity.WithPasswordAuthenticator(dir))
	}

	switch {
	case c.Identity.OIDC != nil:
		v, err := oidc.NewVerifier(c.Identity.OIDC, oidc.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		opts = append(opts, identity.WithTokenAuthenticator(v))
	case len(c.Identity.Tokens) > 0:
		opts = append(opts, identity.WithTokenAuthenticator(dir))
	}

	client, err := identity.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return client, nil
}

func (c *Config) buildBackend(logger hclog.Logger) (backend.Registrar, backend.Recovery, error) {
	const op = "config.(Config).buildBackend"
	b := c.Backend
	if b.URL == "" {
		opts := []backend.Option{backend.WithLogger(logger)}
		s := b.Simulated
		if s.RecoveryLatency != nil || s.RegistrationLatency != nil {
			recovery, registration := backend.DefaultRecoveryLatency, backend.DefaultRegistrationLatency
			if s.RecoveryLatency != nil {
				recovery = *s.RecoveryLatency
			}
			if s.RegistrationLatency != nil {
				registration = *s.RegistrationLatency
			}
			opts = append(opts, backend.WithLatency(recovery, registration))
		}
		if s.ExpectedCode != "" {
			opts = append(opts, backend.WithExpectedCode(s.ExpectedCode))
		}
		sim, err := backend.NewSimulated(opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		return sim, sim, nil
	}

	hc, err := cphttp.NewClient(b.CACert, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	opts := []backend.Option{backend.WithLogger(logger), backend.WithHTTPClient(hc)}
	if b.RetryMax != nil {
		opts = append(opts, backend.WithRetry(*b.RetryMax, backend.DefaultRetryWait))
	}
	client, err := backend.NewHTTPClient(b.URL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return client, client, nil
}
