// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/jonboulle/clockwork"
	"github.com/medinotify/authflow/identity"
)

type verifierOptions struct {
	withLogger     hclog.Logger
	withClock      clockwork.Clock
	withHTTPClient *http.Client
}

func verifierDefaults() verifierOptions {
	return verifierOptions{
		withLogger: hclog.NewNullLogger(),
		withClock:  clockwork.NewRealClock(),
	}
}

func getVerifierOpts(opt ...identity.Option) verifierOptions {
	opts := verifierDefaults()
	identity.ApplyOpts(&opts, opt...)
	return opts
}

// WithLogger provides an optional logger
func WithLogger(l hclog.Logger) identity.Option {
	return func(o interface{}) {
		if o, ok := o.(*verifierOptions); ok && l != nil {
			o.withLogger = l
		}
	}
}

// WithClock provides the clock used to check token expiry
func WithClock(c clockwork.Clock) identity.Option {
	return func(o interface{}) {
		if o, ok := o.(*verifierOptions); ok && c != nil {
			o.withClock = c
		}
	}
}

// WithHTTPClient provides the client used for discovery and key fetches.
// It takes precedence over Config.ProviderCA.
func WithHTTPClient(c *http.Client) identity.Option {
	return func(o interface{}) {
		if o, ok := o.(*verifierOptions); ok {
			o.withHTTPClient = c
		}
	}
}
