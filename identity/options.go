// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package identity

import (
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/medinotify/authflow/i18n"
)

// DefaultTimeout bounds every call to an authenticator
const DefaultTimeout = 30 * time.Second

// Option defines a common functional options type which can be used in a
// variadic parameter pattern.
type Option func(interface{})

// ApplyOpts takes a pointer to the options struct as a set of default options
// and applies the slice of opts as overrides.
func ApplyOpts(opts interface{}, opt ...Option) {
	for _, o := range opt {
		if o == nil { // ignore any nil Options
			continue
		}
		o(opts)
	}
}

type clientOptions struct {
	withPassword PasswordAuthenticator
	withToken    TokenAuthenticator
	withPrinter  *i18n.Printer
	withLogger   hclog.Logger
	withTimeout  time.Duration
}

func clientDefaults() clientOptions {
	return clientOptions{
		withLogger:  hclog.NewNullLogger(),
		withTimeout: DefaultTimeout,
	}
}

func getClientOpts(opt ...Option) clientOptions {
	opts := clientDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithPasswordAuthenticator provides the authenticator used by SignIn
func WithPasswordAuthenticator(a PasswordAuthenticator) Option {
	return func(o interface{}) {
		if o, ok := o.(*clientOptions); ok {
			o.withPassword = a
		}
	}
}

// WithTokenAuthenticator provides the authenticator used by SignInWithToken
func WithTokenAuthenticator(a TokenAuthenticator) Option {
	return func(o interface{}) {
		if o, ok := o.(*clientOptions); ok {
			o.withToken = a
		}
	}
}

// WithPrinter provides the printer for failure messages
func WithPrinter(p *i18n.Printer) Option {
	return func(o interface{}) {
		if o, ok := o.(*clientOptions); ok {
			o.withPrinter = p
		}
	}
}

// WithLogger provides an optional logger
func WithLogger(l hclog.Logger) Option {
	return func(o interface{}) {
		if o, ok := o.(*clientOptions); ok && l != nil {
			o.withLogger = l
		}
	}
}

// WithTimeout bounds each authenticator call.  Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o interface{}) {
		if o, ok := o.(*clientOptions); ok {
			o.withTimeout = d
		}
	}
}
