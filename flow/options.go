// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package flow

import (
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/medinotify/authflow/i18n"
)

// DefaultTimeout bounds every remote call a controller makes
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

type controllerOptions struct {
	withLogger  hclog.Logger
	withPrinter *i18n.Printer
	withTimeout time.Duration
}

func controllerDefaults() controllerOptions {
	return controllerOptions{
		withLogger:  hclog.NewNullLogger(),
		withTimeout: DefaultTimeout,
	}
}

func getControllerOpts(opt ...Option) controllerOptions {
	opts := controllerDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithLogger provides an optional logger
func WithLogger(l hclog.Logger) Option {
	return func(o interface{}) {
		if o, ok := o.(*controllerOptions); ok && l != nil {
			o.withLogger = l
		}
	}
}

// WithPrinter provides the printer for validation and failure messages.
// Defaults to i18n.DefaultLanguage.
func WithPrinter(p *i18n.Printer) Option {
	return func(o interface{}) {
		if o, ok := o.(*controllerOptions); ok {
			o.withPrinter = p
		}
	}
}

// WithTimeout bounds each remote call.  Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o interface{}) {
		if o, ok := o.(*controllerOptions); ok {
			o.withTimeout = d
		}
	}
}
