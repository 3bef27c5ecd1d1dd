// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package coordinator

import (
	"github.com/hashicorp/go-hclog"
	"github.com/medinotify/authflow/flow"
)

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

type coordinatorOptions struct {
	withLogger      hclog.Logger
	withFlowOptions []flow.Option
	withSkipSplash  bool
}

func coordinatorDefaults() coordinatorOptions {
	return coordinatorOptions{
		withLogger: hclog.NewNullLogger(),
	}
}

func getCoordinatorOpts(opt ...Option) coordinatorOptions {
	opts := coordinatorDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithLogger provides an optional logger.  Controllers get named sub
// loggers unless WithFlowOptions provides one.
func WithLogger(l hclog.Logger) Option {
	return func(o interface{}) {
		if o, ok := o.(*coordinatorOptions); ok && l != nil {
			o.withLogger = l
		}
	}
}

// WithFlowOptions provides the options every controller is created with.
func WithFlowOptions(opt ...flow.Option) Option {
	return func(o interface{}) {
		if o, ok := o.(*coordinatorOptions); ok {
			o.withFlowOptions = append(o.withFlowOptions, opt...)
		}
	}
}

// WithSkipSplash starts on the login screen instead of the splash screen.
func WithSkipSplash(skip bool) Option {
	return func(o interface{}) {
		if o, ok := o.(*coordinatorOptions); ok {
			o.withSkipSplash = skip
		}
	}
}
