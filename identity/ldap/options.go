// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package ldap

import (
	"github.com/hashicorp/go-hclog"
	"github.com/medinotify/authflow/identity"
)

type configOptions struct {
	withLogger hclog.Logger
	withDialer dialFunc
}

func configDefaults() configOptions {
	return configOptions{
		withLogger: hclog.NewNullLogger(),
	}
}

func getConfigOpts(opt ...identity.Option) configOptions {
	opts := configDefaults()
	identity.ApplyOpts(&opts, opt...)
	return opts
}

// WithLogger provides an optional logger
func WithLogger(l hclog.Logger) identity.Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok && l != nil {
			o.withLogger = l
		}
	}
}

func withDialer(d dialFunc) identity.Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withDialer = d
		}
	}
}
