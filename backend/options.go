// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package backend

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/jonboulle/clockwork"
)

const (
	// DefaultRecoveryLatency is how long each simulated recovery call takes
	DefaultRecoveryLatency = 300 * time.Millisecond

	// DefaultRegistrationLatency is how long a simulated registration takes
	DefaultRegistrationLatency = 600 * time.Millisecond

	// DefaultRetryMax is the number of retries HTTPClient makes
	DefaultRetryMax = 3

	// DefaultRetryWait is the minimum wait between HTTPClient attempts
	DefaultRetryWait = time.Second
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

type simulatedOptions struct {
	withLogger              hclog.Logger
	withClock               clockwork.Clock
	withRecoveryLatency     time.Duration
	withRegistrationLatency time.Duration
	withExpectedCode        string
}

func simulatedDefaults() simulatedOptions {
	return simulatedOptions{
		withLogger:              hclog.NewNullLogger(),
		withClock:               clockwork.NewRealClock(),
		withRecoveryLatency:     DefaultRecoveryLatency,
		withRegistrationLatency: DefaultRegistrationLatency,
	}
}

func getSimulatedOpts(opt ...Option) simulatedOptions {
	opts := simulatedDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

type httpOptions struct {
	withLogger     hclog.Logger
	withHTTPClient *http.Client
	withRetryMax   int
	withRetryWait  time.Duration
}

func httpDefaults() httpOptions {
	return httpOptions{
		withLogger:    hclog.NewNullLogger(),
		withRetryMax:  DefaultRetryMax,
		withRetryWait: DefaultRetryWait,
	}
}

func getHTTPOpts(opt ...Option) httpOptions {
	opts := httpDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithLogger provides an optional logger.
//
// Valid for: Simulated and HTTPClient
func WithLogger(l hclog.Logger) Option {
	return func(o interface{}) {
		if l == nil {
			return
		}
		switch v := o.(type) {
		case *simulatedOptions:
			v.withLogger = l
		case *httpOptions:
			v.withLogger = l
		}
	}
}

// WithClock provides the clock used to wait out simulated latency.
//
// Valid for: Simulated
func WithClock(c clockwork.Clock) Option {
	return func(o interface{}) {
		if o, ok := o.(*simulatedOptions); ok && c != nil {
			o.withClock = c
		}
	}
}

// WithLatency overrides the simulated latency of recovery and registration
// calls.
//
// Valid for: Simulated
func WithLatency(recovery, registration time.Duration) Option {
	return func(o interface{}) {
		if o, ok := o.(*simulatedOptions); ok {
			o.withRecoveryLatency = recovery
			o.withRegistrationLatency = registration
		}
	}
}

// WithExpectedCode makes ConfirmCode reject every code but c.  By default
// every code is accepted.
//
// Valid for: Simulated
func WithExpectedCode(c string) Option {
	return func(o interface{}) {
		if o, ok := o.(*simulatedOptions); ok {
			o.withExpectedCode = c
		}
	}
}

// WithHTTPClient provides the client used for requests.
//
// Valid for: HTTPClient
func WithHTTPClient(c *http.Client) Option {
	return func(o interface{}) {
		if o, ok := o.(*httpOptions); ok {
			o.withHTTPClient = c
		}
	}
}

// WithRetry configures how many times a failed request is retried and the
// minimum wait between attempts.
//
// Valid for: HTTPClient
func WithRetry(retries int, minWait time.Duration) Option {
	return func(o interface{}) {
		if o, ok := o.(*httpOptions); ok {
			o.withRetryMax = retries
			o.withRetryWait = minWait
		}
	}
}
