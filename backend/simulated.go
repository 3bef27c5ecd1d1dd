// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/jonboulle/clockwork"
)

// Simulated stands in for a real backend: every call waits a fixed latency
// and then succeeds.  No code is delivered anywhere.
type Simulated struct {
	clock               clockwork.Clock
	logger              hclog.Logger
	recoveryLatency     time.Duration
	registrationLatency time.Duration
	expectedCode        string
}

var (
	_ Recovery  = (*Simulated)(nil)
	_ Registrar = (*Simulated)(nil)
)

// NewSimulated creates a Simulated backend.
//
// Supported options: WithLogger, WithClock, WithLatency, WithExpectedCode
func NewSimulated(opt ...Option) (*Simulated, error) {
	const op = "backend.NewSimulated"
	opts := getSimulatedOpts(opt...)
	if opts.withRecoveryLatency < 0 || opts.withRegistrationLatency < 0 {
		return nil, fmt.Errorf("%s: negative latency: %w", op, ErrInvalidParameter)
	}
	return &Simulated{
		clock:               opts.withClock,
		logger:              opts.withLogger.Named("simulated"),
		recoveryLatency:     opts.withRecoveryLatency,
		registrationLatency: opts.withRegistrationLatency,
		expectedCode:        opts.withExpectedCode,
	}, nil
}

// SendCode satisfies Recovery.
func (s *Simulated) SendCode(ctx context.Context, email string) error {
	const op = "backend.(Simulated).SendCode"
	if err := s.wait(ctx, s.recoveryLatency); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Debug("code sent", "email", email)
	return nil
}

// ConfirmCode satisfies Recovery.
func (s *Simulated) ConfirmCode(ctx context.Context, email, code string) error {
	const op = "backend.(Simulated).ConfirmCode"
	if err := s.wait(ctx, s.recoveryLatency); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if s.expectedCode != "" && code != s.expectedCode {
		return fmt.Errorf("%s: %w", op, ErrInvalidCode)
	}
	s.logger.Debug("code confirmed", "email", email)
	return nil
}

// CommitPassword satisfies Recovery.
func (s *Simulated) CommitPassword(ctx context.Context, email, _ string) error {
	const op = "backend.(Simulated).CommitPassword"
	if err := s.wait(ctx, s.recoveryLatency); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Debug("password committed", "email", email)
	return nil
}

// CreateAccount satisfies Registrar.
func (s *Simulated) CreateAccount(ctx context.Context, r Registration) error {
	const op = "backend.(Simulated).CreateAccount"
	if err := s.wait(ctx, s.registrationLatency); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Debug("account created", "email", r.Email)
	return nil
}

func (s *Simulated) wait(ctx context.Context, d time.Duration) error {
	if d == 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return nil
	}
	select {
	case <-s.clock.After(d):
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
	}
}
