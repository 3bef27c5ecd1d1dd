// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/medinotify/authflow/backend"
	"github.com/medinotify/authflow/i18n"
	"github.com/medinotify/authflow/identity"
	"github.com/medinotify/authflow/sdk/id"
)

// runner makes a controller's remote calls: each gets an attempt id and is
// bounded by the timeout.
type runner struct {
	logger  hclog.Logger
	printer *i18n.Printer
	timeout time.Duration
}

func newRunner(name string, opt ...Option) (runner, error) {
	const op = "flow.newRunner"
	opts := getControllerOpts(opt...)
	if opts.withTimeout < 0 {
		return runner{}, fmt.Errorf("%s: negative timeout: %w", op, ErrInvalidParameter)
	}
	return runner{
		logger:  opts.withLogger.Named(name),
		printer: opts.withPrinter,
		timeout: opts.withTimeout,
	}, nil
}

func (r runner) call(ctx context.Context, action string, fn func(context.Context) error) error {
	attemptID, err := id.New(id.AttemptPrefix)
	if err != nil {
		r.logger.Error("unable to create attempt id", "action", action, "error", err)
		return err
	}
	ctx = id.WithAttempt(ctx, attemptID)
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	r.logger.Debug("calling", "action", action, "attempt_id", attemptID)
	if err := fn(ctx); err != nil {
		r.logger.Warn("call failed", "action", action, "attempt_id", attemptID, "error", err)
		return err
	}
	r.logger.Debug("call succeeded", "action", action, "attempt_id", attemptID)
	return nil
}

// remoteMessage renders a backend failure for the user.
func (r runner) remoteMessage(err error) string {
	var remote *backend.RemoteError
	switch {
	case errors.Is(err, backend.ErrInvalidCode):
		return r.printer.Text(i18n.CodeInvalid)
	case backend.IsUnavailable(err) || identity.IsNetwork(err):
		return r.printer.Text(i18n.NetworkUnreachable)
	case errors.As(err, &remote) && remote.Message != "":
		return remote.Message
	default:
		return r.printer.Text(i18n.RequestFailed)
	}
}
