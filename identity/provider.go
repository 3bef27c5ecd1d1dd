// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package identity

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/medinotify/authflow/i18n"
	"github.com/medinotify/authflow/sdk/id"
)

// Provider is the identity provider contract the sign-in flow depends on.
// Implementations never return transport errors; every failure is already
// mapped into a Failure.
type Provider interface {
	SignIn(ctx context.Context, email, password string) Outcome
	SignInWithToken(ctx context.Context, token Token) Outcome
}

// PasswordAuthenticator checks an email/password pair and returns the user's
// id.  Failures should wrap ErrUnknownAccount, ErrInvalidCredentials or
// ErrNetworkUnreachable when they apply, and a *ProviderError when the
// provider described the failure itself.
type PasswordAuthenticator interface {
	Authenticate(ctx context.Context, email, password string) (userID string, err error)
}

// TokenAuthenticator exchanges an externally obtained token for the user's
// id.
type TokenAuthenticator interface {
	AuthenticateToken(ctx context.Context, token Token) (userID string, err error)
}

// Client is a Provider built from authenticators.
type Client struct {
	password PasswordAuthenticator
	token    TokenAuthenticator
	printer  *i18n.Printer
	logger   hclog.Logger
	timeout  time.Duration
}

var _ Provider = (*Client)(nil)

// NewClient creates a Client.  At least one of WithPasswordAuthenticator or
// WithTokenAuthenticator is required.
//
// Supported options: WithPasswordAuthenticator, WithTokenAuthenticator,
// WithPrinter, WithLogger, WithTimeout
func NewClient(opt ...Option) (*Client, error) {
	const op = "identity.NewClient"
	opts := getClientOpts(opt...)
	if opts.withPassword == nil && opts.withToken == nil {
		return nil, fmt.Errorf("%s: missing authenticator: %w", op, ErrInvalidParameter)
	}
	if opts.withTimeout < 0 {
		return nil, fmt.Errorf("%s: negative timeout: %w", op, ErrInvalidParameter)
	}
	return &Client{
		password: opts.withPassword,
		token:    opts.withToken,
		printer:  opts.withPrinter,
		logger:   opts.withLogger.Named("identity"),
		timeout:  opts.withTimeout,
	}, nil
}

// SignIn authenticates with an email and password.  Failures are bucketed,
// in priority order, as unknown-account, invalid-credentials,
// network-unreachable and unknown.
func (c *Client) SignIn(ctx context.Context, email, password string) Outcome {
	if c.password == nil {
		return c.fail(ctx, "password", c.printer.Text(i18n.SignInFailed), ErrNotConfigured, true)
	}
	ctx, cancel := c.bound(ctx)
	defer cancel()
	userID, err := c.password.Authenticate(ctx, email, password)
	if err != nil {
		return c.fail(ctx, "password", c.printer.Text(i18n.SignInFailed), err, true)
	}
	return c.succeed(ctx, "password", userID)
}

// SignInWithToken authenticates with a token from an external sign-in.  The
// token already vouches for the account, so failures are only bucketed as
// network-unreachable or unknown.
func (c *Client) SignInWithToken(ctx context.Context, token Token) Outcome {
	if c.token == nil {
		return c.fail(ctx, "token", c.printer.Text(i18n.TokenSignInFailed), ErrNotConfigured, false)
	}
	ctx, cancel := c.bound(ctx)
	defer cancel()
	userID, err := c.token.AuthenticateToken(ctx, token)
	if err != nil {
		return c.fail(ctx, "token", c.printer.Text(i18n.TokenSignInFailed), err, false)
	}
	return c.succeed(ctx, "token", userID)
}

func (c *Client) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) succeed(ctx context.Context, method, userID string) Outcome {
	c.logger.Debug("sign-in succeeded", "method", method, "user_id", userID, "attempt_id", id.AttemptFromContext(ctx))
	return Success{UserID: userID}
}

func (c *Client) fail(ctx context.Context, method, fallback string, err error, credentialBuckets bool) Outcome {
	f := Failure{Kind: Classify(err, credentialBuckets)}
	switch f.Kind {
	case KindUnknownAccount:
		f.Message = c.printer.Text(i18n.UnknownAccount)
	case KindInvalidCredentials:
		f.Message = c.printer.Text(i18n.InvalidCredentials)
	case KindNetworkUnreachable:
		f.Message = c.printer.Text(i18n.NetworkUnreachable)
	default:
		f.Message = fallback
		var perr *ProviderError
		if errors.As(err, &perr) && perr.Message != "" {
			f.Message = perr.Message
		}
	}
	c.logger.Warn("sign-in failed", "method", method, "kind", f.Kind.String(), "attempt_id", id.AttemptFromContext(ctx), "error", err)
	return f
}

// Classify buckets an authenticator error.  When credentialBuckets is false
// the unknown-account and invalid-credentials buckets are not considered.
func Classify(err error, credentialBuckets bool) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case credentialBuckets && errors.Is(err, ErrUnknownAccount):
		return KindUnknownAccount
	case credentialBuckets && errors.Is(err, ErrInvalidCredentials):
		return KindInvalidCredentials
	case IsNetwork(err):
		return KindNetworkUnreachable
	default:
		return KindUnknown
	}
}

// IsNetwork reports whether err means the provider could not be reached,
// including a call that ran out of time.
func IsNetwork(err error) bool {
	if errors.Is(err, ErrNetworkUnreachable) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
