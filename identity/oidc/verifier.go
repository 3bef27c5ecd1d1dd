// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package oidc signs users in with an id_token obtained by an external
// sign-in (for example a "Sign in with Google" button).  The token's
// signature, issuer, audience and expiry are verified and its subject
// becomes the user id.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/hashicorp/go-hclog"
	"github.com/jonboulle/clockwork"
	"github.com/medinotify/authflow/identity"
	cphttp "github.com/medinotify/authflow/sdk/http"
)

// Verifier satisfies identity.TokenAuthenticator by verifying id_tokens.
type Verifier struct {
	conf   Config
	client *http.Client
	clock  clockwork.Clock
	logger hclog.Logger

	mu       sync.Mutex
	verifier *oidc.IDTokenVerifier
}

var _ identity.TokenAuthenticator = (*Verifier)(nil)

// NewVerifier creates a Verifier.  With static PublicKeys no network access
// is ever made.  With a JWKSURL keys are fetched from it as tokens arrive.
// Otherwise discovery happens on the first token and is retried on later
// tokens until it succeeds.
//
// Supported options: WithLogger, WithClock, WithHTTPClient
func NewVerifier(conf *Config, opt ...identity.Option) (*Verifier, error) {
	const op = "oidc.NewVerifier"
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	opts := getVerifierOpts(opt...)
	v := &Verifier{
		conf:   *conf,
		client: opts.withHTTPClient,
		clock:  opts.withClock,
		logger: opts.withLogger.Named("oidc"),
	}
	if v.client == nil {
		c, err := cphttp.NewClient(conf.ProviderCA, 0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		v.client = c
	}
	switch {
	case len(conf.PublicKeys) > 0:
		keys, err := parsePublicKeys(conf.PublicKeys)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		v.verifier = oidc.NewVerifier(conf.Issuer, &oidc.StaticKeySet{PublicKeys: keys}, v.oidcConfig())
	case conf.JWKSURL != "":
		// the key set keeps this context for every later key fetch
		keySet := oidc.NewRemoteKeySet(cphttp.ClientContext(context.Background(), v.client), conf.JWKSURL)
		v.verifier = oidc.NewVerifier(conf.Issuer, keySet, v.oidcConfig())
	}
	return v, nil
}

func (v *Verifier) oidcConfig() *oidc.Config {
	return &oidc.Config{
		ClientID:             v.conf.ClientID,
		SupportedSigningAlgs: v.conf.algs(),
		Now:                  v.clock.Now,
	}
}

// AuthenticateToken satisfies identity.TokenAuthenticator.  It returns the
// token's sub claim.
func (v *Verifier) AuthenticateToken(ctx context.Context, token identity.Token) (string, error) {
	const op = "oidc.(Verifier).AuthenticateToken"
	if token.Blank() {
		return "", fmt.Errorf("%s: missing token: %w", op, identity.ErrInvalidParameter)
	}
	verifier, err := v.idTokenVerifier(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	idToken, err := verifier.Verify(cphttp.ClientContext(ctx, v.client), string(token))
	if err != nil {
		var expired *oidc.TokenExpiredError
		if errors.As(err, &expired) {
			v.logger.Debug("expired id_token", "expiry", expired.Expiry)
		}
		return "", fmt.Errorf("%s: invalid id_token: %w", op, err)
	}
	if idToken.Subject == "" {
		return "", fmt.Errorf("%s: id_token has no subject: %w", op, identity.ErrInvalidParameter)
	}
	return idToken.Subject, nil
}

// idTokenVerifier returns the cached verifier, running discovery when
// there is none yet.
func (v *Verifier) idTokenVerifier(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	const op = "oidc.(Verifier).idTokenVerifier"
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.verifier != nil {
		return v.verifier, nil
	}
	provider, err := oidc.NewProvider(cphttp.ClientContext(ctx, v.client), v.conf.Issuer) // makes http req to issuer for discovery
	if err != nil {
		if identity.IsNetwork(err) {
			return nil, fmt.Errorf("%s: discovery: %w: %w", op, identity.ErrNetworkUnreachable, err)
		}
		return nil, fmt.Errorf("%s: discovery: %w", op, err)
	}
	v.logger.Debug("discovered provider", "issuer", v.conf.Issuer)
	v.verifier = provider.Verifier(v.oidcConfig())
	return v.verifier, nil
}
