// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oidc

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net/url"

	"github.com/hashicorp/go-multierror"
	"github.com/medinotify/authflow/identity"
)

// Alg is a JWS signing algorithm
type Alg string

const (
	RS256 Alg = "RS256"
	RS384 Alg = "RS384"
	RS512 Alg = "RS512"
	ES256 Alg = "ES256"
	ES384 Alg = "ES384"
	ES512 Alg = "ES512"
	PS256 Alg = "PS256"
	PS384 Alg = "PS384"
	PS512 Alg = "PS512"
	EdDSA Alg = "EdDSA"
)

var supportedAlgorithms = map[Alg]bool{
	RS256: true,
	RS384: true,
	RS512: true,
	ES256: true,
	ES384: true,
	ES512: true,
	PS256: true,
	PS384: true,
	PS512: true,
	EdDSA: true,
}

// Config describes which id_tokens are accepted.
type Config struct {
	// Issuer is the provider's issuer URL.  It must match the iss claim.
	Issuer string `yaml:"issuer"`

	// ClientID is this application's client id.  It must be in the aud
	// claim.
	ClientID string `yaml:"client_id"`

	// SupportedSigningAlgs defaults to RS256 when empty.
	SupportedSigningAlgs []Alg `yaml:"supported_signing_algs"`

	// PublicKeys are optional PEM encoded keys used to verify signatures.
	PublicKeys []string `yaml:"public_keys"`

	// JWKSURL is an optional JSON Web Key Set endpoint used instead of
	// discovery.  It cannot be combined with PublicKeys.  When neither is
	// set, keys are found with OIDC discovery on Issuer.
	JWKSURL string `yaml:"jwks_url"`

	// ProviderCA is an optional PEM CA used for discovery and key fetches.
	ProviderCA string `yaml:"provider_ca"`
}

// Validate the config, reporting every problem found.
func (c *Config) Validate() error {
	const op = "oidc.(Config).Validate"
	if c == nil {
		return fmt.Errorf("%s: missing config: %w", op, identity.ErrNilParameter)
	}
	var retErr *multierror.Error
	if c.Issuer == "" {
		retErr = multierror.Append(retErr, fmt.Errorf("%s: missing issuer: %w", op, identity.ErrInvalidParameter))
	} else if u, err := url.Parse(c.Issuer); err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		retErr = multierror.Append(retErr, fmt.Errorf("%s: issuer %q is not a URL: %w", op, c.Issuer, identity.ErrInvalidParameter))
	}
	if c.ClientID == "" {
		retErr = multierror.Append(retErr, fmt.Errorf("%s: missing client id: %w", op, identity.ErrInvalidParameter))
	}
	for _, a := range c.SupportedSigningAlgs {
		if !supportedAlgorithms[a] {
			retErr = multierror.Append(retErr, fmt.Errorf("%s: unsupported signing algorithm %q: %w", op, a, identity.ErrInvalidParameter))
		}
	}
	if c.JWKSURL != "" {
		if len(c.PublicKeys) > 0 {
			retErr = multierror.Append(retErr, fmt.Errorf("%s: jwks url and public keys are mutually exclusive: %w", op, identity.ErrInvalidParameter))
		}
		if u, err := url.Parse(c.JWKSURL); err != nil || (u.Scheme != "https" && u.Scheme != "http") {
			retErr = multierror.Append(retErr, fmt.Errorf("%s: jwks url %q is not a URL: %w", op, c.JWKSURL, identity.ErrInvalidParameter))
		}
	}
	if _, err := parsePublicKeys(c.PublicKeys); err != nil {
		retErr = multierror.Append(retErr, fmt.Errorf("%s: %w", op, err))
	}
	if c.ProviderCA != "" {
		if ok := x509.NewCertPool().AppendCertsFromPEM([]byte(c.ProviderCA)); !ok {
			retErr = multierror.Append(retErr, fmt.Errorf("%s: invalid provider CA: %w", op, identity.ErrInvalidParameter))
		}
	}
	return retErr.ErrorOrNil()
}

func (c *Config) algs() []string {
	if len(c.SupportedSigningAlgs) == 0 {
		return []string{string(RS256)}
	}
	algs := make([]string, 0, len(c.SupportedSigningAlgs))
	for _, a := range c.SupportedSigningAlgs {
		algs = append(algs, string(a))
	}
	return algs
}

// parsePublicKeys parses PEM encoded public keys or certificates.
func parsePublicKeys(pems []string) ([]crypto.PublicKey, error) {
	const op = "oidc.parsePublicKeys"
	keys := make([]crypto.PublicKey, 0, len(pems))
	for i, p := range pems {
		block, _ := pem.Decode([]byte(p))
		if block == nil {
			return nil, fmt.Errorf("%s: public key %d is not PEM: %w", op, i, identity.ErrInvalidParameter)
		}
		switch block.Type {
		case "CERTIFICATE":
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("%s: certificate %d: %w", op, i, identity.ErrInvalidParameter)
			}
			keys = append(keys, cert.PublicKey)
		default:
			key, err := x509.ParsePKIXPublicKey(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("%s: public key %d: %w", op, i, identity.ErrInvalidParameter)
			}
			keys = append(keys, key)
		}
	}
	return keys, nil
}
