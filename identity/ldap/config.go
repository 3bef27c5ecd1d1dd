// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package ldap

import (
	"crypto/x509"
	"fmt"
	"net/url"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/medinotify/authflow/identity"
)

const (
	schemeLDAP    = "ldap"
	schemeLDAPTLS = "ldaps"

	// DefaultURL is used when no URLs are configured
	DefaultURL = "ldaps://127.0.0.1:636"

	// DefaultUserAttr is the attribute matched against the user's email
	DefaultUserAttr = "mail"

	// DefaultRequestTimeout bounds dialing and each directory operation
	DefaultRequestTimeout = 10 * time.Second
)

// Config describes how to find and bind users in a directory service.
type Config struct {
	// URLs are tried in order until one connects.
	URLs []string `yaml:"urls"`

	// BindDN and BindPassword are the service account used to search for
	// the user.  Both empty means the search runs anonymously.
	BindDN       string `yaml:"bind_dn"`
	BindPassword string `yaml:"bind_password"`

	// UserDN is the search base for users.
	UserDN string `yaml:"user_dn"`

	// UserAttr is the attribute that holds the user's email.
	UserAttr string `yaml:"user_attr"`

	// UserIDAttr is the attribute returned as the user id.  Empty means the
	// user's DN is the id.
	UserIDAttr string `yaml:"user_id_attr"`

	// StartTLS upgrades ldap:// connections.
	StartTLS bool `yaml:"start_tls"`

	// InsecureTLS skips server certificate verification.
	InsecureTLS bool `yaml:"insecure_tls"`

	// Certificate is an optional PEM CA used to verify the server.
	Certificate string `yaml:"certificate"`

	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// withDefaults returns a copy of the config with defaults filled in.
func (c *Config) withDefaults() *Config {
	cp := *c
	cp.URLs = append([]string(nil), c.URLs...)
	if len(cp.URLs) == 0 {
		cp.URLs = []string{DefaultURL}
	}
	if cp.UserAttr == "" {
		cp.UserAttr = DefaultUserAttr
	}
	if cp.RequestTimeout == 0 {
		cp.RequestTimeout = DefaultRequestTimeout
	}
	return &cp
}

// Validate the config, reporting every problem found.
func (c *Config) Validate() error {
	const op = "ldap.(Config).Validate"
	if c == nil {
		return fmt.Errorf("%s: missing config: %w", op, identity.ErrNilParameter)
	}
	var retErr *multierror.Error
	for _, u := range c.URLs {
		parsed, err := url.Parse(u)
		if err != nil {
			retErr = multierror.Append(retErr, fmt.Errorf("%s: error parsing url %q: %w", op, u, identity.ErrInvalidParameter))
			continue
		}
		if parsed.Scheme != schemeLDAP && parsed.Scheme != schemeLDAPTLS {
			retErr = multierror.Append(retErr, fmt.Errorf("%s: invalid LDAP scheme in url %q: %w", op, u, identity.ErrInvalidParameter))
		}
	}
	if c.UserDN == "" {
		retErr = multierror.Append(retErr, fmt.Errorf("%s: missing user dn: %w", op, identity.ErrInvalidParameter))
	}
	if (c.BindDN == "") != (c.BindPassword == "") {
		retErr = multierror.Append(retErr, fmt.Errorf("%s: bind dn and bind password must be set together: %w", op, identity.ErrInvalidParameter))
	}
	if c.Certificate != "" {
		if ok := x509.NewCertPool().AppendCertsFromPEM([]byte(c.Certificate)); !ok {
			retErr = multierror.Append(retErr, fmt.Errorf("%s: invalid certificate: %w", op, identity.ErrInvalidParameter))
		}
	}
	if c.RequestTimeout < 0 {
		retErr = multierror.Append(retErr, fmt.Errorf("%s: negative request timeout: %w", op, identity.ErrInvalidParameter))
	}
	return retErr.ErrorOrNil()
}
