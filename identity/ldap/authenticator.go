// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package ldap signs users in with their email and password against a
// directory service: a service bind, a search for the entry holding the
// email, then a bind as that entry.
package ldap

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/medinotify/authflow/identity"
)

// conn is the subset of *ldap.Conn used to authenticate.
type conn interface {
	Bind(username, password string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	Close()
}

type dialFunc func(ctx context.Context, rawURL string, conf *Config) (conn, error)

// ldapConn adapts *ldap.Conn to conn.
type ldapConn struct {
	*ldap.Conn
}

func (c ldapConn) Close() {
	c.Conn.Close()
}

// Authenticator satisfies identity.PasswordAuthenticator using a directory
// service.
type Authenticator struct {
	conf   *Config
	dial   dialFunc
	logger hclog.Logger
}

var _ identity.PasswordAuthenticator = (*Authenticator)(nil)

// NewAuthenticator creates an Authenticator from conf.  The following
// defaults are used if no config value is provided for them:
//   - URLs:           see constant DefaultURL
//   - UserAttr:       see constant DefaultUserAttr
//   - RequestTimeout: see constant DefaultRequestTimeout
//
// Supported options: WithLogger
func NewAuthenticator(conf *Config, opt ...identity.Option) (*Authenticator, error) {
	const op = "ldap.NewAuthenticator"
	if conf == nil {
		return nil, fmt.Errorf("%s: missing config: %w", op, identity.ErrNilParameter)
	}
	c := conf.withDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	opts := getConfigOpts(opt...)
	if opts.withDialer == nil {
		opts.withDialer = dialLDAP
	}
	return &Authenticator{
		conf:   c,
		dial:   opts.withDialer,
		logger: opts.withLogger.Named("ldap"),
	}, nil
}

// Authenticate satisfies identity.PasswordAuthenticator.  It returns the
// value of the configured UserIDAttr, or the entry's DN.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (string, error) {
	const op = "ldap.(Authenticator).Authenticate"
	if email == "" {
		return "", fmt.Errorf("%s: missing email: %w", op, identity.ErrInvalidParameter)
	}
	if password == "" {
		// an empty password would be an unauthenticated bind, which many
		// directories accept for any DN
		return "", fmt.Errorf("%s: empty password: %w", op, identity.ErrInvalidCredentials)
	}

	c, err := a.connect(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer c.Close()
	// unblock any in-flight operation when the caller gives up
	stop := context.AfterFunc(ctx, c.Close)
	defer stop()

	entry, err := a.findUser(c, email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, mapServiceError(ctx, err))
	}
	if err := c.Bind(entry.DN, password); err != nil {
		return "", fmt.Errorf("%s: unable to bind user: %w", op, mapError(ctx, err))
	}
	a.logger.Debug("user bound", "dn", entry.DN)

	if a.conf.UserIDAttr != "" {
		if v := entry.GetAttributeValue(a.conf.UserIDAttr); v != "" {
			return v, nil
		}
	}
	return entry.DN, nil
}

// connect tries each configured URL in order and returns the first
// connection that succeeds.
func (a *Authenticator) connect(ctx context.Context) (conn, error) {
	const op = "ldap.(Authenticator).connect"
	var retErr *multierror.Error
	for _, u := range a.conf.URLs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		c, err := a.dial(ctx, u, a.conf)
		if err == nil {
			return c, nil
		}
		a.logger.Debug("unable to connect", "url", u, "error", err)
		retErr = multierror.Append(retErr, fmt.Errorf("error connecting to host %q: %w", u, err))
	}
	return nil, fmt.Errorf("%s: %w: %w", op, identity.ErrNetworkUnreachable, retErr.ErrorOrNil())
}

// findUser binds as the service account (when configured) and searches for
// the single entry holding email.
func (a *Authenticator) findUser(c conn, email string) (*ldap.Entry, error) {
	const op = "ldap.(Authenticator).findUser"
	if a.conf.BindDN != "" {
		if err := c.Bind(a.conf.BindDN, a.conf.BindPassword); err != nil {
			return nil, fmt.Errorf("%s: bind (service) failed: %w", op, err)
		}
	}
	var attrs []string
	if a.conf.UserIDAttr != "" {
		attrs = []string{a.conf.UserIDAttr}
	}
	result, err := c.Search(ldap.NewSearchRequest(
		a.conf.UserDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		2, // two is enough to tell "not unique"
		int(a.conf.RequestTimeout/time.Second),
		false,
		fmt.Sprintf("(%s=%s)", ldap.EscapeFilter(a.conf.UserAttr), ldap.EscapeFilter(email)),
		attrs,
		nil,
	))
	switch {
	case err != nil && !ldap.IsErrorWithCode(err, ldap.LDAPResultSizeLimitExceeded):
		return nil, fmt.Errorf("%s: LDAP search for user failed: %w", op, err)
	case result == nil || len(result.Entries) == 0:
		return nil, fmt.Errorf("%s: %w", op, identity.ErrUnknownAccount)
	case len(result.Entries) > 1 || err != nil:
		return nil, fmt.Errorf("%s: LDAP search for user was not unique: %w", op,
			&identity.ProviderError{Message: "More than one account uses this email."})
	}
	return result.Entries[0], nil
}

// mapServiceError folds errors from the service account's bind and search.
// Only the network bucket applies: a rejected service bind is an operator
// problem and falls to the generic failure.
func mapServiceError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}
	var lerr *ldap.Error
	if errors.As(err, &lerr) && lerr.ResultCode == ldap.ErrorNetwork {
		return fmt.Errorf("%w: %w", identity.ErrNetworkUnreachable, err)
	}
	return err
}

// mapError folds errors from the user's own bind into the identity error
// buckets.
func mapError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}
	var lerr *ldap.Error
	if !errors.As(err, &lerr) {
		return err
	}
	switch lerr.ResultCode {
	case ldap.LDAPResultInvalidCredentials:
		return fmt.Errorf("%w: %w", identity.ErrInvalidCredentials, err)
	case ldap.ErrorNetwork:
		return fmt.Errorf("%w: %w", identity.ErrNetworkUnreachable, err)
	}
	if lerr.Err != nil {
		if msg := lerr.Err.Error(); msg != "" {
			return &identity.ProviderError{Message: msg, Err: err}
		}
	}
	return err
}

// dialLDAP connects to rawURL, upgrading ldap:// with StartTLS when
// configured.
func dialLDAP(ctx context.Context, rawURL string, conf *Config) (conn, error) {
	const op = "ldap.dialLDAP"
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%s: error parsing url %q: %w", op, rawURL, identity.ErrInvalidParameter)
	}
	host, _, err := net.SplitHostPort(u.Host)
	if err != nil {
		host = u.Host
	}
	timeout := conf.RequestTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	dialer := &net.Dialer{Timeout: timeout}

	var c *ldap.Conn
	switch u.Scheme {
	case schemeLDAP:
		c, err = ldap.DialURL(rawURL, ldap.DialWithDialer(dialer))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if conf.StartTLS {
			tlsConfig, err := getTLSConfig(host, conf)
			if err != nil {
				c.Close()
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			if err := c.StartTLS(tlsConfig); err != nil {
				c.Close()
				return nil, fmt.Errorf("%s: start tls failed: %w", op, err)
			}
		}
	case schemeLDAPTLS:
		tlsConfig, err := getTLSConfig(host, conf)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		c, err = ldap.DialURL(rawURL, ldap.DialWithDialer(dialer), ldap.DialWithTLSConfig(tlsConfig))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	default:
		return nil, fmt.Errorf("%s: invalid LDAP scheme in url %q: %w", op, rawURL, identity.ErrInvalidParameter)
	}
	c.SetTimeout(timeout)
	return ldapConn{c}, nil
}

func getTLSConfig(host string, conf *Config) (*tls.Config, error) {
	const op = "ldap.getTLSConfig"
	if host == "" {
		return nil, fmt.Errorf("%s: missing host: %w", op, identity.ErrInvalidParameter)
	}
	tlsConfig := &tls.Config{
		ServerName:         host,
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: conf.InsecureTLS, //nolint:gosec
	}
	if conf.Certificate != "" {
		caPool := x509.NewCertPool()
		if ok := caPool.AppendCertsFromPEM([]byte(conf.Certificate)); !ok {
			return nil, fmt.Errorf("%s: could not append CA certificate: %w", op, identity.ErrInvalidParameter)
		}
		tlsConfig.RootCAs = caPool
	}
	return tlsConfig, nil
}
