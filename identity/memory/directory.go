// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package memory provides an in-process credential directory that satisfies
// identity.PasswordAuthenticator and identity.TokenAuthenticator.  It is
// meant for demos and tests, not for production accounts.
package memory

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/medinotify/authflow/identity"
	"golang.org/x/crypto/argon2"
)

const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 8 * 1024
	argonThreads uint8  = 1
	keyLength    uint32 = 32
	saltLength          = 16
)

type account struct {
	userID string
	salt   []byte
	hash   []byte
}

// Directory holds accounts keyed by lower-cased email and the tokens that
// sign them in.
type Directory struct {
	mu       sync.RWMutex
	accounts map[string]account
	tokens   map[identity.Token]string
}

var (
	_ identity.PasswordAuthenticator = (*Directory)(nil)
	_ identity.TokenAuthenticator    = (*Directory)(nil)
)

// NewDirectory returns an empty Directory
func NewDirectory() *Directory {
	return &Directory{
		accounts: map[string]account{},
		tokens:   map[identity.Token]string{},
	}
}

// AddUser stores an account, replacing any account with the same email.
func (d *Directory) AddUser(email, userID, password string) error {
	const op = "memory.(Directory).AddUser"
	email = normalize(email)
	switch {
	case email == "":
		return fmt.Errorf("%s: missing email: %w", op, identity.ErrInvalidParameter)
	case userID == "":
		return fmt.Errorf("%s: missing user id: %w", op, identity.ErrInvalidParameter)
	}
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("%s: unable to read salt: %w", op, err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.accounts[email] = account{
		userID: userID,
		salt:   salt,
		hash:   derive(password, salt),
	}
	return nil
}

// AddToken registers a token that signs in userID.
func (d *Directory) AddToken(token identity.Token, userID string) error {
	const op = "memory.(Directory).AddToken"
	if token.Blank() || userID == "" {
		return fmt.Errorf("%s: missing token or user id: %w", op, identity.ErrInvalidParameter)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tokens[token] = userID
	return nil
}

// Authenticate satisfies identity.PasswordAuthenticator
func (d *Directory) Authenticate(ctx context.Context, email, password string) (string, error) {
	const op = "memory.(Directory).Authenticate"
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	d.mu.RLock()
	acct, ok := d.accounts[normalize(email)]
	d.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%s: %w", op, identity.ErrUnknownAccount)
	}
	if subtle.ConstantTimeCompare(derive(password, acct.salt), acct.hash) != 1 {
		return "", fmt.Errorf("%s: %w", op, identity.ErrInvalidCredentials)
	}
	return acct.userID, nil
}

// AuthenticateToken satisfies identity.TokenAuthenticator
func (d *Directory) AuthenticateToken(ctx context.Context, token identity.Token) (string, error) {
	const op = "memory.(Directory).AuthenticateToken"
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	d.mu.RLock()
	userID, ok := d.tokens[token]
	d.mu.RUnlock()
	if !ok {
		return "", &identity.ProviderError{Message: "The sign-in token was not recognized."}
	}
	return userID, nil
}

func derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, keyLength)
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
