// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package backend defines the account registration and password recovery
// operations the flows depend on, with two implementations: Simulated, a
// fixed latency stand-in that always succeeds, and HTTPClient, which calls a
// JSON API.
package backend

import (
	"context"
	"fmt"
)

// Recovery is the password recovery backend.  Implementations must honor
// ctx cancellation.
type Recovery interface {
	// SendCode delivers a verification code to email.
	SendCode(ctx context.Context, email string) error

	// ConfirmCode checks the code that was delivered to email.  A rejected
	// code returns an error wrapping ErrInvalidCode.
	ConfirmCode(ctx context.Context, email, code string) error

	// CommitPassword sets the new password for email.
	CommitPassword(ctx context.Context, email, password string) error
}

// Registrar creates accounts.
type Registrar interface {
	CreateAccount(ctx context.Context, r Registration) error
}

// Registration is a validated sign-up form.
type Registration struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// String redacts the password.
func (r Registration) String() string {
	return fmt.Sprintf("{FullName:%s Email:%s Phone:%s Password:[REDACTED]}", r.FullName, r.Email, r.Phone)
}

// GoString redacts the password.
func (r Registration) GoString() string {
	return r.String()
}
