// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package validate

import "strings"

// Login validates a sign-in form.  Blank credentials are reported before the
// email grammar, which is reported before the password length.  email is
// expected to be trimmed already.
func Login(email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return newError(FieldCredentials, ErrRequired)
	}
	if err := Email(email); err != nil {
		return err
	}
	return Password(password)
}

// Registration validates a sign-up form, stopping at the first failure in
// the order name, email, phone, password, confirmation.
func Registration(name, email, phone, password, confirm string) error {
	if err := FullName(name); err != nil {
		return err
	}
	if err := RecoveryEmail(email); err != nil {
		return err
	}
	if err := Phone(phone); err != nil {
		return err
	}
	return NewPassword(password, confirm)
}

// RecoveryEmail validates the address a recovery code is sent to.
func RecoveryEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return newError(FieldEmail, ErrRequired)
	}
	return Email(email)
}

// NewPassword validates a password and its confirmation.  The length check
// is always reported before a mismatch.
func NewPassword(password, confirm string) error {
	if err := Password(password); err != nil {
		return err
	}
	return ConfirmPassword(password, confirm)
}
