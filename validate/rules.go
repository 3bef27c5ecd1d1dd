// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	// OTPLength is the fixed number of digits in a verification code
	OTPLength = 6

	// MinPasswordLength is the minimum number of characters in a password
	MinPasswordLength = 6

	// MinNameLength is the minimum number of characters in a trimmed full name
	MinNameLength = 3

	// MinPhoneDigits and MaxPhoneDigits bound the digit count of a phone number
	MinPhoneDigits = 9
	MaxPhoneDigits = 11
)

var v = validator.New()

// Email returns an error unless email is a well formed address whose domain
// contains at least one interior dot.
func Email(email string) error {
	if err := v.Var(email, "required,email"); err != nil {
		return newError(FieldEmail, ErrFormatInvalid)
	}
	at := strings.LastIndexByte(email, '@')
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return newError(FieldEmail, ErrFormatInvalid)
	}
	return nil
}

// Password returns an error if password has fewer than MinPasswordLength
// characters.
func Password(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return newError(FieldPassword, ErrTooShort)
	}
	return nil
}

// ConfirmPassword returns an error if confirm differs from password.
func ConfirmPassword(password, confirm string) error {
	if password != confirm {
		return newError(FieldConfirmPassword, ErrMismatch)
	}
	return nil
}

// NormalizePhone strips every non-digit character from phone.
func NormalizePhone(phone string) string {
	return digitsOnly(phone, -1)
}

// Phone returns an error unless the normalized phone has between
// MinPhoneDigits and MaxPhoneDigits digits.
func Phone(phone string) error {
	n := len(NormalizePhone(phone))
	if n < MinPhoneDigits || n > MaxPhoneDigits {
		return newError(FieldPhone, ErrInvalidLength)
	}
	return nil
}

// FullName requires at least MinNameLength characters once trimmed and some
// interior whitespace, which stands in for "first and last name present".
func FullName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len([]rune(trimmed)) < MinNameLength {
		return newError(FieldName, ErrTooShort)
	}
	if strings.IndexFunc(trimmed, unicode.IsSpace) < 0 {
		return newError(FieldName, ErrMissingSpace)
	}
	return nil
}

// SanitizeOTP keeps only the digits of input and truncates them to
// OTPLength.
func SanitizeOTP(input string) string {
	return digitsOnly(input, OTPLength)
}

// OTP returns an error unless code has exactly OTPLength digits.
func OTP(code string) error {
	if len(code) != OTPLength || len(digitsOnly(code, -1)) != OTPLength {
		return newError(FieldCode, ErrIncomplete)
	}
	return nil
}

// digitsOnly returns the ASCII digits of s, at most limit of them when limit is
// not negative.
func digitsOnly(s string, limit int) string {
	var b strings.Builder
	for _, r := range s {
		if limit >= 0 && b.Len() >= limit {
			break
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
