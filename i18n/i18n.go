// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package i18n holds the fixed, user facing messages of the sign-in,
// registration and recovery flows and renders them for a language.
package i18n

import (
	"errors"

	"github.com/medinotify/authflow/validate"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies one message in the catalog.
type Key string

const (
	MissingCredentials Key = "missing_credentials"
	EmailRequired      Key = "email_required"
	EmailInvalid       Key = "email_invalid"
	PasswordTooShort   Key = "password_too_short"
	PasswordMismatch   Key = "password_mismatch"
	PhoneInvalid       Key = "phone_invalid"
	FullNameRequired   Key = "full_name_required"
	CodeIncomplete     Key = "code_incomplete"

	UnknownAccount      Key = "unknown_account"
	InvalidCredentials  Key = "invalid_credentials"
	NetworkUnreachable  Key = "network_unreachable"
	SignInFailed        Key = "sign_in_failed"
	TokenSignInFailed   Key = "token_sign_in_failed"
	TokenMissing        Key = "token_missing"
	TokenSignInCanceled Key = "token_sign_in_canceled"

	CodeInvalid   Key = "code_invalid"
	CodeResent    Key = "code_resent"
	RequestFailed Key = "request_failed"
)

// DefaultLanguage is used when no language is configured
var DefaultLanguage = language.English

var (
	supported = []language.Tag{DefaultLanguage, language.Vietnamese}
	matcher   = language.NewMatcher(supported)
	cat       = newCatalog()
)

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(DefaultLanguage))
	for tag, msgs := range messages {
		for k, m := range msgs {
			// SetString only fails on malformed tags and the tags are constants
			_ = b.SetString(tag, string(k), m)
		}
	}
	return b
}

// Printer renders catalog messages in one language.  A nil *Printer renders
// in DefaultLanguage.
type Printer struct {
	p *message.Printer
}

// NewPrinter returns a Printer for tag, falling back to DefaultLanguage for
// languages without translations.
func NewPrinter(tag language.Tag) *Printer {
	_, idx, _ := matcher.Match(tag)
	return &Printer{p: message.NewPrinter(supported[idx], message.Catalog(cat))}
}

// Languages returns the languages with a translation, DefaultLanguage first.
func Languages() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// Text renders the message for k.
func (p *Printer) Text(k Key, args ...interface{}) string {
	if p == nil {
		p = defaultPrinter
	}
	return p.p.Sprintf(string(k), args...)
}

// Validation renders the message for a validation error returned by the
// validate package.  Errors of any other type render RequestFailed.
func (p *Printer) Validation(err error) string {
	var verr *validate.Error
	if !errors.As(err, &verr) {
		return p.Text(RequestFailed)
	}
	switch verr.Field {
	case validate.FieldCredentials:
		return p.Text(MissingCredentials)
	case validate.FieldEmail:
		if errors.Is(verr.Reason, validate.ErrRequired) {
			return p.Text(EmailRequired)
		}
		return p.Text(EmailInvalid)
	case validate.FieldPassword:
		return p.Text(PasswordTooShort, validate.MinPasswordLength)
	case validate.FieldConfirmPassword:
		return p.Text(PasswordMismatch)
	case validate.FieldPhone:
		return p.Text(PhoneInvalid)
	case validate.FieldName:
		return p.Text(FullNameRequired)
	case validate.FieldCode:
		return p.Text(CodeIncomplete, validate.OTPLength)
	default:
		return p.Text(RequestFailed)
	}
}

var defaultPrinter = NewPrinter(DefaultLanguage)
