// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		email   string
		wantErr bool
	}{
		{email: "a@b.co"},
		{email: "x@y.com"},
		{email: "first.last@sub.example.org"},
		{email: "", wantErr: true},
		{email: "plainaddress", wantErr: true},
		{email: "missing-at.example.com", wantErr: true},
		{email: "a@b", wantErr: true},
		{email: "@b.co", wantErr: true},
		{email: "a@.co", wantErr: true},
		{email: "a@b.co.", wantErr: true},
		{email: "a b@c.com", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.email, func(t *testing.T) {
			t.Parallel()
			assert, require := assert.New(t), require.New(t)
			err := Email(tt.email)
			if !tt.wantErr {
				require.NoError(err)
				return
			}
			require.ErrorIs(err, ErrFormatInvalid)
			var verr *Error
			require.ErrorAs(err, &verr)
			assert.Equal(FieldEmail, verr.Field)
		})
	}
}

func TestPassword(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	assert.ErrorIs(Password(""), ErrTooShort)
	assert.ErrorIs(Password("12345"), ErrTooShort)
	assert.NoError(Password("123456"))
	assert.NoError(Password("mật khẩu"))
}

func TestConfirmPassword(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	assert.NoError(ConfirmPassword("secret1", "secret1"))
	assert.ErrorIs(ConfirmPassword("secret1", "secret2"), ErrMismatch)
	assert.ErrorIs(ConfirmPassword("secret1", ""), ErrMismatch)
}

func TestPhone(t *testing.T) {
	t.Parallel()
	tests := []struct {
		phone   string
		want    string
		wantErr bool
	}{
		{phone: "0912345678", want: "0912345678"},
		{phone: "+84 912-345-678", want: "84912345678"},
		{phone: "(091) 234 567", want: "091234567"},
		{phone: "12345678", want: "12345678", wantErr: true},
		{phone: "123456789012", want: "123456789012", wantErr: true},
		{phone: "phone", want: "", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.phone, func(t *testing.T) {
			t.Parallel()
			assert := assert.New(t)
			assert.Equal(tt.want, NormalizePhone(tt.phone))
			err := Phone(tt.phone)
			if tt.wantErr {
				assert.ErrorIs(err, ErrInvalidLength)
				return
			}
			assert.NoError(err)
		})
	}
}

func TestFullName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		wantIsErr error
	}{
		{name: "Nguyen An"},
		{name: "  Ada Lovelace  "},
		{name: "", wantIsErr: ErrTooShort},
		{name: "  Al ", wantIsErr: ErrTooShort},
		{name: "Alice", wantIsErr: ErrMissingSpace},
		{name: "   Bob   ", wantIsErr: ErrMissingSpace},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := FullName(tt.name)
			if tt.wantIsErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantIsErr)
		})
	}
}

func TestSanitizeOTP(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: ""},
		{input: "12", want: "12"},
		{input: "123456", want: "123456"},
		{input: "1234567890", want: "123456"},
		{input: "1a2b3c", want: "123"},
		{input: " 12-34 56 78", want: "123456"},
		{input: "١٢٣", want: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SanitizeOTP(tt.input))
		})
	}
}

func TestSanitizeOTP_Property(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"", "abc", "0000000000", "x1y2z3w4v5u6t7", "💥12💥34💥", strings.Repeat("9", 100), "\t\n1",
	}
	for _, in := range inputs {
		got := SanitizeOTP(in)
		assert.LessOrEqual(t, len(got), OTPLength)
		for _, r := range got {
			assert.True(t, unicode.IsDigit(r), "non digit %q in %q", r, got)
		}
	}
}

func TestOTP(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	assert.NoError(OTP("123456"))
	assert.ErrorIs(OTP(""), ErrIncomplete)
	assert.ErrorIs(OTP("12345"), ErrIncomplete)
	assert.ErrorIs(OTP("1234567"), ErrIncomplete)
	assert.ErrorIs(OTP("12345a"), ErrIncomplete)
}

func TestError(t *testing.T) {
	t.Parallel()
	err := newError(FieldPhone, ErrInvalidLength)
	assert.Equal(t, "phone: invalid length", err.Error())
}
