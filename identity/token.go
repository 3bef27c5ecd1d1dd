// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package identity

import (
	"encoding/json"
	"strings"
)

// Token is an OAuth/OIDC token obtained by the caller from an external
// sign-in (for example the id_token returned by a "continue with Google"
// screen).
type Token string

// RedactedToken is the redacted string or json for a Token
const RedactedToken = "[REDACTED: token]"

// String will redact the token
func (t Token) String() string {
	return RedactedToken
}

// MarshalJSON will redact the token
func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedToken)
}

// Blank reports whether the token is empty or only whitespace.
func (t Token) Blank() bool {
	return strings.TrimSpace(string(t)) == ""
}
