// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// authflow provides the client side of sign-in, sign-up and password
// recovery: form controllers that validate input, call an identity provider
// or recovery backend and report the result as state a UI can render.
//
// The packages are:
//
//	validate      input rules for email, password, phone, name and codes
//	i18n          localized messages shown to the user
//	identity      the identity provider contract with ldap, oidc and memory providers
//	backend       recovery and registration backends (simulated or HTTP)
//	flow          the per-screen controllers
//	coordinator   the screen stack that wires controllers together
//	config        YAML configuration that assembles all of the above
//
// See examples/cli for a terminal front-end.
package authflow
