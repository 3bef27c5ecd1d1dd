// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package id

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-uuid"
)

// AttemptPrefix is the prefix used for ids that identify a single submit of a
// form (a sign-in, a registration, a recovery step).
const AttemptPrefix = "att"

// New generates an ID with an optional prefix.
func New(optionalPrefix string) (string, error) {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "", fmt.Errorf("unable to generate id: %w", err)
	}
	switch {
	case optionalPrefix != "":
		return fmt.Sprintf("%s_%s", optionalPrefix, id), nil
	default:
		return id, nil
	}
}

type attemptKey struct{}

// WithAttempt returns a copy of ctx carrying the attempt id.
func WithAttempt(ctx context.Context, attemptID string) context.Context {
	return context.WithValue(ctx, attemptKey{}, attemptID)
}

// AttemptFromContext returns the attempt id carried by ctx, or "" when there
// is none.
func AttemptFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(attemptKey{}).(string)
	return v
}
