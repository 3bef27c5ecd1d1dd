// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/medinotify/authflow/sdk/id"
)

const (
	accountsPath         = "/v1/accounts"
	recoveryCodePath     = "/v1/recovery/code"
	recoveryVerifyPath   = "/v1/recovery/verify"
	recoveryPasswordPath = "/v1/recovery/password"

	// IdempotencyKeyHeader carries the attempt id so a retried request is
	// applied once.
	IdempotencyKeyHeader = "Idempotency-Key"

	// invalidCodeError is the error code the API uses for a rejected
	// verification code.
	invalidCodeError = "invalid_code"

	maxErrorBody = 64 * 1024
)

// HTTPClient is a Recovery and Registrar backed by a JSON API.  Failed
// requests are retried with backoff; each request carries the attempt id
// from the context (see sdk/id) as its idempotency key.
type HTTPClient struct {
	baseURL string
	client  *retryablehttp.Client
	logger  hclog.Logger
}

var (
	_ Recovery  = (*HTTPClient)(nil)
	_ Registrar = (*HTTPClient)(nil)
)

// NewHTTPClient creates an HTTPClient for the API at baseURL.
//
// Supported options: WithLogger, WithHTTPClient, WithRetry
func NewHTTPClient(baseURL string, opt ...Option) (*HTTPClient, error) {
	const op = "backend.NewHTTPClient"
	u, err := url.Parse(baseURL)
	switch {
	case baseURL == "":
		return nil, fmt.Errorf("%s: missing base url: %w", op, ErrInvalidParameter)
	case err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "":
		return nil, fmt.Errorf("%s: base url %q is not an http(s) url: %w", op, baseURL, ErrInvalidParameter)
	}
	opts := getHTTPOpts(opt...)
	if opts.withRetryMax < 0 {
		return nil, fmt.Errorf("%s: negative retry count: %w", op, ErrInvalidParameter)
	}
	logger := opts.withLogger.Named("http")

	rc := retryablehttp.NewClient()
	rc.HTTPClient = opts.withHTTPClient
	if rc.HTTPClient == nil {
		rc.HTTPClient = cleanhttp.DefaultPooledClient()
	}
	rc.Logger = retryablehttp.LeveledLogger(logger)
	rc.RetryMax = opts.withRetryMax
	rc.RetryWaitMin = opts.withRetryWait
	if rc.RetryWaitMax < rc.RetryWaitMin {
		rc.RetryWaitMax = rc.RetryWaitMin
	}
	// hand back the last response so its status can be mapped
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  rc,
		logger:  logger,
	}, nil
}

// SendCode satisfies Recovery.
func (c *HTTPClient) SendCode(ctx context.Context, email string) error {
	const op = "backend.(HTTPClient).SendCode"
	if err := c.post(ctx, recoveryCodePath, map[string]string{"email": email}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ConfirmCode satisfies Recovery.
func (c *HTTPClient) ConfirmCode(ctx context.Context, email, code string) error {
	const op = "backend.(HTTPClient).ConfirmCode"
	if err := c.post(ctx, recoveryVerifyPath, map[string]string{"email": email, "code": code}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CommitPassword satisfies Recovery.
func (c *HTTPClient) CommitPassword(ctx context.Context, email, password string) error {
	const op = "backend.(HTTPClient).CommitPassword"
	if err := c.post(ctx, recoveryPasswordPath, map[string]string{"email": email, "password": password}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateAccount satisfies Registrar.
func (c *HTTPClient) CreateAccount(ctx context.Context, r Registration) error {
	const op = "backend.(HTTPClient).CreateAccount"
	if err := c.post(ctx, accountsPath, r); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// errorResponse is the body of a non-2xx response.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *HTTPClient) post(ctx context.Context, path string, body interface{}) error {
	const op = "backend.(HTTPClient).post"
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: unable to encode request: %w", op, err)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("%s: unable to create request: %w", op, err)
	}
	attemptID := id.AttemptFromContext(ctx)
	if attemptID == "" {
		if attemptID, err = id.New(id.AttemptPrefix); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(IdempotencyKeyHeader, attemptID)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "path", path, "attempt_id", attemptID, "error", err)
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	remote := &RemoteError{StatusCode: resp.StatusCode}
	var er errorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err := json.Unmarshal(raw, &er); err == nil {
		remote.Message = er.Message
	}
	c.logger.Warn("request rejected", "path", path, "attempt_id", attemptID, "status", resp.StatusCode, "error", er.Error)

	switch {
	case er.Error == invalidCodeError:
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidCode, remote)
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, remote)
	default:
		return fmt.Errorf("%s: %w", op, remote)
	}
}

// IsUnavailable reports whether err means the backend could not be reached
// or did not answer in time.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, context.DeadlineExceeded)
}
