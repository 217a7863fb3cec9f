// Package api is the typed boundary to the remote queue service. The client
// owns status-code normalization, bounded retry for idempotent reads, and the
// credential-expiry side effect; it holds no queue state of its own.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 10 * time.Second

// TokenSource supplies the bearer credential attached to privileged calls.
// Clear is invoked when the server reports the credential expired.
type TokenSource interface {
	Token() (string, bool)
	Clear()
}

// Policy bounds retries for a call. Sleep before attempt n (0-based) is
// Delay * n, so the first retry waits Delay, the second 2*Delay, and so on.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultReadPolicy is applied to idempotent reads. Mutating calls get no
// retry unless the caller opts in with WithRetry.
var DefaultReadPolicy = Policy{Attempts: 3, Delay: time.Second}

var noRetry = Policy{Attempts: 1}

// Client talks to the queue service. Safe for concurrent use.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	tokens        TokenSource
	readPolicy    Policy
	onAuthExpired func()
	logger        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokens sets the bearer credential source for privileged endpoints.
func WithTokens(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithReadPolicy overrides the retry policy applied to idempotent reads.
func WithReadPolicy(p Policy) Option {
	return func(c *Client) { c.readPolicy = p }
}

// WithAuthExpiredHook registers the redirect-to-login side effect fired after
// the stored credential is cleared on a 401.
func WithAuthExpiredHook(fn func()) Option {
	return func(c *Client) { c.onAuthExpired = fn }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a queue service client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		readPolicy: DefaultReadPolicy,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CallOption adjusts a single call.
type CallOption func(*Policy)

// WithRetry opts a single call into the given retry policy. This is the only
// way a mutating call (enqueue, dequeue, remove, clear) gets retried: those
// are not idempotent and a blind replay can double a side effect.
func WithRetry(p Policy) CallOption {
	return func(dst *Policy) { *dst = p }
}

// call runs one request with the given policy, sleeping Delay*(attempt+1)
// between retryable failures.
func (c *Client) call(ctx context.Context, method, path string, body, out any, auth bool, policy Policy) error {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < policy.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(policy.Delay * time.Duration(attempt)):
			case <-ctx.Done():
				return newNetworkError(ctx.Err())
			}
		}
		lastErr = c.once(ctx, method, path, body, out, auth)
		if lastErr == nil || !retryable(lastErr) {
			return lastErr
		}
		c.logger.Warn("queue api retrying", "method", method, "path", path, "attempt", attempt+1, "error", lastErr)
	}
	return lastErr
}

func (c *Client) once(ctx context.Context, method, path string, body, out any, auth bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: ErrValidation, Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return newNetworkError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if auth && c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return newNetworkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return newNetworkError(err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Interceptor side effect: drop the stale credential, then let the
		// caller's hook route the user back to login.
		if c.tokens != nil {
			c.tokens.Clear()
		}
		if c.onAuthExpired != nil {
			c.onAuthExpired()
		}
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			env = envelope{}
		}
	}

	if resp.StatusCode >= 400 {
		msg := env.Message
		if msg == "" {
			msg = env.Err
		}
		return newStatusError(resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{Kind: ErrServer, Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
		}
		return nil
	}
	// /health responds without the envelope.
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: ErrServer, Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}
