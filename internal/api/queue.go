package api

import (
	"context"
	"net/http"
	"net/url"
)

// Enqueue books a new appointment. Not retried by default: a replay after an
// ambiguous timeout could double-book, so callers must opt in with WithRetry.
func (c *Client) Enqueue(ctx context.Context, input EnqueueInput, opts ...CallOption) (*EnqueueResult, error) {
	if err := input.Validate(); err != nil {
		return nil, &Error{Kind: ErrValidation, Message: err.Error()}
	}
	policy := noRetry
	for _, opt := range opts {
		opt(&policy)
	}
	var out EnqueueResult
	if err := c.call(ctx, http.MethodPost, "/queue/enqueue", input, &out, false, policy); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListQueue returns the current queue snapshot in serving order. Idempotent,
// retried with the client's read policy.
func (c *Client) ListQueue(ctx context.Context, opts ...CallOption) (*QueueSnapshot, error) {
	policy := c.readPolicy
	for _, opt := range opts {
		opt(&policy)
	}
	var out QueueSnapshot
	if err := c.call(ctx, http.MethodGet, "/queue", nil, &out, false, policy); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEntry looks up one entry by certificate number.
func (c *Client) GetEntry(ctx context.Context, certNo string, opts ...CallOption) (*QueueEntry, error) {
	policy := c.readPolicy
	for _, opt := range opts {
		opt(&policy)
	}
	var out QueueEntry
	if err := c.call(ctx, http.MethodGet, "/queue/entry/"+url.PathEscape(certNo), nil, &out, false, policy); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetStats returns aggregate queue statistics.
func (c *Client) GetStats(ctx context.Context, opts ...CallOption) (*QueueStatistics, error) {
	policy := c.readPolicy
	for _, opt := range opts {
		opt(&policy)
	}
	var out QueueStatistics
	if err := c.call(ctx, http.MethodGet, "/queue/stats", nil, &out, false, policy); err != nil {
		return nil, err
	}
	return &out, nil
}

// Dequeue serves the head of the queue. Privileged and not idempotent: never
// retried unless the caller explicitly opts in.
func (c *Client) Dequeue(ctx context.Context, opts ...CallOption) (*DequeueResult, error) {
	policy := noRetry
	for _, opt := range opts {
		opt(&policy)
	}
	var out DequeueResult
	if err := c.call(ctx, http.MethodPost, "/queue/dequeue", nil, &out, true, policy); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveEntry cancels one entry by certificate number. Self-service or admin;
// the bearer token is attached when present.
func (c *Client) RemoveEntry(ctx context.Context, certNo string, opts ...CallOption) (*RemoveResult, error) {
	policy := noRetry
	for _, opt := range opts {
		opt(&policy)
	}
	var out RemoveResult
	if err := c.call(ctx, http.MethodDelete, "/queue/entry/"+url.PathEscape(certNo), nil, &out, true, policy); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearQueue drops every entry. Admin only.
func (c *Client) ClearQueue(ctx context.Context, opts ...CallOption) (*ClearResult, error) {
	policy := noRetry
	for _, opt := range opts {
		opt(&policy)
	}
	var out ClearResult
	if err := c.call(ctx, http.MethodPost, "/queue/clear", nil, &out, true, policy); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health probes service liveness.
func (c *Client) Health(ctx context.Context, opts ...CallOption) (*HealthStatus, error) {
	policy := c.readPolicy
	for _, opt := range opts {
		opt(&policy)
	}
	var out HealthStatus
	if err := c.call(ctx, http.MethodGet, "/health", nil, &out, false, policy); err != nil {
		return nil, err
	}
	return &out, nil
}
