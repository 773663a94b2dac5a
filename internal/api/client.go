// Package api implements the session-aware portal client: every outbound
// call carries the current access token, and an authorization failure is
// healed transparently by a single coordinated token refresh.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/healthbridge/wellness-client/internal/credstore"
	"github.com/healthbridge/wellness-client/pkg/observability"
)

const defaultTimeout = 15 * time.Second

// Client wraps outbound portal API calls. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	store   credstore.Store
	logger  *zap.Logger
	metrics *observability.ClientMetrics

	refreshMu sync.Mutex
	refresh   *refreshAttempt

	hookMu       sync.Mutex
	onSessionEnd func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithMetrics attaches request/refresh counters.
func WithMetrics(m *observability.ClientMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a portal client rooted at baseURL.
func NewClient(baseURL string, store credstore.Store, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		store:   store,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnSessionEnd registers the hook fired when the session is torn down after
// an unrecoverable refresh failure. The credential store is already cleared
// when the hook runs.
func (c *Client) OnSessionEnd(fn func()) {
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	c.onSessionEnd = fn
}

// Get issues an authenticated GET.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, true)
}

// Post issues an authenticated POST.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out, true)
}

// Patch issues an authenticated PATCH.
func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPatch, path, in, out, true)
}

// Delete issues an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, true)
}

// GetPublic issues a GET against a public endpoint; no token is attached.
func (c *Client) GetPublic(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, false)
}

// PostPublic issues a POST against a public endpoint; no token is attached.
func (c *Client) PostPublic(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out, false)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, authed bool) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	status, respBody, err := c.send(ctx, method, path, body, authed)
	if err != nil {
		c.metrics.RecordRequest(ctx, method, "network_error")
		if errors.Is(err, ErrSessionExpired) {
			return err
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	// A 401 on an authed request triggers exactly one refresh-and-replay.
	if status == http.StatusUnauthorized && authed {
		if err := c.refreshAccess(ctx); err != nil {
			c.metrics.RecordRequest(ctx, method, "unauthorized")
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		status, respBody, err = c.send(ctx, method, path, body, authed)
		if err != nil {
			c.metrics.RecordRequest(ctx, method, "network_error")
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		if status == http.StatusUnauthorized {
			c.logger.Warn("request rejected after successful refresh, terminating session",
				zap.String("method", method), zap.String("path", path))
			c.terminate(ctx)
			c.metrics.RecordRequest(ctx, method, "unauthorized")
			return fmt.Errorf("%s %s: %w", method, path, ErrSessionExpired)
		}
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		c.metrics.RecordRequest(ctx, method, "error")
		return parseError(status, respBody)
	}

	c.metrics.RecordRequest(ctx, method, "ok")
	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
	}
	return nil
}

// send performs one HTTP round trip and drains the body so the caller can
// decide what to do with the status.
func (c *Client) send(ctx context.Context, method, path string, body []byte, authed bool) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	if authed {
		session, _, err := c.store.Load(ctx)
		if err != nil {
			if errors.Is(err, credstore.ErrNoSession) {
				return 0, nil, ErrSessionExpired
			}
			return 0, nil, fmt.Errorf("failed to load credentials: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// terminate clears the credential store and fires the session-end hook.
func (c *Client) terminate(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Error("failed to clear credential store during teardown", zap.Error(err))
	}
	c.hookMu.Lock()
	hook := c.onSessionEnd
	c.hookMu.Unlock()
	if hook != nil {
		hook()
	}
}
