package api

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/healthbridge/wellness-client/internal/dto"
)

// refreshAttempt is the shared handle for an in-flight refresh. Late
// observers of a 401 wait on done instead of starting a second refresh.
type refreshAttempt struct {
	done chan struct{}
	err  error
}

// refreshAccess coalesces concurrent refresh triggers onto a single call to
// the token-refresh endpoint. At most one refresh is ever in flight.
func (c *Client) refreshAccess(ctx context.Context) error {
	c.refreshMu.Lock()
	if attempt := c.refresh; attempt != nil {
		c.refreshMu.Unlock()
		select {
		case <-attempt.done:
			return attempt.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	attempt := &refreshAttempt{done: make(chan struct{})}
	c.refresh = attempt
	c.refreshMu.Unlock()

	attempt.err = c.doRefresh(ctx)

	c.refreshMu.Lock()
	c.refresh = nil
	c.refreshMu.Unlock()
	close(attempt.done)

	return attempt.err
}

func (c *Client) doRefresh(ctx context.Context) error {
	session, user, err := c.store.Load(ctx)
	if err != nil {
		c.terminate(ctx)
		return fmt.Errorf("no refresh token available: %w", ErrSessionExpired)
	}

	var resp dto.TokenRefreshResponse
	err = c.do(ctx, http.MethodPost, "/auth/token/refresh/", dto.TokenRefreshRequest{Refresh: session.RefreshToken}, &resp, false)
	if err != nil {
		c.metrics.RecordRefresh(ctx, "failure")
		c.logger.Warn("token refresh failed, terminating session", zap.Error(err))
		c.terminate(ctx)
		return fmt.Errorf("token refresh rejected: %w", ErrSessionExpired)
	}

	session.AccessToken = resp.Access
	session.ExpiresAt = tokenExpiry(resp.Access)
	if err := c.store.Save(ctx, session, user); err != nil {
		c.metrics.RecordRefresh(ctx, "failure")
		c.terminate(ctx)
		return fmt.Errorf("failed to persist refreshed token: %w", ErrSessionExpired)
	}

	c.metrics.RecordRefresh(ctx, "success")
	c.logger.Debug("access token refreshed", zap.Time("expires_at", session.ExpiresAt))
	return nil
}
