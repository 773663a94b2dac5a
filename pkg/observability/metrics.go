package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ClientMetrics counts outbound portal API activity. A nil *ClientMetrics is
// valid and records nothing, so callers never guard their call sites.
type ClientMetrics struct {
	requests  metric.Int64Counter
	refreshes metric.Int64Counter
}

// NewClientMetrics registers the client's counters on the global meter
// provider set up by InitTelemetry.
func NewClientMetrics() (*ClientMetrics, error) {
	meter := otel.Meter("wellness-client")

	requests, err := meter.Int64Counter("portal_api_requests_total",
		metric.WithDescription("Outbound portal API requests by method and outcome"))
	if err != nil {
		return nil, fmt.Errorf("failed to create requests counter: %w", err)
	}

	refreshes, err := meter.Int64Counter("portal_token_refreshes_total",
		metric.WithDescription("Access token refresh attempts by outcome"))
	if err != nil {
		return nil, fmt.Errorf("failed to create refreshes counter: %w", err)
	}

	return &ClientMetrics{requests: requests, refreshes: refreshes}, nil
}

// RecordRequest counts one outbound request.
func (m *ClientMetrics) RecordRequest(ctx context.Context, method, outcome string) {
	if m == nil {
		return
	}
	m.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("outcome", outcome),
	))
}

// RecordRefresh counts one token refresh attempt.
func (m *ClientMetrics) RecordRefresh(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.refreshes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}
