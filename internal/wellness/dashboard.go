package wellness

import (
	"context"

	"go.uber.org/zap"

	"github.com/healthbridge/wellness-client/internal/api"
	"github.com/healthbridge/wellness-client/internal/dto"
)

// Dashboard aggregates the patient landing-page data.
type Dashboard struct {
	client *api.Client
	logger *zap.Logger
}

// NewDashboard creates the dashboard reader.
func NewDashboard(client *api.Client, logger *zap.Logger) *Dashboard {
	return &Dashboard{client: client, logger: logger}
}

// Summary fetches today's goals, the next reminders, and the health tip in
// one call. Patient-only on the server side.
func (d *Dashboard) Summary(ctx context.Context) (dto.DashboardSummary, error) {
	var summary dto.DashboardSummary
	if err := d.client.Get(ctx, "/wellness/dashboard/", &summary); err != nil {
		return dto.DashboardSummary{}, err
	}
	for i := range summary.Goals {
		summary.Goals[i].RecomputeCompletion()
	}
	return summary, nil
}

// HealthTip fetches the public tip of the day; no session required.
func (d *Dashboard) HealthTip(ctx context.Context) (dto.HealthTip, error) {
	var tip dto.HealthTip
	if err := d.client.GetPublic(ctx, "/wellness/health-tip/", &tip); err != nil {
		return dto.HealthTip{}, err
	}
	return tip, nil
}
