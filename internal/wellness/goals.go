// Package wellness holds the domain logic for wellness goals and
// preventive-care reminders: validation, progress accumulation, completion
// detection, and recurrence rules.
package wellness

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/healthbridge/wellness-client/internal/api"
	"github.com/healthbridge/wellness-client/internal/domain"
	"github.com/healthbridge/wellness-client/internal/dto"
)

// GoalTracker manages wellness goals against the backend and mirrors them
// in memory for the presentation layer to render.
type GoalTracker struct {
	client *api.Client
	logger *zap.Logger

	mu      sync.Mutex
	goals   map[int64]domain.Goal
	entries map[int64][]domain.ProgressEntry
}

// NewGoalTracker creates a goal tracker.
func NewGoalTracker(client *api.Client, logger *zap.Logger) *GoalTracker {
	return &GoalTracker{
		client:  client,
		logger:  logger,
		goals:   make(map[int64]domain.Goal),
		entries: make(map[int64][]domain.ProgressEntry),
	}
}

// GoalFilter narrows List results.
type GoalFilter struct {
	Date domain.Date
	Type domain.GoalType
}

// List fetches the user's goals, optionally filtered by day or type.
func (t *GoalTracker) List(ctx context.Context, filter GoalFilter) ([]domain.Goal, error) {
	path := "/wellness/goals/"
	query := url.Values{}
	if !filter.Date.IsZero() {
		query.Set("date", filter.Date.String())
	}
	if filter.Type != "" {
		query.Set("type", string(filter.Type))
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var goals []domain.Goal
	if err := t.client.Get(ctx, path, &goals); err != nil {
		return nil, err
	}
	t.cacheAll(goals)
	return goals, nil
}

// Today fetches the goal instances for the current day. The server owns
// daily materialization of recurring goals: this endpoint lazily creates
// today's instance from each recurring template, so the client never has to
// guess at rollover.
func (t *GoalTracker) Today(ctx context.Context) ([]domain.Goal, error) {
	var goals []domain.Goal
	if err := t.client.Get(ctx, "/wellness/goals/today/", &goals); err != nil {
		return nil, err
	}
	t.cacheAll(goals)
	return goals, nil
}

// Create registers a new goal. A typed goal missing a title or target gets
// the portal's stock defaults. The target must end up positive; progress
// starts at zero.
func (t *GoalTracker) Create(ctx context.Context, req dto.GoalCreateRequest) (domain.Goal, error) {
	if defaults, ok := domain.DefaultGoals[req.GoalType]; ok {
		if req.Title == "" {
			req.Title = defaults.Title
		}
		if req.TargetValue == 0 {
			req.TargetValue = defaults.TargetValue
		}
		if req.Unit == "" {
			req.Unit = defaults.Unit
		}
	}
	if req.Date.IsZero() {
		req.Date = domain.Today()
	}
	if req.TargetValue <= 0 || math.IsNaN(req.TargetValue) || math.IsInf(req.TargetValue, 0) {
		return domain.Goal{}, domain.NewValidationError("target_value", "Target value must be greater than zero")
	}

	var goal domain.Goal
	if err := t.client.Post(ctx, "/wellness/goals/", req, &goal); err != nil {
		return domain.Goal{}, err
	}
	goal.RecomputeCompletion()
	t.cache(goal)

	t.logger.Info("goal created",
		zap.Int64("goal_id", goal.ID),
		zap.String("goal_type", string(goal.GoalType)),
		zap.Float64("target", goal.TargetValue),
	)
	return goal, nil
}

// Update patches a goal's mutable fields. Goal type and date are fixed at
// creation and are not part of the patch shape.
func (t *GoalTracker) Update(ctx context.Context, id int64, patch dto.GoalUpdateRequest) (domain.Goal, error) {
	if patch.TargetValue != nil && *patch.TargetValue <= 0 {
		return domain.Goal{}, domain.NewValidationError("target_value", "Target value must be greater than zero")
	}

	var goal domain.Goal
	if err := t.client.Patch(ctx, fmt.Sprintf("/wellness/goals/%d/", id), patch, &goal); err != nil {
		return domain.Goal{}, err
	}
	goal.RecomputeCompletion()
	t.cache(goal)
	return goal, nil
}

// Delete removes a goal and its local progress history.
func (t *GoalTracker) Delete(ctx context.Context, id int64) error {
	if err := t.client.Delete(ctx, fmt.Sprintf("/wellness/goals/%d/", id)); err != nil {
		return err
	}
	t.mu.Lock()
	delete(t.goals, id)
	delete(t.entries, id)
	t.mu.Unlock()

	t.logger.Info("goal deleted", zap.Int64("goal_id", id))
	return nil
}

// LogProgress appends a progress contribution to a goal. Accumulation is
// monotonic: the value is added to the current total, never set absolutely,
// and completion is re-derived from the result.
func (t *GoalTracker) LogProgress(ctx context.Context, id int64, value float64, notes string) (domain.Goal, error) {
	if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return domain.Goal{}, domain.NewValidationError("value", "Progress value must be a non-negative number")
	}

	req := dto.LogProgressRequest{Value: value, Notes: notes}
	var goal domain.Goal
	if err := t.client.Post(ctx, fmt.Sprintf("/wellness/goals/%d/log/", id), req, &goal); err != nil {
		return domain.Goal{}, err
	}
	goal.RecomputeCompletion()

	entry := domain.ProgressEntry{
		ID:       uuid.New().String(),
		GoalID:   id,
		Value:    value,
		Notes:    notes,
		LoggedAt: time.Now(),
	}

	t.mu.Lock()
	t.goals[goal.ID] = goal
	t.entries[id] = append(t.entries[id], entry)
	t.mu.Unlock()

	t.logger.Info("progress logged",
		zap.Int64("goal_id", id),
		zap.Float64("value", value),
		zap.Float64("current", goal.CurrentValue),
		zap.Bool("completed", goal.IsCompleted),
	)
	return goal, nil
}

// Weekly fetches the rolling seven-day progress summary.
func (t *GoalTracker) Weekly(ctx context.Context) (dto.WeeklyProgress, error) {
	var summary dto.WeeklyProgress
	if err := t.client.Get(ctx, "/wellness/goals/weekly/", &summary); err != nil {
		return dto.WeeklyProgress{}, err
	}
	return summary, nil
}

// Goal returns the cached copy of a goal, if known.
func (t *GoalTracker) Goal(id int64) (domain.Goal, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	g, ok := t.goals[id]
	return g, ok
}

// Progress returns the locally recorded progress history for a goal.
// Entries are append-only; there is no way to retract one.
func (t *GoalTracker) Progress(id int64) []domain.ProgressEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	entries := t.entries[id]
	out := make([]domain.ProgressEntry, len(entries))
	copy(out, entries)
	return out
}

func (t *GoalTracker) cache(goal domain.Goal) {
	t.mu.Lock()
	t.goals[goal.ID] = goal
	t.mu.Unlock()
}

func (t *GoalTracker) cacheAll(goals []domain.Goal) {
	t.mu.Lock()
	for i := range goals {
		goals[i].RecomputeCompletion()
		t.goals[goals[i].ID] = goals[i]
	}
	t.mu.Unlock()
}
