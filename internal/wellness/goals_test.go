package wellness

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/healthbridge/wellness-client/internal/api"
	"github.com/healthbridge/wellness-client/internal/credstore"
	"github.com/healthbridge/wellness-client/internal/domain"
	"github.com/healthbridge/wellness-client/internal/dto"
)

// fakeGoalBackend is a minimal stateful stand-in for the portal's goal
// endpoints. Progress logging accumulates server-side, mirroring the real
// contract.
type fakeGoalBackend struct {
	mu     sync.Mutex
	nextID int64
	goals  map[int64]domain.Goal
}

func newFakeGoalBackend() *fakeGoalBackend {
	return &fakeGoalBackend{nextID: 1, goals: make(map[int64]domain.Goal)}
}

func (f *fakeGoalBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.URL.Path == "/wellness/goals/" && r.Method == http.MethodPost:
		var req dto.GoalCreateRequest
		json.NewDecoder(r.Body).Decode(&req)
		goal := domain.Goal{
			ID:          f.nextID,
			GoalType:    req.GoalType,
			Title:       req.Title,
			TargetValue: req.TargetValue,
			Unit:        req.Unit,
			Date:        req.Date,
			IsRecurring: req.IsRecurring,
		}
		goal.RecomputeCompletion()
		f.goals[goal.ID] = goal
		f.nextID++
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(goal)

	case strings.HasSuffix(r.URL.Path, "/log/") && r.Method == http.MethodPost:
		id := f.pathID(r.URL.Path, "/log/")
		goal, ok := f.goals[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Goal not found"}`))
			return
		}
		var req dto.LogProgressRequest
		json.NewDecoder(r.Body).Decode(&req)
		goal.CurrentValue += req.Value
		goal.RecomputeCompletion()
		f.goals[id] = goal
		json.NewEncoder(w).Encode(goal)

	case r.Method == http.MethodPatch:
		id := f.pathID(r.URL.Path, "/")
		goal, ok := f.goals[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Goal not found"}`))
			return
		}
		var patch dto.GoalUpdateRequest
		json.NewDecoder(r.Body).Decode(&patch)
		if patch.Title != nil {
			goal.Title = *patch.Title
		}
		if patch.TargetValue != nil {
			goal.TargetValue = *patch.TargetValue
		}
		if patch.Unit != nil {
			goal.Unit = *patch.Unit
		}
		if patch.IsRecurring != nil {
			goal.IsRecurring = *patch.IsRecurring
		}
		goal.RecomputeCompletion()
		f.goals[id] = goal
		json.NewEncoder(w).Encode(goal)

	case r.Method == http.MethodDelete:
		delete(f.goals, f.pathID(r.URL.Path, "/"))
		w.WriteHeader(http.StatusNoContent)

	case r.URL.Path == "/wellness/goals/" && r.Method == http.MethodGet:
		out := make([]domain.Goal, 0, len(f.goals))
		for _, g := range f.goals {
			out = append(out, g)
		}
		json.NewEncoder(w).Encode(out)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeGoalBackend) pathID(path, suffix string) int64 {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(path, "/wellness/goals/"), suffix)
	trimmed = strings.TrimSuffix(trimmed, "/")
	id, _ := strconv.ParseInt(trimmed, 10, 64)
	return id
}

func newTracker(t *testing.T, handler http.Handler) *GoalTracker {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := credstore.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(),
		&domain.Session{AccessToken: "tok", RefreshToken: "ref"},
		&domain.UserIdentity{ID: "u-1", Role: domain.RolePatient}))
	client := api.NewClient(srv.URL, store, zaptest.NewLogger(t))
	return NewGoalTracker(client, zaptest.NewLogger(t))
}

func TestCreateRejectsNonPositiveTarget(t *testing.T) {
	tracker := newTracker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid goals must not reach the backend")
	}))

	_, err := tracker.Create(context.Background(), dto.GoalCreateRequest{
		GoalType:    domain.GoalCustom,
		Title:       "Stretch",
		TargetValue: 0,
		Unit:        "minutes",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "target_value")
}

func TestCreateAppliesStockDefaults(t *testing.T) {
	backend := newFakeGoalBackend()
	tracker := newTracker(t, backend)

	goal, err := tracker.Create(context.Background(), dto.GoalCreateRequest{GoalType: domain.GoalSteps})
	require.NoError(t, err)
	assert.Equal(t, "Daily Steps", goal.Title)
	assert.Equal(t, float64(6000), goal.TargetValue)
	assert.Equal(t, "steps", goal.Unit)
	assert.Equal(t, domain.Today(), goal.Date)
	assert.Zero(t, goal.CurrentValue, "progress starts at zero")
	assert.False(t, goal.IsCompleted)
}

func TestLogProgressAccumulates(t *testing.T) {
	backend := newFakeGoalBackend()
	tracker := newTracker(t, backend)
	ctx := context.Background()

	goal, err := tracker.Create(ctx, dto.GoalCreateRequest{
		GoalType:    domain.GoalWater,
		TargetValue: 40,
		Unit:        "glasses",
	})
	require.NoError(t, err)

	goal, err = tracker.LogProgress(ctx, goal.ID, 30, "")
	require.NoError(t, err)
	assert.Equal(t, float64(30), goal.CurrentValue)
	assert.False(t, goal.IsCompleted)

	// The second contribution adds to the total rather than replacing it,
	// and overshoot still counts as completed.
	goal, err = tracker.LogProgress(ctx, goal.ID, 20, "afternoon")
	require.NoError(t, err)
	assert.Equal(t, float64(50), goal.CurrentValue)
	assert.True(t, goal.IsCompleted)

	entries := tracker.Progress(goal.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, float64(30), entries[0].Value)
	assert.Equal(t, float64(20), entries[1].Value)
	assert.Equal(t, "afternoon", entries[1].Notes)
	assert.NotEmpty(t, entries[0].ID)
}

func TestLogProgressRejectsNegative(t *testing.T) {
	tracker := newTracker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid progress must not reach the backend")
	}))

	_, err := tracker.LogProgress(context.Background(), 1, -5, "")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "value")
}

func TestUpdateLeavesOtherFieldsAlone(t *testing.T) {
	backend := newFakeGoalBackend()
	tracker := newTracker(t, backend)
	ctx := context.Background()

	goal, err := tracker.Create(ctx, dto.GoalCreateRequest{
		GoalType:    domain.GoalSleep,
		TargetValue: 8,
	})
	require.NoError(t, err)
	_, err = tracker.LogProgress(ctx, goal.ID, 6, "")
	require.NoError(t, err)

	target := 6.0
	updated, err := tracker.Update(ctx, goal.ID, dto.GoalUpdateRequest{TargetValue: &target})
	require.NoError(t, err)
	assert.Equal(t, "Sleep", updated.Title, "unpatched fields are untouched")
	assert.Equal(t, float64(6), updated.CurrentValue)
	assert.True(t, updated.IsCompleted, "completion is re-derived after the target drops")

	cached, ok := tracker.Goal(goal.ID)
	require.True(t, ok)
	assert.Equal(t, updated, cached)
}

func TestUpdateRejectsNonPositiveTarget(t *testing.T) {
	tracker := newTracker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid patches must not reach the backend")
	}))

	bad := -1.0
	_, err := tracker.Update(context.Background(), 1, dto.GoalUpdateRequest{TargetValue: &bad})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "target_value")
}

func TestDeleteDropsLocalState(t *testing.T) {
	backend := newFakeGoalBackend()
	tracker := newTracker(t, backend)
	ctx := context.Background()

	goal, err := tracker.Create(ctx, dto.GoalCreateRequest{GoalType: domain.GoalActiveTime})
	require.NoError(t, err)
	_, err = tracker.LogProgress(ctx, goal.ID, 10, "")
	require.NoError(t, err)

	require.NoError(t, tracker.Delete(ctx, goal.ID))
	_, ok := tracker.Goal(goal.ID)
	assert.False(t, ok)
	assert.Empty(t, tracker.Progress(goal.ID))
}

func TestLogProgressUnknownGoal(t *testing.T) {
	backend := newFakeGoalBackend()
	tracker := newTracker(t, backend)

	_, err := tracker.LogProgress(context.Background(), 404, 5, "")
	assert.True(t, api.IsNotFound(err), fmt.Sprintf("expected not-found, got %v", err))
}
