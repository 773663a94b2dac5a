package domain

import (
	"math"
	"time"
)

// GoalType identifies the kind of wellness metric a goal tracks.
type GoalType string

const (
	GoalSteps      GoalType = "steps"
	GoalActiveTime GoalType = "active_time"
	GoalSleep      GoalType = "sleep"
	GoalWater      GoalType = "water"
	GoalCalories   GoalType = "calories"
	GoalCustom     GoalType = "custom"
)

// GoalDefaults are the portal's stock targets per goal type, applied when a
// typed goal is created without an explicit title or target.
type GoalDefaults struct {
	Title       string
	TargetValue float64
	Unit        string
}

var DefaultGoals = map[GoalType]GoalDefaults{
	GoalSteps:      {Title: "Daily Steps", TargetValue: 6000, Unit: "steps"},
	GoalActiveTime: {Title: "Active Time", TargetValue: 60, Unit: "mins"},
	GoalSleep:      {Title: "Sleep", TargetValue: 8, Unit: "hours"},
	GoalWater:      {Title: "Water Intake", TargetValue: 8, Unit: "glasses"},
	GoalCalories:   {Title: "Calories Burned", TargetValue: 500, Unit: "kcal"},
}

// Goal is a time-bound wellness goal anchored to a calendar day. A recurring
// goal acts as a template yielding one fresh instance per day.
type Goal struct {
	ID           int64          `json:"id"`
	GoalType     GoalType       `json:"goal_type"`
	Title        string         `json:"title"`
	TargetValue  float64        `json:"target_value"`
	CurrentValue float64        `json:"current_value"`
	Unit         string         `json:"unit"`
	Date         Date           `json:"date"`
	IsCompleted  bool           `json:"is_completed"`
	IsRecurring  bool           `json:"is_recurring"`
	ExtraData    map[string]any `json:"extra_data,omitempty"`
}

// RecomputeCompletion re-derives IsCompleted from the accumulated value.
// Invariant: a goal is completed iff its current value has reached the
// target, and the target is positive.
func (g *Goal) RecomputeCompletion() {
	g.IsCompleted = g.TargetValue > 0 && g.CurrentValue >= g.TargetValue
}

// ProgressPercent returns completion as a whole percentage, capped at 100.
func (g Goal) ProgressPercent() int {
	if g.TargetValue <= 0 {
		return 0
	}
	return int(math.Min(100, g.CurrentValue/g.TargetValue*100))
}

// InstanceFor derives the fresh daily instance a recurring goal template
// yields for the given day: same metric, progress reset, not yet persisted.
func (g Goal) InstanceFor(day Date) Goal {
	inst := g
	inst.ID = 0
	inst.Date = day
	inst.CurrentValue = 0
	inst.IsCompleted = false
	return inst
}

// ProgressEntry is an append-only contribution to a goal's current value.
// Entries are never negative and never retracted.
type ProgressEntry struct {
	ID       string    `json:"id"`
	GoalID   int64     `json:"goal_id"`
	Value    float64   `json:"value"`
	Notes    string    `json:"notes,omitempty"`
	LoggedAt time.Time `json:"logged_at"`
}
