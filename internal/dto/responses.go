package dto

import "github.com/healthbridge/wellness-client/internal/domain"

// LoginResponse is the body of a successful POST /auth/login/.
type LoginResponse struct {
	Access  string               `json:"access"`
	Refresh string               `json:"refresh"`
	User    *domain.UserIdentity `json:"user"`
}

// TokenPair carries the credentials issued at registration.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RegisterResponse is the body of a successful POST /auth/register/.
type RegisterResponse struct {
	Message string               `json:"message"`
	User    *domain.UserIdentity `json:"user"`
	Tokens  TokenPair            `json:"tokens"`
}

// TokenRefreshResponse is the body of a successful POST /auth/token/refresh/.
type TokenRefreshResponse struct {
	Access string `json:"access"`
}

// MessageResponse is the generic success envelope used by several endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// ProfileResponse is the body of GET /auth/profile/. The role-specific
// profile document is kept opaque; this core only owns the identity record.
type ProfileResponse struct {
	User    *domain.UserIdentity `json:"user"`
	Profile map[string]any       `json:"profile,omitempty"`
}

// WeeklyProgress is the body of GET /wellness/goals/weekly/.
type WeeklyProgress struct {
	TotalGoals     int           `json:"total_goals"`
	CompletedGoals int           `json:"completed_goals"`
	CompletionRate float64       `json:"completion_rate"`
	StepsSummary   StepsSummary  `json:"steps_summary"`
	Goals          []domain.Goal `json:"goals"`
}

// StepsSummary aggregates step counts across the week.
type StepsSummary struct {
	Total  float64 `json:"total"`
	Target float64 `json:"target"`
}

// HealthTip is a public wellness tip record.
type HealthTip struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// DashboardName is the abbreviated identity shown on the dashboard.
type DashboardName struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DashboardSummary is the body of GET /wellness/dashboard/.
type DashboardSummary struct {
	User      DashboardName     `json:"user"`
	Goals     []domain.Goal     `json:"goals"`
	Reminders []domain.Reminder `json:"reminders"`
	HealthTip HealthTip         `json:"health_tip"`
}

// PatientSummary is one row of GET /auth/provider/patients/.
type PatientSummary struct {
	ID               int64                `json:"id"`
	User             *domain.UserIdentity `json:"user"`
	ComplianceStatus string               `json:"compliance_status"`
	GoalsMet         int                  `json:"goals_met"`
}

// PatientDetail is the body of GET /auth/provider/patients/{id}/.
type PatientDetail struct {
	Profile   map[string]any    `json:"profile"`
	Goals     []domain.Goal     `json:"goals"`
	Reminders []domain.Reminder `json:"reminders"`
}
