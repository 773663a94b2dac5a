package dto

import "github.com/healthbridge/wellness-client/internal/domain"

// LoginRequest is the payload for POST /auth/login/.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for POST /auth/register/. Local validation
// runs before any of it is transmitted.
type RegisterRequest struct {
	Email           string      `json:"email"`
	Password        string      `json:"password"`
	PasswordConfirm string      `json:"password_confirm"`
	FirstName       string      `json:"first_name"`
	LastName        string      `json:"last_name"`
	Role            domain.Role `json:"role"`
	Phone           string      `json:"phone,omitempty"`
	DateOfBirth     string      `json:"date_of_birth,omitempty"`
	DataConsent     bool        `json:"data_consent"`
}

// TokenRefreshRequest is the payload for POST /auth/token/refresh/.
type TokenRefreshRequest struct {
	Refresh string `json:"refresh"`
}

// LogoutRequest is the payload for POST /auth/logout/.
type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

// ChangePasswordRequest is the payload for POST /auth/change-password/.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ProfileUpdateRequest is the payload for PATCH /auth/profile/. Nil fields
// are omitted from the patch.
type ProfileUpdateRequest struct {
	FirstName        *string `json:"first_name,omitempty"`
	LastName         *string `json:"last_name,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	DateOfBirth      *string `json:"date_of_birth,omitempty"`
	Address          *string `json:"address,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
	EmergencyPhone   *string `json:"emergency_phone,omitempty"`
}

// GoalCreateRequest is the payload for POST /wellness/goals/.
type GoalCreateRequest struct {
	GoalType    domain.GoalType `json:"goal_type"`
	Title       string          `json:"title"`
	TargetValue float64         `json:"target_value"`
	Unit        string          `json:"unit"`
	Date        domain.Date     `json:"date"`
	IsRecurring bool            `json:"is_recurring"`
	ExtraData   map[string]any  `json:"extra_data,omitempty"`
}

// GoalUpdateRequest is the payload for PATCH /wellness/goals/{id}/. Only the
// mutable fields appear; goal type and date are fixed at creation.
type GoalUpdateRequest struct {
	Title       *string  `json:"title,omitempty"`
	TargetValue *float64 `json:"target_value,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	IsRecurring *bool    `json:"is_recurring,omitempty"`
}

// LogProgressRequest is the payload for POST /wellness/goals/{id}/log/.
type LogProgressRequest struct {
	Value float64 `json:"value"`
	Notes string  `json:"notes,omitempty"`
}

// ReminderCreateRequest is the payload for POST /wellness/reminders/.
type ReminderCreateRequest struct {
	ReminderType           domain.ReminderType `json:"reminder_type"`
	Title                  string              `json:"title"`
	Description            string              `json:"description,omitempty"`
	ScheduledDate          domain.Date         `json:"scheduled_date"`
	ScheduledTime          string              `json:"scheduled_time,omitempty"`
	Location               string              `json:"location,omitempty"`
	Notes                  string              `json:"notes,omitempty"`
	IsRecurring            bool                `json:"is_recurring"`
	RecurrenceIntervalDays int                 `json:"recurrence_interval,omitempty"`
}

// ReminderUpdateRequest is the payload for PATCH /wellness/reminders/{id}/.
type ReminderUpdateRequest struct {
	Title                  *string                `json:"title,omitempty"`
	Description            *string                `json:"description,omitempty"`
	ScheduledDate          *domain.Date           `json:"scheduled_date,omitempty"`
	ScheduledTime          *string                `json:"scheduled_time,omitempty"`
	Location               *string                `json:"location,omitempty"`
	Notes                  *string                `json:"notes,omitempty"`
	Status                 *domain.ReminderStatus `json:"status,omitempty"`
	IsRecurring            *bool                  `json:"is_recurring,omitempty"`
	RecurrenceIntervalDays *int                   `json:"recurrence_interval,omitempty"`
}

// Normalize drops optional fields holding empty strings so they are
// transmitted as absent rather than as "". A zero recurrence interval is
// likewise treated as unset.
func (r *ReminderUpdateRequest) Normalize() {
	r.Description = dropEmpty(r.Description)
	r.ScheduledTime = dropEmpty(r.ScheduledTime)
	r.Location = dropEmpty(r.Location)
	r.Notes = dropEmpty(r.Notes)
	if r.RecurrenceIntervalDays != nil && *r.RecurrenceIntervalDays == 0 {
		r.RecurrenceIntervalDays = nil
	}
}

func dropEmpty(s *string) *string {
	if s != nil && *s == "" {
		return nil
	}
	return s
}
