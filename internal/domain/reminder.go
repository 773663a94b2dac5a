package domain

// ReminderType identifies the kind of preventive care a reminder covers.
type ReminderType string

const (
	ReminderBloodTest   ReminderType = "blood_test"
	ReminderVaccination ReminderType = "vaccination"
	ReminderCheckup     ReminderType = "checkup"
	ReminderScreening   ReminderType = "screening"
	ReminderDental      ReminderType = "dental"
	ReminderEyeExam     ReminderType = "eye_exam"
	ReminderCustom      ReminderType = "custom"
)

// ReminderStatus is the lifecycle state of a single reminder instance.
type ReminderStatus string

const (
	StatusUpcoming    ReminderStatus = "upcoming"
	StatusCompleted   ReminderStatus = "completed"
	StatusMissed      ReminderStatus = "missed"
	StatusRescheduled ReminderStatus = "rescheduled"
)

// Terminal reports whether the status admits no further transitions.
// The missed transition itself is applied server-side; the client only
// observes it.
func (s ReminderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusMissed
}

// CanTransition reports whether a reminder may move between the two
// statuses. Re-applying the current status is always permitted, which makes
// completion idempotent.
func CanTransition(from, to ReminderStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusUpcoming:
		return to == StatusCompleted || to == StatusMissed || to == StatusRescheduled
	case StatusRescheduled:
		return to == StatusUpcoming || to == StatusCompleted || to == StatusMissed
	default:
		return false
	}
}

// Reminder is a preventive-care reminder instance.
type Reminder struct {
	ID                     int64          `json:"id"`
	ReminderType           ReminderType   `json:"reminder_type"`
	Title                  string         `json:"title"`
	Description            string         `json:"description,omitempty"`
	ScheduledDate          Date           `json:"scheduled_date"`
	ScheduledTime          string         `json:"scheduled_time,omitempty"`
	Status                 ReminderStatus `json:"status"`
	Location               string         `json:"location,omitempty"`
	Notes                  string         `json:"notes,omitempty"`
	IsRecurring            bool           `json:"is_recurring"`
	RecurrenceIntervalDays int            `json:"recurrence_interval,omitempty"`
}

// NextOccurrence derives the follow-up instance a recurring reminder yields
// once completed: same details, status reset to upcoming, scheduled one
// recurrence interval later. Reports false for non-recurring reminders or a
// missing interval.
func (r Reminder) NextOccurrence() (Reminder, bool) {
	if !r.IsRecurring || r.RecurrenceIntervalDays <= 0 {
		return Reminder{}, false
	}
	next := r
	next.ID = 0
	next.Status = StatusUpcoming
	next.ScheduledDate = r.ScheduledDate.AddDays(r.RecurrenceIntervalDays)
	return next, true
}
