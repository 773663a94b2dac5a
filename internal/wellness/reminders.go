package wellness

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/healthbridge/wellness-client/internal/api"
	"github.com/healthbridge/wellness-client/internal/domain"
	"github.com/healthbridge/wellness-client/internal/dto"
)

// ReminderScheduler manages preventive-care reminders: creation, status
// transitions, and recurrence-driven re-instantiation.
type ReminderScheduler struct {
	client *api.Client
	logger *zap.Logger

	mu        sync.Mutex
	reminders map[int64]domain.Reminder
}

// NewReminderScheduler creates a reminder scheduler.
func NewReminderScheduler(client *api.Client, logger *zap.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		client:    client,
		logger:    logger,
		reminders: make(map[int64]domain.Reminder),
	}
}

// List fetches the user's reminders, optionally filtered by status.
func (s *ReminderScheduler) List(ctx context.Context, status domain.ReminderStatus) ([]domain.Reminder, error) {
	path := "/wellness/reminders/"
	if status != "" {
		path += "?" + url.Values{"status": {string(status)}}.Encode()
	}

	var reminders []domain.Reminder
	if err := s.client.Get(ctx, path, &reminders); err != nil {
		return nil, err
	}
	s.cacheAll(reminders)
	return reminders, nil
}

// Upcoming fetches the next few upcoming reminders.
func (s *ReminderScheduler) Upcoming(ctx context.Context) ([]domain.Reminder, error) {
	var reminders []domain.Reminder
	if err := s.client.Get(ctx, "/wellness/reminders/upcoming/", &reminders); err != nil {
		return nil, err
	}
	s.cacheAll(reminders)
	return reminders, nil
}

// Create registers a new reminder. A scheduled date is required, and a
// recurring reminder needs a positive interval.
func (s *ReminderScheduler) Create(ctx context.Context, req dto.ReminderCreateRequest) (domain.Reminder, error) {
	if req.ScheduledDate.IsZero() {
		return domain.Reminder{}, domain.NewValidationError("scheduled_date", "Scheduled date is required")
	}
	if req.IsRecurring && req.RecurrenceIntervalDays <= 0 {
		return domain.Reminder{}, domain.NewValidationError("recurrence_interval", "Recurring reminders need an interval of at least one day")
	}

	var reminder domain.Reminder
	if err := s.client.Post(ctx, "/wellness/reminders/", req, &reminder); err != nil {
		return domain.Reminder{}, err
	}
	s.cache(reminder)

	s.logger.Info("reminder created",
		zap.Int64("reminder_id", reminder.ID),
		zap.String("type", string(reminder.ReminderType)),
		zap.String("scheduled", reminder.ScheduledDate.String()),
	)
	return reminder, nil
}

// Update patches a reminder. Empty optional strings are normalized to
// absent before transmission, and explicit status changes are checked
// against the transition table. Changing the date of a pending reminder is
// the reschedule path: it lands back in the upcoming state.
func (s *ReminderScheduler) Update(ctx context.Context, id int64, patch dto.ReminderUpdateRequest) (domain.Reminder, error) {
	patch.Normalize()

	if patch.Status != nil || patch.ScheduledDate != nil {
		current, err := s.current(ctx, id)
		if err != nil {
			return domain.Reminder{}, err
		}
		if patch.Status != nil && !domain.CanTransition(current.Status, *patch.Status) {
			return domain.Reminder{}, fmt.Errorf("reminder %d cannot move from %s to %s", id, current.Status, *patch.Status)
		}
		if patch.ScheduledDate != nil && patch.Status == nil && !current.Status.Terminal() {
			upcoming := domain.StatusUpcoming
			patch.Status = &upcoming
		}
	}

	var reminder domain.Reminder
	if err := s.client.Patch(ctx, fmt.Sprintf("/wellness/reminders/%d/", id), patch, &reminder); err != nil {
		return domain.Reminder{}, err
	}
	s.cache(reminder)
	return reminder, nil
}

// Delete removes a reminder.
func (s *ReminderScheduler) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/wellness/reminders/%d/", id)); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.reminders, id)
	s.mu.Unlock()

	s.logger.Info("reminder deleted", zap.Int64("reminder_id", id))
	return nil
}

// MarkComplete transitions a reminder to completed. Completing an already
// completed reminder is a no-op, not an error. Completing a recurring
// reminder derives the next occurrence and persists it through the same
// create contract, awaiting each step in order.
//
// The prior status is resolved from the server when the local cache has
// no record, so a restarted process never re-completes a finished
// reminder or duplicates its next occurrence.
func (s *ReminderScheduler) MarkComplete(ctx context.Context, id int64) (domain.Reminder, error) {
	current, err := s.current(ctx, id)
	if err != nil {
		return domain.Reminder{}, err
	}
	if current.Status == domain.StatusCompleted {
		return current, nil
	}
	if !domain.CanTransition(current.Status, domain.StatusCompleted) {
		return domain.Reminder{}, fmt.Errorf("reminder %d cannot move from %s to %s", id, current.Status, domain.StatusCompleted)
	}

	completed := domain.StatusCompleted
	var reminder domain.Reminder
	err = s.client.Patch(ctx, fmt.Sprintf("/wellness/reminders/%d/", id), dto.ReminderUpdateRequest{Status: &completed}, &reminder)
	if err != nil {
		return domain.Reminder{}, err
	}
	s.cache(reminder)

	s.logger.Info("reminder completed", zap.Int64("reminder_id", id))

	if next, ok := reminder.NextOccurrence(); ok {
		created, err := s.Create(ctx, dto.ReminderCreateRequest{
			ReminderType:           next.ReminderType,
			Title:                  next.Title,
			Description:            next.Description,
			ScheduledDate:          next.ScheduledDate,
			ScheduledTime:          next.ScheduledTime,
			Location:               next.Location,
			Notes:                  next.Notes,
			IsRecurring:            true,
			RecurrenceIntervalDays: next.RecurrenceIntervalDays,
		})
		if err != nil {
			return reminder, fmt.Errorf("reminder completed but next occurrence was not created: %w", err)
		}
		s.logger.Info("recurring reminder re-instantiated",
			zap.Int64("completed_id", id),
			zap.Int64("next_id", created.ID),
			zap.String("next_date", created.ScheduledDate.String()),
		)
	}
	return reminder, nil
}

// Reminder returns the cached copy of a reminder, if known.
func (s *ReminderScheduler) Reminder(id int64) (domain.Reminder, bool) {
	return s.cached(id)
}

// current resolves a reminder's latest known state, fetching it from the
// backend when the in-process cache has no record.
func (s *ReminderScheduler) current(ctx context.Context, id int64) (domain.Reminder, error) {
	if r, ok := s.cached(id); ok {
		return r, nil
	}
	var reminder domain.Reminder
	if err := s.client.Get(ctx, fmt.Sprintf("/wellness/reminders/%d/", id), &reminder); err != nil {
		return domain.Reminder{}, err
	}
	s.cache(reminder)
	return reminder, nil
}

func (s *ReminderScheduler) cached(id int64) (domain.Reminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reminders[id]
	return r, ok
}

func (s *ReminderScheduler) cache(reminder domain.Reminder) {
	s.mu.Lock()
	s.reminders[reminder.ID] = reminder
	s.mu.Unlock()
}

func (s *ReminderScheduler) cacheAll(reminders []domain.Reminder) {
	s.mu.Lock()
	for _, r := range reminders {
		s.reminders[r.ID] = r
	}
	s.mu.Unlock()
}
