package acceptance

import (
	"context"

	"github.com/healthbridge/wellness-client/internal/domain"
	"github.com/healthbridge/wellness-client/internal/dto"
	"github.com/healthbridge/wellness-client/internal/wellness"
)

func (s *Suite) signIn(email string) {
	_, err := s.Auth.Register(context.Background(), registration(email))
	s.Require().NoError(err)
}

func (s *Suite) TestGoalLifecycle() {
	ctx := context.Background()
	s.signIn("goals@example.com")

	goal, err := s.Goals.Create(ctx, dto.GoalCreateRequest{GoalType: domain.GoalSteps})
	s.Require().NoError(err)
	s.Equal("Daily Steps", goal.Title)
	s.Equal(float64(6000), goal.TargetValue)
	s.Zero(goal.CurrentValue)
	s.False(goal.IsCompleted)

	goal, err = s.Goals.LogProgress(ctx, goal.ID, 4000, "morning walk")
	s.Require().NoError(err)
	s.Equal(float64(4000), goal.CurrentValue)
	s.False(goal.IsCompleted)

	goal, err = s.Goals.LogProgress(ctx, goal.ID, 2500, "evening walk")
	s.Require().NoError(err)
	s.Equal(float64(6500), goal.CurrentValue, "progress accumulates across entries")
	s.True(goal.IsCompleted, "overshoot still counts as completed")
	s.Equal(100, goal.ProgressPercent())

	entries := s.Goals.Progress(goal.ID)
	s.Require().Len(entries, 2)
	s.Equal("morning walk", entries[0].Notes)

	s.Require().NoError(s.Goals.Delete(ctx, goal.ID))
	goals, err := s.Goals.List(ctx, wellness.GoalFilter{})
	s.Require().NoError(err)
	s.Empty(goals)
}

func (s *Suite) TestRecurringGoalMaterializedForToday() {
	ctx := context.Background()
	s.signIn("recurring@example.com")

	yesterday := domain.Today().AddDays(-1)
	template, err := s.Goals.Create(ctx, dto.GoalCreateRequest{
		GoalType:    domain.GoalWater,
		Date:        yesterday,
		IsRecurring: true,
	})
	s.Require().NoError(err)

	today, err := s.Goals.Today(ctx)
	s.Require().NoError(err)
	s.Require().Len(today, 1, "the recurring goal yields a fresh instance for today")

	inst := today[0]
	s.NotEqual(template.ID, inst.ID)
	s.Equal(domain.Today(), inst.Date)
	s.Equal(domain.GoalWater, inst.GoalType)
	s.Zero(inst.CurrentValue, "each day starts from zero")
	s.False(inst.IsCompleted)

	// Asking again does not duplicate the instance.
	again, err := s.Goals.Today(ctx)
	s.Require().NoError(err)
	s.Len(again, 1)
}

func (s *Suite) TestReminderLifecycle() {
	ctx := context.Background()
	s.signIn("reminders@example.com")

	reminder, err := s.Rems.Create(ctx, dto.ReminderCreateRequest{
		ReminderType:  domain.ReminderCheckup,
		Title:         "Annual physical",
		ScheduledDate: domain.Today().AddDays(14),
		ScheduledTime: "10:00",
	})
	s.Require().NoError(err)
	s.Equal(domain.StatusUpcoming, reminder.Status)

	done, err := s.Rems.MarkComplete(ctx, reminder.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusCompleted, done.Status)

	// Completing again is a quiet no-op.
	again, err := s.Rems.MarkComplete(ctx, reminder.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusCompleted, again.Status)
}

func (s *Suite) TestRecurringReminderRollsForward() {
	ctx := context.Background()
	s.signIn("recurring-reminder@example.com")

	start := domain.Today()
	reminder, err := s.Rems.Create(ctx, dto.ReminderCreateRequest{
		ReminderType:           domain.ReminderBloodTest,
		Title:                  "Quarterly bloodwork",
		ScheduledDate:          start,
		IsRecurring:            true,
		RecurrenceIntervalDays: 90,
	})
	s.Require().NoError(err)

	_, err = s.Rems.MarkComplete(ctx, reminder.ID)
	s.Require().NoError(err)

	all, err := s.Rems.List(ctx, "")
	s.Require().NoError(err)
	s.Require().Len(all, 2, "completion of a recurring reminder creates the next occurrence")

	var next domain.Reminder
	for _, r := range all {
		if r.ID != reminder.ID {
			next = r
		}
	}
	s.Equal(domain.StatusUpcoming, next.Status)
	s.Equal(start.AddDays(90), next.ScheduledDate)
	s.Equal("Quarterly bloodwork", next.Title)
}

func (s *Suite) TestHealthTipIsPublic() {
	ctx := context.Background()

	// No sign-in: the tip endpoint is reachable anonymously.
	dash := wellness.NewDashboard(s.Client, s.logger)
	tip, err := dash.HealthTip(ctx)
	s.Require().NoError(err)
	s.Equal("Hydrate", tip.Title)
}
