package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/healthbridge/wellness-client/internal/wellness"
)

func init() {
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(remindersCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(tipCmd)
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's wellness goals",
	Args:  cobra.NoArgs,
	RunE:  runToday,
}

var logCmd = &cobra.Command{
	Use:   "log <goal-id> <value>",
	Short: "Log progress against a goal",
	Args:  cobra.ExactArgs(2),
	RunE:  runLog,
}

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "List upcoming reminders",
	Args:  cobra.NoArgs,
	RunE:  runReminders,
}

var completeCmd = &cobra.Command{
	Use:   "complete <reminder-id>",
	Short: "Mark a reminder completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runComplete,
}

var tipCmd = &cobra.Command{
	Use:   "tip",
	Short: "Show the health tip of the day",
	Args:  cobra.NoArgs,
	RunE:  runTip,
}

func runToday(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, shutdown, err := initStack(ctx)
	if err != nil {
		return err
	}
	defer shutdown()

	goals := wellness.NewGoalTracker(st.client, st.logger)
	list, err := goals.Today(ctx)
	if err != nil {
		return err
	}
	for _, g := range list {
		fmt.Printf("[%d] %s: %.0f/%.0f %s (%d%%)\n",
			g.ID, g.Title, g.CurrentValue, g.TargetValue, g.Unit, g.ProgressPercent())
	}
	return nil
}

func runLog(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid goal id %q", args[0])
	}
	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid progress value %q", args[1])
	}

	ctx := cmd.Context()
	st, shutdown, err := initStack(ctx)
	if err != nil {
		return err
	}
	defer shutdown()

	goals := wellness.NewGoalTracker(st.client, st.logger)
	goal, err := goals.LogProgress(ctx, id, value, "")
	if err != nil {
		return err
	}
	fmt.Printf("%s: %.0f/%.0f %s\n", goal.Title, goal.CurrentValue, goal.TargetValue, goal.Unit)
	return nil
}

func runReminders(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, shutdown, err := initStack(ctx)
	if err != nil {
		return err
	}
	defer shutdown()

	reminders := wellness.NewReminderScheduler(st.client, st.logger)
	list, err := reminders.Upcoming(ctx)
	if err != nil {
		return err
	}
	for _, r := range list {
		fmt.Printf("[%d] %s on %s (%s)\n", r.ID, r.Title, r.ScheduledDate, r.Status)
	}
	return nil
}

func runComplete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid reminder id %q", args[0])
	}

	ctx := cmd.Context()
	st, shutdown, err := initStack(ctx)
	if err != nil {
		return err
	}
	defer shutdown()

	reminders := wellness.NewReminderScheduler(st.client, st.logger)
	reminder, err := reminders.MarkComplete(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", reminder.Title, reminder.Status)
	return nil
}

func runTip(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, shutdown, err := initStack(ctx)
	if err != nil {
		return err
	}
	defer shutdown()

	dashboard := wellness.NewDashboard(st.client, st.logger)
	tip, err := dashboard.HealthTip(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s\n", tip.Title, tip.Content)
	return nil
}
