package scheduler

import (
	"context"
	"fmt"
	"time"

	"concierge-chef/internal/planner"
)

// dinnerHour is the default reminder time for a dinner slot.
const dinnerHour = 19

// Reminder is one cooking reminder derived from a meal slot.
type Reminder struct {
	Title string
	At    time.Time
	Note  string
}

// Notifier delivers reminders. The telegram bot implements it; the
// planning core has no dependency on this package or its notifiers.
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// Reminders derives one dinner reminder per slot, on consecutive days
// from the plan's week start at 19:00 in the given location.
func Reminders(plan *planner.WeeklyPlan, loc *time.Location) []Reminder {
	if loc == nil {
		loc = time.Local
	}
	out := make([]Reminder, 0, len(plan.Slots))
	day := plan.WeekStart
	for _, slot := range plan.Slots {
		at := time.Date(day.Year(), day.Month(), day.Day(), dinnerHour, 0, 0, 0, loc)
		out = append(out, Reminder{
			Title: "Cook: " + slot.Recipe.Title,
			At:    at,
			Note:  fmt.Sprintf("Prep time: %d mins", slot.Recipe.PrepMinutes),
		})
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// Dispatch hands every reminder to the notifier, stopping at the first
// failure.
func Dispatch(ctx context.Context, n Notifier, reminders []Reminder) error {
	for _, r := range reminders {
		if err := n.Notify(ctx, r); err != nil {
			return fmt.Errorf("failed to deliver reminder %q: %w", r.Title, err)
		}
	}
	return nil
}
