package telegram

import (
	"fmt"
	"strings"

	"concierge-chef/internal/pantry"
	"concierge-chef/internal/planner"
	"concierge-chef/internal/scheduler"
)

// FormatPlan renders a weekly plan for chat display.
func FormatPlan(plan *planner.WeeklyPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🍽 Dinner plan, week of %s\n\n", plan.WeekStart.Format("Jan 2"))
	for _, slot := range plan.Slots {
		fmt.Fprintf(&b, "%s: %s\n", slot.Day, slot.Recipe.Title)
	}

	b.WriteString("\n🛒 Shopping list\n")
	if len(plan.ShoppingList) == 0 {
		b.WriteString("Nothing to buy: the pantry covers the week.\n")
	}
	for _, item := range plan.ShoppingList {
		fmt.Fprintf(&b, "- %s: %.0f %s (≈ %.2f)\n", item.Name, item.Purchase, item.Unit, item.EstimatedCost)
	}
	fmt.Fprintf(&b, "Estimated total: %.2f\n", plan.TotalCost)

	if len(plan.Degradations) > 0 {
		b.WriteString("\n⚠️ Notes\n")
		for _, d := range plan.Degradations {
			fmt.Fprintf(&b, "- %s\n", d.Detail)
		}
	}
	return b.String()
}

// FormatShoppingList renders the shopping list of a stored plan.
func FormatShoppingList(plan *planner.WeeklyPlan) string {
	if len(plan.ShoppingList) == 0 {
		return "Nothing to buy: the pantry covers the week."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🛒 Shopping list, week of %s\n", plan.WeekStart.Format("Jan 2"))
	for _, item := range plan.ShoppingList {
		fmt.Fprintf(&b, "- %s: %.0f %s (≈ %.2f)\n", item.Name, item.Purchase, item.Unit, item.EstimatedCost)
	}
	fmt.Fprintf(&b, "Estimated total: %.2f\n", plan.TotalCost)
	return b.String()
}

// FormatPantry renders a household's pantry entries.
func FormatPantry(entries []pantry.Entry) string {
	if len(entries) == 0 {
		return "The pantry is empty."
	}
	var b strings.Builder
	b.WriteString("🥫 Pantry\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "- %s: %.1f %s\n", e.Ingredient.Name, e.Quantity.Amount, e.Quantity.Unit)
	}
	return b.String()
}

// FormatReminders renders the reminder schedule derived from a plan.
func FormatReminders(reminders []scheduler.Reminder) string {
	var b strings.Builder
	b.WriteString("⏰ Cooking reminders\n")
	for _, r := range reminders {
		fmt.Fprintf(&b, "- %s at %s\n", r.Title, r.At.Format("Mon Jan 2 15:04"))
	}
	return b.String()
}
