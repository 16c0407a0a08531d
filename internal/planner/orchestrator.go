package planner

import (
	"concierge-chef/internal/pantry"
	"concierge-chef/internal/profile"
	"concierge-chef/internal/recipe"
	"concierge-chef/internal/shopping"
)

// RunWeeklyPlan composes generation and aggregation into one planning
// run over immutable snapshots. It adds no logic of its own: failures
// from either stage propagate unchanged, and degradations from both are
// collected onto the artifact.
func RunWeeklyPlan(cat *recipe.Catalog, ledger *pantry.Ledger, prof profile.Profile, opts Options) (*WeeklyPlan, error) {
	selected, degradations, err := Generate(cat, ledger, prof, opts)
	if err != nil {
		return nil, err
	}

	list := shopping.Aggregate(selected, ledger, prof, opts.Rounding)

	plan := &WeeklyPlan{
		WeekStart:    opts.WeekStart,
		Slots:        make([]MealSlot, 0, SlotsPerWeek),
		ShoppingList: list.Items,
		TotalCost:    list.TotalCost,
		Degradations: append(degradations, list.Degradations...),
	}
	for i, r := range selected {
		plan.Slots = append(plan.Slots, MealSlot{Day: Days[i], Recipe: r})
	}

	// Suggested recent-use update: each distinct recipe cooked this
	// week, in slot order. The profile owner decides whether to apply
	// it; the engine never writes back.
	seen := make(map[string]struct{}, len(selected))
	for _, r := range selected {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		plan.SuggestedRecentIDs = append(plan.SuggestedRecentIDs, r.ID)
	}

	return plan, nil
}
