package planner

import (
	"time"

	"concierge-chef/internal/recipe"
	"concierge-chef/internal/shared"
	"concierge-chef/internal/shopping"
)

// Days of the week, in slot order.
var Days = [SlotsPerWeek]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// MealSlot binds one calendar day to its selected recipe.
type MealSlot struct {
	Day    string        `json:"day"`
	Recipe recipe.Recipe `json:"recipe"`
}

// WeeklyPlan is the single immutable artifact of one planning run: the
// seven meal slots, the consolidated shopping list with its cost
// estimate, every soft degradation applied along the way, and the
// recent-use update suggested to the profile owner. Once assembled it
// is owned by the caller; the engine keeps no reference.
type WeeklyPlan struct {
	WeekStart          time.Time            `json:"week_start"`
	Slots              []MealSlot           `json:"slots"`
	ShoppingList       []shopping.Item      `json:"shopping_list"`
	TotalCost          float64              `json:"total_cost"`
	Degradations       []shared.Degradation `json:"degradations,omitempty"`
	SuggestedRecentIDs []string             `json:"suggested_recent_ids"`
}
