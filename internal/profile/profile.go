package profile

import (
	"strings"

	"concierge-chef/internal/ingredient"
)

// Profile is the per-household preference snapshot read by a planning
// run. The engine never mutates it; updated recent-use ids are handed
// back to the owner as a suggestion on the plan artifact.
type Profile struct {
	UserID              string   `json:"user_id"`
	Diets               []string `json:"diets,omitempty"`
	DislikedIngredients []string `json:"disliked_ingredients,omitempty"`
	DislikedTags        []string `json:"disliked_tags,omitempty"`
	RecentRecipeIDs     []string `json:"recent_recipe_ids,omitempty"`
	Servings            int      `json:"servings"`

	// MaxPrepMinutes excludes recipes with a longer prep time. Zero
	// means no limit.
	MaxPrepMinutes int `json:"max_prep_minutes,omitempty"`

	// WeeklyBudget caps the estimated recipe cost of a week. Zero means
	// no cap.
	WeeklyBudget float64 `json:"weekly_budget,omitempty"`
}

// DislikesIngredient reports whether the canonicalized name is disliked.
func (p Profile) DislikesIngredient(name string) bool {
	canonical := ingredient.Canonical(name)
	for _, d := range p.DislikedIngredients {
		if ingredient.Canonical(d) == canonical {
			return true
		}
	}
	return false
}

// DislikesTag reports whether the tag is disliked.
func (p Profile) DislikesTag(tag string) bool {
	for _, d := range p.DislikedTags {
		if strings.EqualFold(d, tag) {
			return true
		}
	}
	return false
}

// IsRecent reports whether the recipe id is in the recent-use set.
func (p Profile) IsRecent(recipeID string) bool {
	for _, id := range p.RecentRecipeIDs {
		if id == recipeID {
			return true
		}
	}
	return false
}
