package shopping

import (
	"fmt"
	"sort"

	"concierge-chef/internal/ingredient"
	"concierge-chef/internal/pantry"
	"concierge-chef/internal/profile"
	"concierge-chef/internal/recipe"
	"concierge-chef/internal/shared"
)

// epsilon absorbs float residue from unit conversion so equal physical
// amounts never leave a phantom deficit.
const epsilon = 1e-9

// Item is one consolidated shopping line. Deficit and Purchase are in
// base units of the ingredient's dimension; Purchase differs from
// Deficit only when the rounding policy bumped it to a pack size.
type Item struct {
	Name          string              `json:"name"`
	Unit          ingredient.Unit     `json:"unit"`
	Category      ingredient.Category `json:"category,omitempty"`
	Deficit       float64             `json:"deficit"`
	Purchase      float64             `json:"purchase"`
	EstimatedCost float64             `json:"estimated_cost"`
}

// Result is the aggregated shopping list for one plan.
type Result struct {
	Items        []Item               `json:"items"`
	TotalCost    float64              `json:"total_cost"`
	Degradations []shared.Degradation `json:"degradations,omitempty"`
}

type line struct {
	ingredient ingredient.Ingredient
	required   float64
}

// Aggregate diffs the union of the selected recipes' requirements
// against the pantry. Each ingredient key yields at most one line:
// requirements are summed across every slot (a repeated recipe is cooked
// again, so its ingredients count again), scaled to the household
// serving count, reduced by stock on hand and clamped at zero.
// Zero-deficit ingredients are omitted. Output is ordered by descending
// estimated cost, ties broken by name, for stable presentation.
func Aggregate(selected []recipe.Recipe, ledger *pantry.Ledger, prof profile.Profile, policy ingredient.RoundingPolicy) Result {
	if policy == nil {
		policy = ingredient.DefaultRoundingPolicy()
	}

	lines := make(map[ingredient.Key]*line)
	var order []ingredient.Key
	for _, r := range selected {
		factor := r.ServingFactor(prof.Servings)
		for _, req := range r.Requirements {
			key := req.Ingredient.Key()
			l, ok := lines[key]
			if !ok {
				l = &line{ingredient: req.Ingredient}
				lines[key] = l
				order = append(order, key)
			} else {
				// A later mention may carry the price or category the
				// first one lacked. First non-zero value wins, in slot
				// then requirement order, so consolidation stays
				// deterministic.
				if l.ingredient.UnitPrice == 0 && req.Ingredient.UnitPrice != 0 {
					l.ingredient.UnitPrice = req.Ingredient.UnitPrice
				}
				if l.ingredient.Category == "" && req.Ingredient.Category != "" {
					l.ingredient.Category = req.Ingredient.Category
				}
			}
			l.required += req.Quantity.Base() * factor
		}
	}

	var result Result
	for _, key := range order {
		l := lines[key]
		deficit := l.required - ledger.QuantityOf(l.ingredient)
		if deficit <= epsilon {
			continue
		}

		purchase := policy.RoundUp(l.ingredient.Category, deficit)
		if purchase > deficit+epsilon {
			result.Degradations = append(result.Degradations, shared.Degradation{
				Code: shared.DegradationPurchaseRounded,
				Detail: fmt.Sprintf("%s: deficit %.2f %s rounded up to purchasable %.2f %s",
					l.ingredient.Name, deficit, ingredient.BaseUnit(key.Dimension), purchase, ingredient.BaseUnit(key.Dimension)),
			})
		}

		cost := purchase * l.ingredient.UnitPrice
		if l.ingredient.UnitPrice == 0 {
			result.Degradations = append(result.Degradations, shared.Degradation{
				Code:   shared.DegradationUnpriced,
				Detail: fmt.Sprintf("%s has no reference price; estimated at zero", l.ingredient.Name),
			})
		}

		result.Items = append(result.Items, Item{
			Name:          ingredient.Canonical(l.ingredient.Name),
			Unit:          ingredient.BaseUnit(key.Dimension),
			Category:      l.ingredient.Category,
			Deficit:       deficit,
			Purchase:      purchase,
			EstimatedCost: cost,
		})
		result.TotalCost += cost
	}

	sort.Slice(result.Items, func(i, j int) bool {
		if result.Items[i].EstimatedCost != result.Items[j].EstimatedCost {
			return result.Items[i].EstimatedCost > result.Items[j].EstimatedCost
		}
		return result.Items[i].Name < result.Items[j].Name
	})
	return result
}
