package planner

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"concierge-chef/internal/ingredient"
	"concierge-chef/internal/pantry"
	"concierge-chef/internal/profile"
	"concierge-chef/internal/recipe"
	"concierge-chef/internal/shared"
)

// SlotsPerWeek is the number of dinner slots in one plan.
const SlotsPerWeek = 7

// ErrInsufficientCatalog reports that no recipe satisfies the active
// hard constraints, so not even one slot can be filled. The caller
// decides whether to relax constraints and retry.
var ErrInsufficientCatalog = errors.New("no recipe satisfies the active constraints")

// Options tunes a planning run.
type Options struct {
	// StrictRecentUse keeps recently cooked recipes out of the pool
	// even when that leaves fewer recipes than slots. The shortage then
	// falls back to repetition of fresh recipes; the run fails with
	// ErrInsufficientCatalog only when no fresh recipe remains.
	StrictRecentUse bool

	// Rounding is the purchase rounding policy handed to the shopping
	// aggregator. Nil means exact purchases.
	Rounding ingredient.RoundingPolicy

	// WeekStart is the date of the first slot (Monday).
	WeekStart time.Time
}

type candidate struct {
	recipe   recipe.Recipe
	affinity float64
	cost     float64
}

// Generate selects seven recipes for the week. Selection is a pure
// function of its inputs: filtering, scoring and tie-breaking are all
// deterministic, so identical snapshots always yield identical plans.
func Generate(cat *recipe.Catalog, ledger *pantry.Ledger, prof profile.Profile, opts Options) ([]recipe.Recipe, []shared.Degradation, error) {
	var degradations []shared.Degradation

	eligible := hardFilter(cat, prof)
	if len(eligible) == 0 {
		return nil, nil, ErrInsufficientCatalog
	}

	fresh := make([]recipe.Recipe, 0, len(eligible))
	for _, r := range eligible {
		if !prof.IsRecent(r.ID) {
			fresh = append(fresh, r)
		}
	}

	pool := fresh
	if len(fresh) < SlotsPerWeek && len(fresh) < len(eligible) {
		if opts.StrictRecentUse {
			if len(fresh) == 0 {
				return nil, nil, ErrInsufficientCatalog
			}
		} else {
			log.Printf("[planner] relaxing recent-use exclusion: %d fresh of %d eligible recipes", len(fresh), len(eligible))
			degradations = append(degradations, shared.Degradation{
				Code:   shared.DegradationRecentUseRelaxed,
				Detail: fmt.Sprintf("only %d of %d eligible recipes are outside the recent-use window", len(fresh), len(eligible)),
			})
			pool = eligible
		}
	}
	if len(pool) == 0 {
		return nil, nil, ErrInsufficientCatalog
	}

	ranked := rank(pool, ledger, prof)

	selected := make([]recipe.Recipe, 0, SlotsPerWeek)
	if len(ranked) >= SlotsPerWeek {
		for i := 0; i < SlotsPerWeek; i++ {
			selected = append(selected, ranked[i].recipe)
		}
	} else {
		// Fewer eligible recipes than slots: repeat round-robin by score
		// rank. With more than one recipe the rotation never puts the same
		// id on adjacent days; with a single recipe repetition is forced.
		for i := 0; i < SlotsPerWeek; i++ {
			selected = append(selected, ranked[i%len(ranked)].recipe)
		}
		degradations = append(degradations, shared.Degradation{
			Code:   shared.DegradationRecipeRepeated,
			Detail: fmt.Sprintf("only %d eligible recipes for %d slots; repeating by score rank", len(ranked), SlotsPerWeek),
		})
	}

	selected, budgetDegradations := applyBudget(selected, ranked, prof)
	degradations = append(degradations, budgetDegradations...)

	return selected, degradations, nil
}

// applyBudget re-optimizes a selection against the household's weekly
// budget. The most expensive slot is swapped for the best-ranked unused
// candidate that costs less, repeatedly, each swap recorded as a
// degradation. When no cheaper candidate remains and the plan is still
// over budget, the overrun is disclosed instead of failing the run.
func applyBudget(selected []recipe.Recipe, ranked []candidate, prof profile.Profile) ([]recipe.Recipe, []shared.Degradation) {
	if prof.WeeklyBudget <= 0 {
		return selected, nil
	}

	cost := func(r recipe.Recipe) float64 {
		return r.EstimatedCost() * r.ServingFactor(prof.Servings)
	}

	used := make(map[string]bool, len(selected))
	var total float64
	for _, r := range selected {
		used[r.ID] = true
		total += cost(r)
	}
	var spares []candidate
	for _, c := range ranked {
		if !used[c.recipe.ID] {
			spares = append(spares, c)
		}
	}

	var degradations []shared.Degradation
	for total > prof.WeeklyBudget+1e-9 {
		worst := 0
		for i, r := range selected {
			if cost(r) > cost(selected[worst]) {
				worst = i
			}
		}

		swapped := false
		for i, c := range spares {
			if cost(c.recipe) < cost(selected[worst]) {
				degradations = append(degradations, shared.Degradation{
					Code:   shared.DegradationBudgetSubstituted,
					Detail: fmt.Sprintf("replaced %s with cheaper %s to meet the weekly budget", selected[worst].ID, c.recipe.ID),
				})
				total += cost(c.recipe) - cost(selected[worst])
				selected[worst] = c.recipe
				spares = append(spares[:i], spares[i+1:]...)
				swapped = true
				break
			}
		}
		if !swapped {
			degradations = append(degradations, shared.Degradation{
				Code:   shared.DegradationBudgetExceeded,
				Detail: fmt.Sprintf("estimated recipe cost %.2f exceeds the weekly budget %.2f", total, prof.WeeklyBudget),
			})
			break
		}
	}
	return selected, degradations
}

// Eligible returns the recipes passing every hard constraint, in
// catalog order. Exposed for run metrics and diagnostics.
func Eligible(cat *recipe.Catalog, prof profile.Profile) []recipe.Recipe {
	return hardFilter(cat, prof)
}

// hardFilter drops recipes violating any hard constraint: a missing
// required diet flag, a disliked ingredient, a disliked tag or a prep
// time over the household limit each exclude a recipe unconditionally.
func hardFilter(cat *recipe.Catalog, prof profile.Profile) []recipe.Recipe {
	var out []recipe.Recipe
	for _, r := range cat.Recipes() {
		if !compatible(r, prof) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func compatible(r recipe.Recipe, prof profile.Profile) bool {
	for _, diet := range prof.Diets {
		if !r.HasDiet(diet) {
			return false
		}
	}
	for _, req := range r.Requirements {
		if prof.DislikesIngredient(req.Ingredient.Name) {
			return false
		}
	}
	for _, tag := range r.Tags {
		if prof.DislikesTag(tag) {
			return false
		}
	}
	if prof.MaxPrepMinutes > 0 && r.PrepMinutes > prof.MaxPrepMinutes {
		return false
	}
	return true
}

// rank orders recipes by pantry affinity (fraction of requirements fully
// coverable from stock, scaled to the household serving count), breaking
// ties by lower estimated cost, then by recipe id.
func rank(pool []recipe.Recipe, ledger *pantry.Ledger, prof profile.Profile) []candidate {
	ranked := make([]candidate, 0, len(pool))
	for _, r := range pool {
		ranked = append(ranked, candidate{
			recipe:   r,
			affinity: pantryAffinity(r, ledger, prof),
			cost:     r.EstimatedCost(),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].affinity != ranked[j].affinity {
			return ranked[i].affinity > ranked[j].affinity
		}
		if ranked[i].cost != ranked[j].cost {
			return ranked[i].cost < ranked[j].cost
		}
		return ranked[i].recipe.ID < ranked[j].recipe.ID
	})
	return ranked
}

func pantryAffinity(r recipe.Recipe, ledger *pantry.Ledger, prof profile.Profile) float64 {
	if len(r.Requirements) == 0 {
		return 0
	}
	factor := r.ServingFactor(prof.Servings)
	satisfied := 0
	for _, req := range r.Requirements {
		needed := req.Quantity.Base() * factor
		if ledger.QuantityOf(req.Ingredient) >= needed {
			satisfied++
		}
	}
	return float64(satisfied) / float64(len(r.Requirements))
}
