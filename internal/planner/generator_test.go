package planner

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"concierge-chef/internal/ingredient"
	"concierge-chef/internal/pantry"
	"concierge-chef/internal/profile"
	"concierge-chef/internal/recipe"
	"concierge-chef/internal/shared"
)

func veg(id string, price float64, ingredients ...string) recipe.Recipe {
	r := recipe.Recipe{
		ID:       id,
		Title:    "Recipe " + id,
		Diets:    []string{"vegetarian"},
		Servings: 2,
	}
	for _, name := range ingredients {
		r.Requirements = append(r.Requirements, recipe.Requirement{
			Ingredient: ingredient.Ingredient{Name: name, Unit: "g", Category: ingredient.CategoryOther, UnitPrice: price},
			Quantity:   ingredient.Quantity{Amount: 100, Unit: "g"},
		})
	}
	return r
}

func meat(id string, ingredients ...string) recipe.Recipe {
	r := veg(id, 0.01, ingredients...)
	r.Diets = nil
	return r
}

func emptyLedger(t *testing.T) *pantry.Ledger {
	t.Helper()
	l, err := pantry.NewLedger(nil)
	if err != nil {
		t.Fatalf("Failed to build ledger: %v", err)
	}
	return l
}

// vegCatalog builds 10 vegetarian and 5 non-vegetarian recipes.
func vegCatalog() *recipe.Catalog {
	var recipes []recipe.Recipe
	for i := 1; i <= 10; i++ {
		recipes = append(recipes, veg(fmt.Sprintf("v%02d", i), 0.01, fmt.Sprintf("veg-%02d", i)))
	}
	for i := 1; i <= 5; i++ {
		recipes = append(recipes, meat(fmt.Sprintf("m%02d", i), fmt.Sprintf("meat-%02d", i)))
	}
	return recipe.NewCatalog(recipes)
}

func TestGenerateHardConstraints(t *testing.T) {
	prof := profile.Profile{Diets: []string{"vegetarian"}, Servings: 2}
	selected, _, err := Generate(vegCatalog(), emptyLedger(t), prof, Options{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(selected) != SlotsPerWeek {
		t.Fatalf("Expected %d selections, got %d", SlotsPerWeek, len(selected))
	}
	seen := make(map[string]int)
	for _, r := range selected {
		if !r.HasDiet("vegetarian") {
			t.Errorf("Recipe %s violates the vegetarian constraint", r.ID)
		}
		seen[r.ID]++
	}
	// 10 eligible recipes for 7 slots: no repetition.
	for id, n := range seen {
		if n > 1 {
			t.Errorf("Recipe %s selected %d times despite a large enough catalog", id, n)
		}
	}
}

func TestGenerateExcludesDislikedIngredient(t *testing.T) {
	cat := recipe.NewCatalog([]recipe.Recipe{
		veg("r1", 0.01, "tofu"),
		veg("r2", 0.01, "mushroom"),
	})
	prof := profile.Profile{DislikedIngredients: []string{"Mushroom"}}

	selected, _, err := Generate(cat, emptyLedger(t), prof, Options{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for _, r := range selected {
		if r.Uses("mushroom") {
			t.Fatalf("Recipe %s contains a disliked ingredient", r.ID)
		}
	}
}

func TestGeneratePantryAffinityOrdering(t *testing.T) {
	stocked := veg("r9", 0.01, "rice")
	unstocked := veg("r1", 0.01, "quinoa")
	cat := recipe.NewCatalog([]recipe.Recipe{unstocked, stocked})

	ledger, err := pantry.NewLedger([]pantry.Entry{{
		Ingredient: ingredient.Ingredient{Name: "rice", Unit: "g"},
		Quantity:   ingredient.Quantity{Amount: 1000, Unit: "g"},
	}})
	if err != nil {
		t.Fatalf("Failed to build ledger: %v", err)
	}

	selected, _, err := Generate(cat, ledger, profile.Profile{Servings: 2}, Options{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	// The fully stocked recipe outranks the cheaper-id unstocked one.
	if selected[0].ID != "r9" {
		t.Errorf("Expected pantry-backed r9 first, got %s", selected[0].ID)
	}
}

func TestGenerateRecentUseSoftConstraint(t *testing.T) {
	t.Run("ExcludedWhenEnoughRemain", func(t *testing.T) {
		prof := profile.Profile{Diets: []string{"vegetarian"}, RecentRecipeIDs: []string{"v01", "v02", "v03"}}
		selected, degradations, err := Generate(vegCatalog(), emptyLedger(t), prof, Options{})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		for _, r := range selected {
			if prof.IsRecent(r.ID) {
				t.Errorf("Recent recipe %s selected while 7 fresh ones remained", r.ID)
			}
		}
		if len(degradations) != 0 {
			t.Errorf("Expected no degradations, got %v", degradations)
		}
	})

	t.Run("RelaxedWhenTooFewRemain", func(t *testing.T) {
		recent := []string{"v01", "v02", "v03", "v04", "v05", "v06", "v07"}
		prof := profile.Profile{Diets: []string{"vegetarian"}, RecentRecipeIDs: recent}
		selected, degradations, err := Generate(vegCatalog(), emptyLedger(t), prof, Options{})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if len(selected) != SlotsPerWeek {
			t.Fatalf("Expected a full plan, got %d slots", len(selected))
		}
		found := false
		for _, d := range degradations {
			if d.Code == shared.DegradationRecentUseRelaxed {
				found = true
			}
		}
		if !found {
			t.Error("Expected a recent_use_relaxed degradation")
		}
	})

	t.Run("StrictModeFails", func(t *testing.T) {
		recent := []string{"v01", "v02", "v03", "v04", "v05", "v06", "v07", "v08", "v09", "v10"}
		prof := profile.Profile{Diets: []string{"vegetarian"}, RecentRecipeIDs: recent}
		_, _, err := Generate(vegCatalog(), emptyLedger(t), prof, Options{StrictRecentUse: true})
		if !errors.Is(err, ErrInsufficientCatalog) {
			t.Fatalf("Expected ErrInsufficientCatalog in strict mode, got %v", err)
		}
	})

	t.Run("StrictModeRepeatsFreshInstead", func(t *testing.T) {
		// Strict mode keeps the recent filter even with only 3 fresh
		// recipes left; the shortage is covered by repeating fresh ones,
		// never by readmitting recent ones.
		recent := []string{"v01", "v02", "v03", "v04", "v05", "v06", "v07"}
		prof := profile.Profile{Diets: []string{"vegetarian"}, RecentRecipeIDs: recent}
		selected, degradations, err := Generate(vegCatalog(), emptyLedger(t), prof, Options{StrictRecentUse: true})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if len(selected) != SlotsPerWeek {
			t.Fatalf("Expected a full plan, got %d slots", len(selected))
		}
		for _, r := range selected {
			if prof.IsRecent(r.ID) {
				t.Errorf("Recent recipe %s selected in strict mode", r.ID)
			}
		}
		repeated, relaxed := false, false
		for _, d := range degradations {
			switch d.Code {
			case shared.DegradationRecipeRepeated:
				repeated = true
			case shared.DegradationRecentUseRelaxed:
				relaxed = true
			}
		}
		if !repeated {
			t.Error("Expected a recipe_repeated degradation")
		}
		if relaxed {
			t.Error("Did not expect recent-use relaxation in strict mode")
		}
	})
}

func TestGenerateMaxPrepTime(t *testing.T) {
	quick := veg("r1", 0.01, "tofu")
	quick.PrepMinutes = 20
	slow := veg("r2", 0.01, "lentils")
	slow.PrepMinutes = 90
	cat := recipe.NewCatalog([]recipe.Recipe{quick, slow})

	prof := profile.Profile{MaxPrepMinutes: 30}
	selected, _, err := Generate(cat, emptyLedger(t), prof, Options{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for _, r := range selected {
		if r.ID == "r2" {
			t.Fatalf("Recipe %s exceeds the prep time limit", r.ID)
		}
	}

	// No limit admits both.
	eligible := Eligible(cat, profile.Profile{})
	if len(eligible) != 2 {
		t.Errorf("Expected 2 eligible recipes without a limit, got %d", len(eligible))
	}
}

func TestGenerateWeeklyBudget(t *testing.T) {
	t.Run("SubstitutesCheaperCandidate", func(t *testing.T) {
		// A stocked luxury recipe ranks first on pantry affinity but
		// blows the budget; it is swapped for the unused cheaper one.
		var recipes []recipe.Recipe
		for i := 1; i <= 7; i++ {
			recipes = append(recipes, veg(fmt.Sprintf("r%d", i), 0.01*float64(i), fmt.Sprintf("veg-%d", i)))
		}
		fancy := veg("r-fancy", 1.0, "truffle")
		recipes = append(recipes, fancy)
		cat := recipe.NewCatalog(recipes)

		ledger, err := pantry.NewLedger([]pantry.Entry{{
			Ingredient: ingredient.Ingredient{Name: "truffle", Unit: "g"},
			Quantity:   ingredient.Quantity{Amount: 1000, Unit: "g"},
		}})
		if err != nil {
			t.Fatalf("Failed to build ledger: %v", err)
		}

		prof := profile.Profile{WeeklyBudget: 30}
		selected, degradations, err := Generate(cat, ledger, prof, Options{})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		var total float64
		for _, r := range selected {
			if r.ID == "r-fancy" {
				t.Error("Expected the luxury recipe to be substituted away")
			}
			total += r.EstimatedCost()
		}
		if total > prof.WeeklyBudget {
			t.Errorf("Expected total %.2f within budget %.2f", total, prof.WeeklyBudget)
		}

		found := false
		for _, d := range degradations {
			if d.Code == shared.DegradationBudgetSubstituted {
				found = true
			}
		}
		if !found {
			t.Error("Expected a budget_substituted degradation")
		}
	})

	t.Run("DisclosesOverrunWithoutCandidates", func(t *testing.T) {
		// No cheaper candidates exist: the run succeeds and the overrun
		// is disclosed on the artifact.
		cat := recipe.NewCatalog([]recipe.Recipe{
			veg("r1", 0.01, "a"),
			veg("r2", 0.02, "b"),
			veg("r3", 0.03, "c"),
		})
		prof := profile.Profile{WeeklyBudget: 1}
		_, degradations, err := Generate(cat, emptyLedger(t), prof, Options{})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		found := false
		for _, d := range degradations {
			if d.Code == shared.DegradationBudgetExceeded {
				found = true
			}
		}
		if !found {
			t.Error("Expected a budget_exceeded degradation")
		}
	})
}

func TestGenerateRoundRobinFallback(t *testing.T) {
	// 4 eligible recipes for 7 slots: repetition by score rank, never
	// the same recipe on adjacent days.
	cat := recipe.NewCatalog([]recipe.Recipe{
		veg("r1", 0.01, "a"),
		veg("r2", 0.02, "b"),
		veg("r3", 0.03, "c"),
		veg("r4", 0.04, "d"),
	})
	selected, degradations, err := Generate(cat, emptyLedger(t), profile.Profile{}, Options{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(selected) != SlotsPerWeek {
		t.Fatalf("Expected %d slots, got %d", SlotsPerWeek, len(selected))
	}
	for i := 1; i < len(selected); i++ {
		if selected[i].ID == selected[i-1].ID {
			t.Errorf("Adjacent slots %d and %d hold the same recipe %s", i-1, i, selected[i].ID)
		}
	}
	found := false
	for _, d := range degradations {
		if d.Code == shared.DegradationRecipeRepeated {
			found = true
		}
	}
	if !found {
		t.Error("Expected a recipe_repeated degradation")
	}
}

func TestGenerateInsufficientCatalog(t *testing.T) {
	cat := recipe.NewCatalog([]recipe.Recipe{meat("m1", "beef")})
	prof := profile.Profile{Diets: []string{"vegetarian"}}
	_, _, err := Generate(cat, emptyLedger(t), prof, Options{})
	if !errors.Is(err, ErrInsufficientCatalog) {
		t.Fatalf("Expected ErrInsufficientCatalog, got %v", err)
	}
}

func TestGenerateDeterminism(t *testing.T) {
	prof := profile.Profile{Diets: []string{"vegetarian"}, RecentRecipeIDs: []string{"v01"}, Servings: 4}
	first, firstDeg, err := Generate(vegCatalog(), emptyLedger(t), prof, Options{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	second, secondDeg, err := Generate(vegCatalog(), emptyLedger(t), prof, Options{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) || !reflect.DeepEqual(firstDeg, secondDeg) {
		t.Error("Expected identical plans for identical inputs")
	}
}
