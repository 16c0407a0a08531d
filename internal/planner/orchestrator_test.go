package planner

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"concierge-chef/internal/ingredient"
	"concierge-chef/internal/pantry"
	"concierge-chef/internal/profile"
	"concierge-chef/internal/recipe"
)

func TestRunWeeklyPlan(t *testing.T) {
	rice := ingredient.Ingredient{Name: "rice", Unit: "cup", Category: ingredient.CategoryGrain, UnitPrice: 0.002}
	cat := recipe.NewCatalog([]recipe.Recipe{
		{ID: "r1", Title: "Rice Bowl", Diets: []string{"vegetarian"}, Servings: 2, Requirements: []recipe.Requirement{
			{Ingredient: rice, Quantity: ingredient.Quantity{Amount: 1, Unit: "cup"}},
		}},
		{ID: "r2", Title: "Fried Rice", Diets: []string{"vegetarian"}, Servings: 2, Requirements: []recipe.Requirement{
			{Ingredient: rice, Quantity: ingredient.Quantity{Amount: 3, Unit: "cup"}},
		}},
	})
	ledger, err := pantry.NewLedger([]pantry.Entry{
		{Ingredient: rice, Quantity: ingredient.Quantity{Amount: 2, Unit: "cup"}},
	})
	if err != nil {
		t.Fatalf("Failed to build ledger: %v", err)
	}
	prof := profile.Profile{Diets: []string{"vegetarian"}, Servings: 2}
	weekStart := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	plan, err := RunWeeklyPlan(cat, ledger, prof, Options{WeekStart: weekStart})
	if err != nil {
		t.Fatalf("RunWeeklyPlan failed: %v", err)
	}

	t.Run("SlotsCoverTheWeek", func(t *testing.T) {
		if len(plan.Slots) != SlotsPerWeek {
			t.Fatalf("Expected %d slots, got %d", SlotsPerWeek, len(plan.Slots))
		}
		if plan.Slots[0].Day != "Monday" || plan.Slots[6].Day != "Sunday" {
			t.Errorf("Expected Monday through Sunday, got %s..%s", plan.Slots[0].Day, plan.Slots[6].Day)
		}
		if !plan.WeekStart.Equal(weekStart) {
			t.Errorf("Expected week start %v, got %v", weekStart, plan.WeekStart)
		}
	})

	t.Run("DegradationsDisclosed", func(t *testing.T) {
		// Two recipes over seven slots forces repetition; the artifact
		// must say so.
		if len(plan.Degradations) == 0 {
			t.Error("Expected repetition degradation on the artifact")
		}
	})

	t.Run("SuggestedRecents", func(t *testing.T) {
		if !reflect.DeepEqual(plan.SuggestedRecentIDs, []string{"r1", "r2"}) {
			t.Errorf("Expected suggested ids [r1 r2], got %v", plan.SuggestedRecentIDs)
		}
	})

	t.Run("ShoppingListPriced", func(t *testing.T) {
		if len(plan.ShoppingList) == 0 {
			t.Fatal("Expected a shopping list")
		}
		var sum float64
		for _, item := range plan.ShoppingList {
			sum += item.EstimatedCost
		}
		if math.Abs(sum-plan.TotalCost) > 1e-9 {
			t.Errorf("Expected total %f to equal item sum %f", plan.TotalCost, sum)
		}
	})

	t.Run("ByteIdenticalReruns", func(t *testing.T) {
		again, err := RunWeeklyPlan(cat, ledger, prof, Options{WeekStart: weekStart})
		if err != nil {
			t.Fatalf("RunWeeklyPlan failed: %v", err)
		}
		a, _ := json.Marshal(plan)
		b, _ := json.Marshal(again)
		if string(a) != string(b) {
			t.Error("Expected byte-identical artifacts across reruns")
		}
	})
}

func TestRunWeeklyPlanPropagatesFailure(t *testing.T) {
	cat := recipe.NewCatalog(nil)
	ledger, err := pantry.NewLedger(nil)
	if err != nil {
		t.Fatalf("Failed to build ledger: %v", err)
	}
	_, err = RunWeeklyPlan(cat, ledger, profile.Profile{}, Options{})
	if !errors.Is(err, ErrInsufficientCatalog) {
		t.Fatalf("Expected ErrInsufficientCatalog, got %v", err)
	}
}
