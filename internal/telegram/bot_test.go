package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"concierge-chef/internal/ingredient"
	"concierge-chef/internal/pantry"
	"concierge-chef/internal/planner"
	"concierge-chef/internal/recipe"
	"concierge-chef/internal/scheduler"
	"concierge-chef/internal/shared"
	"concierge-chef/internal/shopping"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestFormatPlan(t *testing.T) {
	plan := &planner.WeeklyPlan{
		WeekStart: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		Slots: []planner.MealSlot{
			{Day: "Monday", Recipe: recipe.Recipe{ID: "r1", Title: "Rice Bowl"}},
			{Day: "Tuesday", Recipe: recipe.Recipe{ID: "r2", Title: "Tomato Pasta"}},
		},
		ShoppingList: []shopping.Item{
			{Name: "rice", Unit: "ml", Purchase: 480, EstimatedCost: 0.96},
		},
		TotalCost: 0.96,
		Degradations: []shared.Degradation{
			{Code: shared.DegradationRecipeRepeated, Detail: "only 2 eligible recipes for 7 slots; repeating by score rank"},
		},
	}

	out := FormatPlan(plan)

	for _, want := range []string{"Monday: Rice Bowl", "Tuesday: Tomato Pasta", "rice", "0.96", "only 2 eligible recipes"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestFormatPlanEmptyList(t *testing.T) {
	out := FormatPlan(&planner.WeeklyPlan{})
	if !strings.Contains(out, "Nothing to buy") {
		t.Errorf("Expected empty-list message, got:\n%s", out)
	}
}

func TestFormatShoppingList(t *testing.T) {
	plan := &planner.WeeklyPlan{
		WeekStart: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		ShoppingList: []shopping.Item{
			{Name: "flour", Unit: "g", Purchase: 454, EstimatedCost: 0.91},
		},
		TotalCost: 0.91,
	}
	out := FormatShoppingList(plan)
	if !strings.Contains(out, "flour") || !strings.Contains(out, "0.91") {
		t.Errorf("Expected flour line with cost, got:\n%s", out)
	}

	if got := FormatShoppingList(&planner.WeeklyPlan{}); !strings.Contains(got, "Nothing to buy") {
		t.Errorf("Expected empty-list message, got %q", got)
	}
}

func TestFormatPantry(t *testing.T) {
	out := FormatPantry([]pantry.Entry{
		{Ingredient: ingredient.Ingredient{Name: "rice", Unit: "g"}, Quantity: ingredient.Quantity{Amount: 500, Unit: "g"}},
	})
	if !strings.Contains(out, "rice: 500.0 g") {
		t.Errorf("Expected rice line, got:\n%s", out)
	}

	if got := FormatPantry(nil); got != "The pantry is empty." {
		t.Errorf("Expected empty pantry message, got %q", got)
	}
}

func TestFormatReminders(t *testing.T) {
	out := FormatReminders([]scheduler.Reminder{
		{Title: "Cook: Rice Bowl", At: time.Date(2026, 8, 31, 19, 0, 0, 0, time.UTC)},
	})
	if !strings.Contains(out, "Cook: Rice Bowl") {
		t.Errorf("Expected reminder title, got:\n%s", out)
	}
}

func TestNotifierDeliversReminders(t *testing.T) {
	var sent []tgbotapi.MessageConfig
	n := &Notifier{
		chatID: 42,
		send: func(c tgbotapi.Chattable) (tgbotapi.Message, error) {
			sent = append(sent, c.(tgbotapi.MessageConfig))
			return tgbotapi.Message{}, nil
		},
	}

	reminders := []scheduler.Reminder{
		{Title: "Cook: Rice Bowl", At: time.Date(2026, 8, 31, 19, 0, 0, 0, time.UTC), Note: "Prep time: 25 mins"},
		{Title: "Cook: Tomato Pasta", At: time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC), Note: "Prep time: 30 mins"},
	}
	if err := scheduler.Dispatch(context.Background(), n, reminders); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if len(sent) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(sent))
	}
	if sent[0].ChatID != 42 {
		t.Errorf("Expected chat 42, got %d", sent[0].ChatID)
	}
	if !strings.Contains(sent[0].Text, "Cook: Rice Bowl") || !strings.Contains(sent[0].Text, "Prep time: 25 mins") {
		t.Errorf("Unexpected reminder text:\n%s", sent[0].Text)
	}
}

func TestNotifierSendFailure(t *testing.T) {
	n := &Notifier{
		chatID: 42,
		send: func(_ tgbotapi.Chattable) (tgbotapi.Message, error) {
			return tgbotapi.Message{}, errors.New("network down")
		},
	}
	err := n.Notify(context.Background(), scheduler.Reminder{Title: "Cook: Rice Bowl"})
	if err == nil {
		t.Fatal("Expected a delivery error, got nil")
	}
}

func TestNextMonday(t *testing.T) {
	// A Tuesday rolls forward to the following Monday.
	tue := time.Date(2026, 8, 25, 15, 30, 0, 0, time.UTC)
	got := nextMonday(tue)
	if got.Weekday() != time.Monday {
		t.Fatalf("Expected a Monday, got %s", got.Weekday())
	}
	if got.Day() != 31 {
		t.Errorf("Expected Aug 31, got %v", got)
	}

	// A Monday rolls to the next week, never today.
	mon := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	if got := nextMonday(mon); got.Day() != 7 || got.Month() != time.September {
		t.Errorf("Expected Sep 7, got %v", got)
	}
}
