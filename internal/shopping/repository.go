package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Repository handles persistence of aggregated shopping lists.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save stores the aggregated list for a plan and returns its id.
func (r *Repository) Save(ctx context.Context, userID string, mealPlanID int64, result Result) (int64, error) {
	items, err := json.Marshal(result.Items)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal shopping list items: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO shopping_lists (user_id, meal_plan_id, items, total_cost, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		userID, mealPlanID, string(items), result.TotalCost, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert shopping list: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read shopping list id: %w", err)
	}
	return id, nil
}

// GetByMealPlanID retrieves the stored list for a plan, or nil when no
// list exists.
func (r *Repository) GetByMealPlanID(ctx context.Context, mealPlanID int64) (*Result, error) {
	var (
		items     string
		totalCost float64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT items, total_cost FROM shopping_lists WHERE meal_plan_id = ?
		ORDER BY created_at DESC, id DESC LIMIT 1`, mealPlanID).Scan(&items, &totalCost)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping list for plan %d: %w", mealPlanID, err)
	}

	result := &Result{TotalCost: totalCost}
	if err := json.Unmarshal([]byte(items), &result.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list items: %w", err)
	}
	return result, nil
}
