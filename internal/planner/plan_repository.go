package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// PlanRepository is a database-backed repository for weekly plans.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{db: d}
}

// Save inserts a new weekly plan and returns its database id.
func (r *PlanRepository) Save(ctx context.Context, userID string, plan *WeeklyPlan) (int64, error) {
	data, err := json.Marshal(plan)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal weekly plan: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO meal_plans (user_id, week_start, plan_data, created_at)
		VALUES (?, ?, ?, ?)`,
		userID, plan.WeekStart.UTC(), string(data), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert weekly plan: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read weekly plan id: %w", err)
	}
	return id, nil
}

// Latest retrieves the most recently stored plan for a user, or nil
// when none exists.
func (r *PlanRepository) Latest(ctx context.Context, userID string) (*WeeklyPlan, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `
		SELECT plan_data FROM meal_plans
		WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`, userID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest plan for %s: %w", userID, err)
	}

	var plan WeeklyPlan
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan for %s: %w", userID, err)
	}
	return &plan, nil
}

// StoredPlan pairs a plan artifact with its database id, which keys the
// stored shopping list.
type StoredPlan struct {
	ID   int64
	Plan WeeklyPlan
}

// ListRecent retrieves the N most recent plans for a user, newest first.
func (r *PlanRepository) ListRecent(ctx context.Context, userID string, limit int) ([]StoredPlan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, plan_data FROM meal_plans
		WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent plans for %s: %w", userID, err)
	}
	defer rows.Close()

	var plans []StoredPlan
	for rows.Next() {
		var (
			id   int64
			data string
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}
		var plan WeeklyPlan
		if err := json.Unmarshal([]byte(data), &plan); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan row: %w", err)
		}
		plans = append(plans, StoredPlan{ID: id, Plan: plan})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plans: %w", err)
	}
	return plans, nil
}
