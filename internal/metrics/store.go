package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"concierge-chef/internal/shared"
)

// PlanRunMetric records metadata for a single planning run.
type PlanRunMetric struct {
	UserID           string
	Duration         time.Duration
	EligibleCount    int
	DegradationCount int
	TotalCost        float64
	Timestamp        time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// RecordPlanRun saves a planning-run metric.
func (s *Store) RecordPlanRun(ctx context.Context, m PlanRunMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plan_metrics (user_id, duration_ms, eligible_count, degradation_count, total_cost, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.UserID, m.Duration.Milliseconds(), m.EligibleCount, m.DegradationCount, m.TotalCost, ts)
	if err != nil {
		return fmt.Errorf("failed to record plan run metric: %w", err)
	}
	return nil
}

// RecordAgentMeta saves an LLM execution metric from shared.AgentMeta.
// Executions with no token usage are skipped.
func (s *Store) RecordAgentMeta(ctx context.Context, meta shared.AgentMeta) error {
	if meta.Usage.PromptTokens == 0 && meta.Usage.CompletionTokens == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO llm_metrics (agent_name, model, prompt_tokens, completion_tokens, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		meta.AgentName, meta.Model, meta.Usage.PromptTokens, meta.Usage.CompletionTokens,
		meta.Latency.Milliseconds(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record llm metric: %w", err)
	}
	return nil
}

// DailyPlanCount represents planning runs for a single day.
type DailyPlanCount struct {
	Date string
	Runs int
}

// GetDailyPlanCounts retrieves run counts for the last N days.
func (s *Store) GetDailyPlanCounts(ctx context.Context, days int) ([]DailyPlanCount, error) {
	since := time.Now().AddDate(0, 0, -days).UTC()
	rows, err := s.db.QueryContext(ctx, `
		SELECT date(created_at) AS day, COUNT(*) FROM plan_metrics
		WHERE created_at >= ? GROUP BY day ORDER BY day`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily plan counts: %w", err)
	}
	defer rows.Close()

	var out []DailyPlanCount
	for rows.Next() {
		var d DailyPlanCount
		if err := rows.Scan(&d.Date, &d.Runs); err != nil {
			return nil, fmt.Errorf("failed to scan daily plan count: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily plan counts: %w", err)
	}
	return out, nil
}
