package pantry

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"concierge-chef/internal/ingredient"
)

// Repository is the between-run pantry source. The planning core never
// writes through it; inventory updates (restocking, depletion after a
// cooked week) land here from outside and become visible to the next
// run's ledger snapshot.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new pantry repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Upsert stores one entry for a household.
func (r *Repository) Upsert(ctx context.Context, userID string, e Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pantry_entries (user_id, name, unit, quantity, category, unit_price, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, name, unit) DO UPDATE SET
			quantity = excluded.quantity,
			category = excluded.category,
			unit_price = excluded.unit_price,
			updated_at = excluded.updated_at`,
		userID,
		ingredient.Canonical(e.Ingredient.Name),
		string(ingredient.NormalizeUnit(e.Ingredient.Unit)),
		e.Quantity.Amount,
		string(e.Ingredient.Category),
		e.Ingredient.UnitPrice,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert pantry entry %q: %w", e.Ingredient.Name, err)
	}
	return nil
}

// List returns a household's raw entries ordered by name and unit.
func (r *Repository) List(ctx context.Context, userID string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, unit, quantity, category, unit_price
		FROM pantry_entries WHERE user_id = ? ORDER BY name, unit`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pantry entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			name, unit, category string
			quantity, unitPrice  float64
		)
		if err := rows.Scan(&name, &unit, &quantity, &category, &unitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan pantry row: %w", err)
		}
		entries = append(entries, Entry{
			Ingredient: ingredient.Ingredient{
				Name:      name,
				Unit:      ingredient.Unit(unit),
				Category:  ingredient.Category(category),
				UnitPrice: unitPrice,
			},
			Quantity: ingredient.Quantity{Amount: quantity, Unit: ingredient.Unit(unit)},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pantry entries: %w", err)
	}
	return entries, nil
}

// LoadLedger builds the immutable ledger snapshot for one planning run.
func (r *Repository) LoadLedger(ctx context.Context, userID string) (*Ledger, error) {
	entries, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewLedger(entries)
}
