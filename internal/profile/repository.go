package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Repository persists preference profiles. The planning engine reads a
// snapshot per run; applying a suggested recent-use update is an
// explicit owner action through ApplyRecentUse.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new profile repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save inserts or updates a profile.
func (r *Repository) Save(ctx context.Context, p Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		p.UserID, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save profile for %s: %w", p.UserID, err)
	}
	return nil
}

// Get retrieves a profile snapshot. A household without a stored
// profile gets an unconstrained default.
func (r *Repository) Get(ctx context.Context, userID string, defaultServings int) (Profile, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM profiles WHERE user_id = ?`, userID).Scan(&data)
	if err == sql.ErrNoRows {
		return Profile{UserID: userID, Servings: defaultServings}, nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("failed to get profile for %s: %w", userID, err)
	}

	var p Profile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return Profile{}, fmt.Errorf("failed to unmarshal profile for %s: %w", userID, err)
	}
	if p.Servings <= 0 {
		p.Servings = defaultServings
	}
	return p, nil
}

// ApplyRecentUse replaces the recent-use set with the suggestion from
// the latest plan artifact.
func (r *Repository) ApplyRecentUse(ctx context.Context, userID string, recentIDs []string, defaultServings int) error {
	p, err := r.Get(ctx, userID, defaultServings)
	if err != nil {
		return err
	}
	p.UserID = userID
	p.RecentRecipeIDs = recentIDs
	return r.Save(ctx, p)
}
