package preferences

import (
	"context"
	"database/sql"
	"fmt"

	prefsdb "mealgen/internal/preferences/prefs_db"
)

// Repository is a database-backed repository for user preferences.
type Repository struct {
	queries *prefsdb.Queries
	db      *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: prefsdb.New(d),
		db:      d,
	}
}

// Get retrieves a user's preferences. A user without a stored profile
// yields nil, not an error.
func (r *Repository) Get(ctx context.Context, userID string) (*Preferences, error) {
	row, err := r.queries.GetPreferencesByUserID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get preferences for user %s: %w", userID, err)
	}

	prefs := &Preferences{
		UserID:              row.UserID,
		DietaryRestrictions: row.DietaryRestrictions.String,
		Allergies:           row.Allergies.String,
	}
	if row.TargetCaloriesPerDay.Valid {
		target := row.TargetCaloriesPerDay.Int64
		prefs.TargetCaloriesPerDay = &target
	}
	return prefs, nil
}

// Save inserts or replaces a user's preferences.
func (r *Repository) Save(ctx context.Context, prefs Preferences) error {
	params := prefsdb.UpsertPreferencesParams{
		UserID:              prefs.UserID,
		DietaryRestrictions: sql.NullString{String: prefs.DietaryRestrictions, Valid: prefs.DietaryRestrictions != ""},
		Allergies:           sql.NullString{String: prefs.Allergies, Valid: prefs.Allergies != ""},
	}
	if prefs.TargetCaloriesPerDay != nil {
		params.TargetCaloriesPerDay = sql.NullInt64{Int64: *prefs.TargetCaloriesPerDay, Valid: true}
	}

	if err := r.queries.UpsertPreferences(ctx, params); err != nil {
		return fmt.Errorf("failed to save preferences for user %s: %w", prefs.UserID, err)
	}
	return nil
}
