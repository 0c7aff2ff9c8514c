package nutrition

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	nutritiondb "mealgen/internal/nutrition/nutrition_db"
)

// Repository is a database-backed repository for item nutrition documents.
type Repository struct {
	queries *nutritiondb.Queries
	db      *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: nutritiondb.New(d),
		db:      d,
	}
}

// FindByItemIDs retrieves the raw nutrition JSON documents for the given item
// IDs. Items without a nutrition row are absent from the map.
func (r *Repository) FindByItemIDs(ctx context.Context, itemIDs []int64) (map[int64]string, error) {
	if len(itemIDs) == 0 {
		return map[int64]string{}, nil
	}

	rows, err := r.queries.GetNutritionByItemIDs(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get nutrition for items: %w", err)
	}

	result := make(map[int64]string, len(rows))
	for _, row := range rows {
		result[row.ItemID] = row.Nutrition
	}
	return result, nil
}

// Upsert stores the nutrition JSON document for an item.
func (r *Repository) Upsert(ctx context.Context, itemID int64, nutritionJSON string) error {
	err := r.queries.UpsertNutrition(ctx, nutritiondb.UpsertNutritionParams{
		ItemID:    itemID,
		Nutrition: nutritionJSON,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to upsert nutrition for item %d: %w", itemID, err)
	}
	return nil
}
