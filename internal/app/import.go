package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"mealgen/internal/catalog"
	"mealgen/internal/nutrition"
)

// importedItem is one entry of a catalog export file: a JSON array of
// products, optionally carrying a per-serving nutrition panel.
type importedItem struct {
	Store        string          `json:"store"`
	Sku          string          `json:"sku"`
	Name         string          `json:"name"`
	Price        *float64        `json:"price"`
	UnitSize     string          `json:"unit_size"`
	CategoryPath string          `json:"categories"`
	ImageURL     string          `json:"image_url"`
	Nutrition    *nutrition.Fact `json:"nutrition"`
}

// ImportCatalog loads a catalog export file and upserts its items, and any
// nutrition panels, for the given store. Entries without a SKU or name are
// skipped; a re-run updates rather than duplicates.
func (a *App) ImportCatalog(ctx context.Context, store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog file: %w", err)
	}

	var entries []importedItem
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("expected a JSON array of items: %w", err)
	}

	upserted := 0
	nutritionUpserted := 0
	skipped := 0
	for _, entry := range entries {
		if entry.Sku == "" || entry.Name == "" {
			skipped++
			continue
		}

		entryStore := entry.Store
		if entryStore == "" {
			entryStore = store
		}

		id, err := a.catalogRepo.Upsert(ctx, catalog.Item{
			Store:        entryStore,
			Name:         entry.Name,
			ExternalID:   entry.Sku,
			Price:        entry.Price,
			UnitSize:     entry.UnitSize,
			CategoryPath: entry.CategoryPath,
			ImageURL:     entry.ImageURL,
		})
		if err != nil {
			log.Printf("Failed to save item %s (%s): %v", entry.Name, entry.Sku, err)
			skipped++
			continue
		}
		upserted++

		if entry.Nutrition == nil {
			continue
		}
		doc, err := json.Marshal(map[string]any{"parsed": entry.Nutrition})
		if err != nil {
			return fmt.Errorf("failed to encode nutrition for %s: %w", entry.Sku, err)
		}
		if err := a.nutritionRepo.Upsert(ctx, id, string(doc)); err != nil {
			log.Printf("Failed to save nutrition for %s: %v", entry.Sku, err)
			continue
		}
		nutritionUpserted++
	}

	fmt.Printf("Imported %d items (%d with nutrition), skipped %d.\n", upserted, nutritionUpserted, skipped)
	return nil
}
