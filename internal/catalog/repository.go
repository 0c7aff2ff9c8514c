package catalog

import (
	"context"
	"database/sql"
	"fmt"

	catalogdb "mealgen/internal/catalog/catalog_db"
)

// Repository is a database-backed repository for catalog items.
type Repository struct {
	queries *catalogdb.Queries
	db      *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: catalogdb.New(d),
		db:      d,
	}
}

// FindByStore retrieves every item for a store. The store tag is matched
// case-insensitively. An unknown store yields an empty slice, not an error.
func (r *Repository) FindByStore(ctx context.Context, store string) ([]Item, error) {
	rows, err := r.queries.GetItemsByStore(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to get items for store %s: %w", store, err)
	}

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, fromRow(row))
	}
	return items, nil
}

// FindByIDs retrieves multiple items by their IDs. IDs without a matching row
// are simply absent from the result; no ordering is guaranteed.
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) ([]Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.queries.GetItemsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get items by IDs: %w", err)
	}

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, fromRow(row))
	}
	return items, nil
}

// Upsert inserts or updates an item keyed by (store, external_id) and returns
// its database ID.
func (r *Repository) Upsert(ctx context.Context, item Item) (int64, error) {
	params := catalogdb.UpsertItemParams{
		Store:        item.Store,
		Name:         item.Name,
		ExternalID:   item.ExternalID,
		UnitSize:     toNullString(item.UnitSize),
		CategoryPath: toNullString(item.CategoryPath),
		ImageUrl:     toNullString(item.ImageURL),
	}
	if item.Price != nil {
		params.Price = sql.NullFloat64{Float64: *item.Price, Valid: true}
	}

	id, err := r.queries.UpsertItem(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert item %s/%s: %w", item.Store, item.ExternalID, err)
	}
	return id, nil
}

// Count returns the number of items in the catalog.
func (r *Repository) Count(ctx context.Context) (int, error) {
	count, err := r.queries.CountItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return int(count), nil
}

func fromRow(row catalogdb.Item) Item {
	item := Item{
		ID:           row.ID,
		Store:        row.Store,
		Name:         row.Name,
		ExternalID:   row.ExternalID,
		UnitSize:     row.UnitSize.String,
		CategoryPath: row.CategoryPath.String,
		ImageURL:     row.ImageUrl.String,
	}
	if row.Price.Valid {
		price := row.Price.Float64
		item.Price = &price
	}
	return item
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
