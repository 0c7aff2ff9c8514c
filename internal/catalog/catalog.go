package catalog

// Item is a single purchasable catalog row for a store.
//
// Items are immutable for the duration of a planning run; the planner and the
// shopping list aggregator only ever read them.
type Item struct {
	ID           int64    `json:"id"`
	Store        string   `json:"store"`
	Name         string   `json:"name"`
	ExternalID   string   `json:"external_id"`
	Price        *float64 `json:"price,omitempty"`
	UnitSize     string   `json:"unit_size,omitempty"`
	CategoryPath string   `json:"category_path,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
}
