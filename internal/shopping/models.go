package shopping

import "time"

// Plan is the aggregator's view of a persisted meal plan: the stored plan
// document plus the date metadata used to resolve the per-day divisor.
type Plan struct {
	MealplanID int64
	Store      string
	StartDate  *time.Time
	EndDate    *time.Time
	PlanJSON   string
}

// Line is one consolidated shopping list entry. Price and LineTotal are nil
// when the catalog has no price for the item; Name falls back to a sentinel
// when the referenced item no longer resolves against the catalog.
type Line struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Qty       int      `json:"qty"`
	Price     *float64 `json:"price,omitempty"`
	UnitSize  string   `json:"unitSize,omitempty"`
	ImageURL  string   `json:"imageUrl,omitempty"`
	LineTotal *float64 `json:"lineTotal,omitempty"`
}

// Result is the consolidated shopping list for one meal plan, with the
// estimated cost and the per-day nutrition averages. Each average is nil when
// no referenced item contributed data for that field; absence of data is
// distinct from a true zero.
type Result struct {
	MealplanID     int64   `json:"mealplanId"`
	Store          string  `json:"store,omitempty"`
	Items          []Line  `json:"items"`
	EstimatedTotal float64 `json:"estimatedTotal"`

	CaloriesPerDay      *float64 `json:"caloriesPerDay,omitempty"`
	FatPerDay           *float64 `json:"fatPerDay,omitempty"`
	ProteinPerDay       *float64 `json:"proteinPerDay,omitempty"`
	CarbohydratesPerDay *float64 `json:"carbohydratesPerDay,omitempty"`
	SodiumPerDay        *float64 `json:"sodiumPerDay,omitempty"`
	FiberPerDay         *float64 `json:"fiberPerDay,omitempty"`
	SugarPerDay         *float64 `json:"sugarPerDay,omitempty"`
}
