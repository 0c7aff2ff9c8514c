package planner

import (
	"mealgen/internal/preferences"
)

// The wire shape of a generated plan document. The document is schemaless by
// contract (it has to accept output from the external generation delegate
// too), so these types exist only for the producing side; consumers re-parse
// leniently (see ExtractItemCounts).

// ItemRef is one item reference inside a meal.
type ItemRef struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Price        *float64 `json:"price"`
	CategoryPath string   `json:"categoryPath"`
	ImageURL     string   `json:"imageUrl"`
}

// Meal is one named meal with its item references.
type Meal struct {
	Name  string    `json:"name"`
	Items []ItemRef `json:"items"`
}

// Day is the plan for a single calendar date (ISO format).
type Day struct {
	Date  string `json:"date"`
	Meals []Meal `json:"meals"`
}

// Document is a full plan document.
type Document struct {
	Store       string              `json:"store"`
	Days        int                 `json:"days"`
	Preferences preferences.Summary `json:"preferences"`
	Plan        []Day               `json:"plan"`
}
