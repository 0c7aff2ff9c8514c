package planner

import (
	"strings"

	"mealgen/internal/catalog"
)

// minViableItems is the smallest filtered catalog the planner will work
// with. When an allergy list is aggressive enough to drop the catalog below
// this size, the filter is discarded and the full catalog is used instead:
// an unusable plan would be a worse outcome for the user than a plan that
// still needs a manual scan for allergens.
const minViableItems = 10

// FilterAllergies removes items whose name contains any of the given allergy
// terms as a case-insensitive substring. Terms are expected to be trimmed and
// lower-cased already (see preferences.SplitTerms). If the result falls below
// the minimum viable size, the unfiltered input is returned.
func FilterAllergies(items []catalog.Item, terms []string) []catalog.Item {
	if len(terms) == 0 {
		return items
	}

	filtered := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		if !nameContainsAny(item.Name, terms) {
			filtered = append(filtered, item)
		}
	}

	if len(filtered) < minViableItems {
		// Filter too aggressive, fall back to the full catalog.
		return items
	}
	return filtered
}

func nameContainsAny(name string, terms []string) bool {
	n := strings.ToLower(name)
	for _, term := range terms {
		if term != "" && strings.Contains(n, term) {
			return true
		}
	}
	return false
}
