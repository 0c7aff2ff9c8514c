package planner

import (
	"encoding/json"
	"math"
)

// ExtractItemCounts walks a plan document of unknown provenance and returns
// how many times each item id is referenced across all meals.
//
// The document may come from this package's Generator or from an external
// generation service, so nothing about its shape beyond plan→meals→items[].id
// is trusted: missing or mistyped levels are skipped, non-integral ids are
// ignored, and an empty or unparsable document yields an empty map. This
// function never returns an error: an empty shopping list is a legitimate
// result, a crash on odd AI output is not.
func ExtractItemCounts(planJSON []byte) map[int64]int {
	counts := make(map[int64]int)
	if len(planJSON) == 0 {
		return counts
	}

	var root map[string]any
	if err := json.Unmarshal(planJSON, &root); err != nil {
		return counts
	}

	days, ok := root["plan"].([]any)
	if !ok {
		return counts
	}

	for _, rawDay := range days {
		day, ok := rawDay.(map[string]any)
		if !ok {
			continue
		}
		meals, ok := day["meals"].([]any)
		if !ok {
			continue
		}
		for _, rawMeal := range meals {
			m, ok := rawMeal.(map[string]any)
			if !ok {
				continue
			}
			items, ok := m["items"].([]any)
			if !ok {
				continue
			}
			for _, rawItem := range items {
				item, ok := rawItem.(map[string]any)
				if !ok {
					continue
				}
				if id, ok := asInt64(item["id"]); ok {
					counts[id]++
				}
			}
		}
	}

	return counts
}

// asInt64 accepts only integral JSON numbers as item ids.
func asInt64(v any) (int64, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return int64(f), true
}
