package planner

import (
	"fmt"
	"testing"

	"mealgen/internal/catalog"
)

func makeItems(n int, prefix string) []catalog.Item {
	items := make([]catalog.Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, catalog.Item{ID: int64(i + 1), Name: fmt.Sprintf("%s %d", prefix, i+1)})
	}
	return items
}

func TestFilterAllergies(t *testing.T) {
	t.Run("removes matching items", func(t *testing.T) {
		items := append(makeItems(12, "Plain Food"), catalog.Item{ID: 99, Name: "Peanut Butter"})

		filtered := FilterAllergies(items, []string{"peanut"})

		if len(filtered) != 12 {
			t.Fatalf("expected 12 items after filtering, got %d", len(filtered))
		}
		for _, item := range filtered {
			if item.ID == 99 {
				t.Error("peanut item survived the filter")
			}
		}
	})

	t.Run("no terms returns input unchanged", func(t *testing.T) {
		items := makeItems(3, "Food")
		if got := FilterAllergies(items, nil); len(got) != 3 {
			t.Errorf("expected 3 items, got %d", len(got))
		}
	})

	t.Run("falls back to full catalog when too few items survive", func(t *testing.T) {
		// All 12 items match the term, so filtering would leave zero.
		items := makeItems(12, "Peanut Snack")

		filtered := FilterAllergies(items, []string{"peanut"})

		if len(filtered) != 12 {
			t.Errorf("expected fallback to all 12 items, got %d", len(filtered))
		}
	})

	t.Run("fallback triggers just below the threshold", func(t *testing.T) {
		// 9 survivors is one short of the minimum of 10.
		items := append(makeItems(9, "Plain Food"), makeItems(5, "Peanut Bar")...)

		filtered := FilterAllergies(items, []string{"peanut"})

		if len(filtered) != 14 {
			t.Errorf("expected all 14 items back, got %d", len(filtered))
		}
	})

	t.Run("exactly the threshold keeps the filter", func(t *testing.T) {
		items := append(makeItems(10, "Plain Food"), catalog.Item{ID: 50, Name: "Peanut Brittle"})

		filtered := FilterAllergies(items, []string{"peanut"})

		if len(filtered) != 10 {
			t.Errorf("expected 10 filtered items, got %d", len(filtered))
		}
	})
}
