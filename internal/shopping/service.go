package shopping

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"mealgen/internal/catalog"
	"mealgen/internal/nutrition"
	"mealgen/internal/planner"
)

// unknownItemName is the sentinel for plan item ids that no longer resolve
// against the catalog. The demand stays on the list so an operator can see
// that something referenced a missing row.
const unknownItemName = "Unknown Item"

// ItemSource resolves item ids against the live catalog.
type ItemSource interface {
	FindByIDs(ctx context.Context, ids []int64) ([]catalog.Item, error)
}

// FactSource resolves item ids against the nutrition store, returning the raw
// stored nutrition JSON per item.
type FactSource interface {
	FindByItemIDs(ctx context.Context, itemIDs []int64) (map[int64]string, error)
}

// Service consolidates a plan document into a priced, nutrition-annotated
// shopping list. It holds no state beyond its read-only sources; every call
// re-reads the catalog, so repeat calls may observe price changes.
type Service struct {
	items ItemSource
	facts FactSource
}

// NewService creates a new shopping list Service.
func NewService(items ItemSource, facts FactSource) *Service {
	return &Service{items: items, facts: facts}
}

// BuildList aggregates the plan document into a shopping list result.
//
// Irregularities in the document or the stores degrade to partial output:
// unresolvable items become sentinel lines, missing prices leave line totals
// nil, and missing nutrition rows simply don't contribute to the per-day
// averages. Only a failed lookup against the underlying stores is an error.
func (s *Service) BuildList(ctx context.Context, plan Plan) (*Result, error) {
	counts := planner.ExtractItemCounts([]byte(plan.PlanJSON))
	if len(counts) == 0 {
		return &Result{
			MealplanID:     plan.MealplanID,
			Store:          plan.Store,
			Items:          []Line{},
			EstimatedTotal: 0,
		}, nil
	}

	ids := make([]int64, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	resolved, err := s.items.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plan items: %w", err)
	}
	itemByID := make(map[int64]catalog.Item, len(resolved))
	for _, item := range resolved {
		itemByID[item.ID] = item
	}

	lines := make([]Line, 0, len(ids))
	total := 0.0
	for _, id := range ids {
		qty := counts[id]
		item, ok := itemByID[id]
		if !ok {
			// Missing catalog row: keep the demand visible as a placeholder.
			lines = append(lines, Line{ID: id, Name: unknownItemName, Qty: qty})
			continue
		}

		line := Line{
			ID:       item.ID,
			Name:     item.Name,
			Qty:      qty,
			Price:    item.Price,
			UnitSize: item.UnitSize,
			ImageURL: item.ImageURL,
		}
		if item.Price != nil {
			lineTotal := *item.Price * float64(qty)
			line.LineTotal = &lineTotal
			total += lineTotal
		}
		lines = append(lines, line)
	}

	sortLines(lines)

	result := &Result{
		MealplanID:     plan.MealplanID,
		Store:          plan.Store,
		Items:          lines,
		EstimatedTotal: total,
	}

	facts, err := s.facts.FindByItemIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve nutrition facts: %w", err)
	}
	applyNutrition(result, counts, facts, resolveDayCount(plan))

	return result, nil
}

// sortLines orders by quantity descending, then name ascending
// case-insensitively with empty names last.
func sortLines(lines []Line) {
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Qty != lines[j].Qty {
			return lines[i].Qty > lines[j].Qty
		}
		ni, nj := lines[i].Name, lines[j].Name
		if (ni == "") != (nj == "") {
			return nj == ""
		}
		return strings.ToLower(ni) < strings.ToLower(nj)
	})
}

// nutritionTotals accumulates value*qty per field; each pointer stays nil
// until at least one item contributes, keeping "no data" distinct from zero.
type nutritionTotals struct {
	calories, protein, fat, carbs, sodium, fiber, sugars *float64
}

func addTo(total **float64, v *float64, qty int) {
	if v == nil {
		return
	}
	if *total == nil {
		zero := 0.0
		*total = &zero
	}
	**total += *v * float64(qty)
}

func applyNutrition(result *Result, counts map[int64]int, facts map[int64]string, days int) {
	var totals nutritionTotals

	for id, qty := range counts {
		fact := nutrition.ParseFact(facts[id])
		if fact == nil {
			continue
		}
		addTo(&totals.calories, fact.Calories, qty)
		addTo(&totals.protein, fact.ProteinG, qty)
		addTo(&totals.fat, fact.TotalFatG, qty)
		addTo(&totals.carbs, fact.TotalCarbohydrateG, qty)
		addTo(&totals.sodium, fact.SodiumMg, qty)
		addTo(&totals.fiber, fact.DietaryFiberG, qty)
		addTo(&totals.sugars, fact.TotalSugarsG, qty)
	}

	if days <= 0 {
		return
	}
	result.CaloriesPerDay = perDay(totals.calories, days)
	result.FatPerDay = perDay(totals.fat, days)
	result.ProteinPerDay = perDay(totals.protein, days)
	result.CarbohydratesPerDay = perDay(totals.carbs, days)
	result.SodiumPerDay = perDay(totals.sodium, days)
	result.FiberPerDay = perDay(totals.fiber, days)
	result.SugarPerDay = perDay(totals.sugars, days)
}

func perDay(total *float64, days int) *float64 {
	if total == nil {
		return nil
	}
	avg := math.Round(*total/float64(days)*100) / 100
	return &avg
}

// resolveDayCount picks the per-day divisor in three tiers: the plan's date
// range when both dates are set and ordered, else the document's declared
// integral "days" field, else 1. Partial or AI-supplied date metadata must
// not make the per-day metrics meaningless.
func resolveDayCount(plan Plan) int {
	if plan.StartDate != nil && plan.EndDate != nil && !plan.EndDate.Before(*plan.StartDate) {
		return daysBetween(*plan.StartDate, *plan.EndDate) + 1
	}

	var root map[string]any
	if err := json.Unmarshal([]byte(plan.PlanJSON), &root); err == nil {
		if f, ok := root["days"].(float64); ok && f == math.Trunc(f) {
			return int(f)
		}
	}

	return 1
}

func daysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}
