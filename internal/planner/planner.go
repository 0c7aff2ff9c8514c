package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"mealgen/internal/catalog"
	"mealgen/internal/preferences"
)

// ErrNoItemsForStore is returned when the requested store has no catalog rows
// at all. This is the one emptiness case the planner refuses to work around.
var ErrNoItemsForStore = errors.New("no items found for store")

const dateFormat = "2006-01-02"

// Result is the outcome of one deterministic generation run.
type Result struct {
	Title     string
	StartDate time.Time
	EndDate   time.Time
	PlanJSON  []byte
}

// Generator assembles daily meal plans from a store catalog using keyword
// classification and seeded random selection. The zero value is not usable;
// construct with NewGenerator.
type Generator struct {
	keywords Keywords
}

// NewGenerator creates a Generator with the given keyword lists.
func NewGenerator(kw Keywords) *Generator {
	return &Generator{keywords: kw}
}

// Generate assembles a days-long meal plan for a user from the store's
// catalog. The caller validates days to [1,14] beforehand. Identical
// (userID, store, days, today) inputs produce a byte-identical plan
// document: the selection PRNG is seeded from a stable hash of them, so a
// same-day regenerate is idempotent.
func (g *Generator) Generate(
	userID string,
	store string,
	days int,
	prefs preferences.Summary,
	items []catalog.Item,
	today time.Time,
) (*Result, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoItemsForStore, store)
	}

	filtered := FilterAllergies(items, prefs.AllergyTerms())

	var proteins, veggies, carbs, snacks []catalog.Item
	for _, item := range filtered {
		switch g.keywords.Classify(item) {
		case BucketProtein:
			proteins = append(proteins, item)
		case BucketVegetable:
			veggies = append(veggies, item)
		case BucketCarb:
			carbs = append(carbs, item)
		case BucketSnack:
			snacks = append(snacks, item)
		}
	}

	// Backfill empty buckets with the whole filtered catalog so every meal
	// slot can always be filled.
	if len(proteins) == 0 {
		proteins = filtered
	}
	if len(veggies) == 0 {
		veggies = filtered
	}
	if len(carbs) == 0 {
		carbs = filtered
	}
	if len(snacks) == 0 {
		snacks = filtered
	}

	storeTag := strings.ToUpper(store)
	start := today
	end := start.AddDate(0, 0, days-1)

	rng := rand.New(rand.NewSource(seed(userID, storeTag, start, days)))

	doc := Document{
		Store:       storeTag,
		Days:        days,
		Preferences: prefs,
		Plan:        make([]Day, 0, days),
	}

	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d)

		breakfast := pickOne(snacks, rng)
		lunchProtein := pickOne(proteins, rng)
		lunchVeg := pickOne(veggies, rng)
		dinnerProtein := pickOne(proteins, rng)
		dinnerCarb := pickOne(carbs, rng)
		dinnerVeg := pickOne(veggies, rng)

		doc.Plan = append(doc.Plan, Day{
			Date: date.Format(dateFormat),
			Meals: []Meal{
				meal("Breakfast", breakfast),
				meal("Lunch", lunchProtein, lunchVeg),
				meal("Dinner", dinnerProtein, dinnerCarb, dinnerVeg),
			},
		})
	}

	planJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize plan document: %w", err)
	}

	return &Result{
		Title:     fmt.Sprintf("Generated Meal Plan (%s, %d days)", storeTag, days),
		StartDate: start,
		EndDate:   end,
		PlanJSON:  planJSON,
	}, nil
}

// seed derives the run's PRNG seed from a stable FNV-1a hash of the inputs.
// Go's map iteration and default hashing vary per process; this must not.
func seed(userID, storeTag string, start time.Time, days int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%d", userID, storeTag, start.Format(dateFormat), days)
	return int64(h.Sum64())
}

func pickOne(items []catalog.Item, rng *rand.Rand) catalog.Item {
	return items[rng.Intn(len(items))]
}

func meal(name string, items ...catalog.Item) Meal {
	refs := make([]ItemRef, 0, len(items))
	for _, item := range items {
		refs = append(refs, ItemRef{
			ID:           item.ID,
			Name:         item.Name,
			Price:        item.Price,
			CategoryPath: item.CategoryPath,
			ImageURL:     item.ImageURL,
		})
	}
	return Meal{Name: name, Items: refs}
}
