package planner

import (
	"strings"

	"mealgen/internal/catalog"
)

// Bucket is the coarse meal-role classification of a catalog item.
type Bucket string

const (
	BucketProtein   Bucket = "protein"
	BucketVegetable Bucket = "vegetable"
	BucketCarb      Bucket = "carbohydrate"
	BucketSnack     Bucket = "snack"
	BucketNone      Bucket = "unclassified"
)

// Keywords holds the keyword lists used to classify items into buckets.
// The lists are product-tuning knobs; callers may supply their own.
type Keywords struct {
	Protein   []string
	Vegetable []string
	Carb      []string
	Snack     []string
}

// DefaultKeywords returns the stock keyword lists.
func DefaultKeywords() Keywords {
	return Keywords{
		Protein: []string{
			"chicken", "beef", "pork", "turkey", "salmon", "tuna", "shrimp", "fish", "egg", "tofu",
			"sausage", "ham", "steak", "ground", "meat", "protein",
		},
		Vegetable: []string{
			"vegetable", "veggie", "broccoli", "spinach", "salad", "lettuce", "kale", "cabbage", "carrot",
			"cauliflower", "brussels", "pepper", "onion", "mushroom", "tomato",
		},
		Carb: []string{
			"rice", "pasta", "noodle", "bread", "tortilla", "bun", "bagel", "potato", "quinoa", "oat", "cereal",
		},
		Snack: []string{
			"snack", "chips", "cookie", "cracker", "yogurt", "granola", "bar", "nuts", "fruit", "berries",
		},
	}
}

// Classify assigns an item to its first matching bucket, testing the
// case-folded category path and name against the keyword lists in the order
// protein, vegetable, carbohydrate, snack. An item matching no list is
// BucketNone; classification is total and never fails.
func (kw Keywords) Classify(item catalog.Item) Bucket {
	s := strings.ToLower(item.CategoryPath + " " + item.Name)

	switch {
	case containsAnyToken(s, kw.Protein):
		return BucketProtein
	case containsAnyToken(s, kw.Vegetable):
		return BucketVegetable
	case containsAnyToken(s, kw.Carb):
		return BucketCarb
	case containsAnyToken(s, kw.Snack):
		return BucketSnack
	default:
		return BucketNone
	}
}

func containsAnyToken(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
