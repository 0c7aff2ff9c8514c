package nutrition

import (
	"encoding/json"
)

// Fact holds the per-serving nutrition values for one catalog item. Every
// field is optional: the source data is scraped and any subset may be absent.
type Fact struct {
	Calories           *float64 `json:"calories"`
	ProteinG           *float64 `json:"protein_g"`
	TotalFatG          *float64 `json:"total_fat_g"`
	TotalCarbohydrateG *float64 `json:"total_carbohydrate_g"`
	SodiumMg           *float64 `json:"sodium_mg"`
	DietaryFiberG      *float64 `json:"dietary_fiber_g"`
	TotalSugarsG       *float64 `json:"total_sugars_g"`
}

// storedDoc is the shape of the item_nutrition JSON column: the scraper keeps
// the raw text alongside a "parsed" object with the structured values.
type storedDoc struct {
	Parsed *Fact `json:"parsed"`
}

// ParseFact extracts the structured nutrition values from a stored nutrition
// JSON document. It returns nil if the document is empty, unparsable, or has
// no parsed object; malformed nutrition data never fails a caller.
func ParseFact(raw string) *Fact {
	if raw == "" {
		return nil
	}

	var doc storedDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil
	}
	return doc.Parsed
}
