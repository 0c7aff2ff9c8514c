package preferences

import (
	"strings"
)

// Preferences is a user's stored dietary profile.
type Preferences struct {
	UserID               string `json:"user_id"`
	DietaryRestrictions  string `json:"dietary_restrictions,omitempty"`
	Allergies            string `json:"allergies,omitempty"`
	TargetCaloriesPerDay *int64 `json:"target_calories_per_day,omitempty"`
}

// Summary is the preference snapshot embedded in generated plan documents and
// sent to the generation delegate. All fields are nullable so a plan for a
// user without preferences still carries an explicit (empty) snapshot.
type Summary struct {
	DietaryRestrictions  *string `json:"dietaryRestrictions"`
	Allergies            *string `json:"allergies"`
	TargetCaloriesPerDay *int64  `json:"targetCaloriesPerDay"`
}

// Summarize builds the plan-document snapshot for a user's preferences.
// A nil Preferences (no stored profile) yields an all-null summary.
func Summarize(p *Preferences) Summary {
	if p == nil {
		return Summary{}
	}

	s := Summary{TargetCaloriesPerDay: p.TargetCaloriesPerDay}
	if p.DietaryRestrictions != "" {
		v := p.DietaryRestrictions
		s.DietaryRestrictions = &v
	}
	if p.Allergies != "" {
		v := p.Allergies
		s.Allergies = &v
	}
	return s
}

// SplitTerms splits a free-text term list ("cilantro; blue cheese, mayo")
// on commas and semicolons into trimmed, lower-cased, deduplicated terms.
func SplitTerms(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var terms []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	}) {
		term := strings.ToLower(strings.TrimSpace(part))
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	return terms
}

// AllergyTerms returns the summary's allergy list as matchable terms.
func (s Summary) AllergyTerms() []string {
	if s.Allergies == nil {
		return nil
	}
	return SplitTerms(*s.Allergies)
}
