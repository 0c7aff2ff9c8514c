package preferences

import (
	"reflect"
	"testing"
)

func TestSummarize(t *testing.T) {
	t.Run("nil preferences yield all-null summary", func(t *testing.T) {
		s := Summarize(nil)
		if s.DietaryRestrictions != nil || s.Allergies != nil || s.TargetCaloriesPerDay != nil {
			t.Errorf("expected all-null summary, got %+v", s)
		}
	})

	t.Run("empty strings stay null", func(t *testing.T) {
		s := Summarize(&Preferences{UserID: "u1"})
		if s.DietaryRestrictions != nil || s.Allergies != nil {
			t.Errorf("expected null fields for empty strings, got %+v", s)
		}
	})

	t.Run("set fields carry over", func(t *testing.T) {
		calories := int64(2200)
		s := Summarize(&Preferences{
			UserID:               "u1",
			DietaryRestrictions:  "vegetarian",
			Allergies:            "peanuts, shellfish",
			TargetCaloriesPerDay: &calories,
		})

		if s.DietaryRestrictions == nil || *s.DietaryRestrictions != "vegetarian" {
			t.Errorf("dietary restrictions = %v", s.DietaryRestrictions)
		}
		if s.Allergies == nil || *s.Allergies != "peanuts, shellfish" {
			t.Errorf("allergies = %v", s.Allergies)
		}
		if s.TargetCaloriesPerDay == nil || *s.TargetCaloriesPerDay != 2200 {
			t.Errorf("calories = %v", s.TargetCaloriesPerDay)
		}
	})
}

func TestSplitTerms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"single term", "Peanuts", []string{"peanuts"}},
		{"commas and semicolons", "cilantro; blue cheese, mayo", []string{"cilantro", "blue cheese", "mayo"}},
		{"dedupes case-insensitively", "Nuts, nuts, NUTS", []string{"nuts"}},
		{"skips empty segments", "a,,b;;", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitTerms(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitTerms(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAllergyTerms(t *testing.T) {
	if got := (Summary{}).AllergyTerms(); got != nil {
		t.Errorf("expected nil terms for null allergies, got %v", got)
	}

	allergies := "Peanuts; Shellfish"
	s := Summary{Allergies: &allergies}
	want := []string{"peanuts", "shellfish"}
	if got := s.AllergyTerms(); !reflect.DeepEqual(got, want) {
		t.Errorf("AllergyTerms() = %v, want %v", got, want)
	}
}
