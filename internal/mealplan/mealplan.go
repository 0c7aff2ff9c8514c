package mealplan

import (
	"errors"
	"time"
)

// Errors that propagate to the caller. Everything else the engine absorbs
// into partial output.
var (
	// ErrInvalidDayCount rejects a generation request before planning starts.
	ErrInvalidDayCount = errors.New("days must be between 1 and 14")
	// ErrNotFound means the requested meal plan does not exist for the user.
	ErrNotFound = errors.New("meal plan not found")
	// ErrGenerationFailed wraps a failure of the external generation
	// delegate. It is deliberately distinct from input validation: the
	// caller asked for an AI plan and must see that the AI path failed
	// rather than silently receiving a heuristic plan.
	ErrGenerationFailed = errors.New("plan generation service failed")
)

// MealPlan is a persisted plan document with its display metadata.
type MealPlan struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	PlanJSON  string     `json:"plan_json"`
	CreatedAt time.Time  `json:"created_at"`
}
