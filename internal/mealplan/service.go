package mealplan

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mealgen/internal/catalog"
	"mealgen/internal/planner"
	"mealgen/internal/preferences"
	"mealgen/internal/rag"
	"mealgen/internal/shopping"
)

const dateFormat = "2006-01-02"

// ItemSource loads a store's catalog for planning.
type ItemSource interface {
	FindByStore(ctx context.Context, store string) ([]catalog.Item, error)
}

// PreferenceSource loads a user's stored dietary profile.
type PreferenceSource interface {
	Get(ctx context.Context, userID string) (*preferences.Preferences, error)
}

// PlanStore persists and retrieves meal plans.
type PlanStore interface {
	Save(ctx context.Context, plan MealPlan) (*MealPlan, error)
	GetByIDAndUser(ctx context.Context, id int64, userID string) (*MealPlan, error)
	ListByUser(ctx context.Context, userID string) ([]MealPlan, error)
	DeleteByIDAndUser(ctx context.Context, id int64, userID string) error
}

// Service owns the meal plan lifecycle: generation (deterministic or
// delegated), persistence, and shopping list derivation.
type Service struct {
	items     ItemSource
	prefs     PreferenceSource
	plans     PlanStore
	generator *planner.Generator
	delegate  rag.Client
	shopper   *shopping.Service
}

// NewService creates a new meal plan Service. delegate may be nil when no
// generation service is configured; GenerateAI then fails with
// ErrGenerationFailed.
func NewService(
	items ItemSource,
	prefs PreferenceSource,
	plans PlanStore,
	generator *planner.Generator,
	delegate rag.Client,
	shopper *shopping.Service,
) *Service {
	return &Service{
		items:     items,
		prefs:     prefs,
		plans:     plans,
		generator: generator,
		delegate:  delegate,
		shopper:   shopper,
	}
}

// Generate builds a deterministic heuristic plan for the user and persists it.
func (s *Service) Generate(ctx context.Context, userID, store string, days int) (*MealPlan, error) {
	if days < 1 || days > 14 {
		return nil, ErrInvalidDayCount
	}

	summary, err := s.loadSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.items.FindByStore(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog for store %s: %w", store, err)
	}

	result, err := s.generator.Generate(userID, store, days, summary, items, time.Now())
	if err != nil {
		return nil, err
	}

	return s.plans.Save(ctx, MealPlan{
		UserID:    userID,
		Title:     result.Title,
		StartDate: &result.StartDate,
		EndDate:   &result.EndDate,
		PlanJSON:  string(result.PlanJSON),
	})
}

// GenerateAI asks the external generation delegate for a plan and persists
// the returned document verbatim. A delegate failure surfaces as
// ErrGenerationFailed; there is no silent fallback to the heuristic
// planner, so the user never gets a downgraded plan without knowing.
func (s *Service) GenerateAI(ctx context.Context, userID, store string, days int) (*MealPlan, error) {
	if days < 1 || days > 14 {
		return nil, ErrInvalidDayCount
	}

	summary, err := s.loadSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.delegate == nil {
		return nil, fmt.Errorf("%w: no generation service configured", ErrGenerationFailed)
	}

	resp, err := s.delegate.Generate(ctx, rag.GenerateRequest{
		UserID:      userID,
		Store:       store,
		Days:        days,
		Preferences: summary,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if resp == nil || resp.PlanJSON == "" {
		return nil, fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}

	title := resp.Title
	if title == "" {
		title = "AI Meal Plan"
	}

	return s.plans.Save(ctx, MealPlan{
		UserID:    userID,
		Title:     title,
		StartDate: parseDate(resp.StartDate),
		EndDate:   parseDate(resp.EndDate),
		PlanJSON:  resp.PlanJSON,
	})
}

// ShoppingList derives the consolidated shopping list for one of the user's
// persisted plans. It is recomputed from the live catalog on every call.
func (s *Service) ShoppingList(ctx context.Context, userID string, planID int64) (*shopping.Result, error) {
	plan, err := s.plans.GetByIDAndUser(ctx, planID, userID)
	if err != nil {
		return nil, err
	}

	return s.shopper.BuildList(ctx, shopping.Plan{
		MealplanID: plan.ID,
		Store:      documentStore(plan.PlanJSON),
		StartDate:  plan.StartDate,
		EndDate:    plan.EndDate,
		PlanJSON:   plan.PlanJSON,
	})
}

// List returns the user's meal plans, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]MealPlan, error) {
	return s.plans.ListByUser(ctx, userID)
}

// Get returns one of the user's meal plans.
func (s *Service) Get(ctx context.Context, userID string, planID int64) (*MealPlan, error) {
	return s.plans.GetByIDAndUser(ctx, planID, userID)
}

// Create persists a caller-supplied plan document.
func (s *Service) Create(ctx context.Context, userID, title, startDate, endDate, planJSON string) (*MealPlan, error) {
	if title == "" {
		title = "My Meal Plan"
	}
	return s.plans.Save(ctx, MealPlan{
		UserID:    userID,
		Title:     title,
		StartDate: parseDate(startDate),
		EndDate:   parseDate(endDate),
		PlanJSON:  planJSON,
	})
}

// Delete removes one of the user's meal plans.
func (s *Service) Delete(ctx context.Context, userID string, planID int64) error {
	return s.plans.DeleteByIDAndUser(ctx, planID, userID)
}

func (s *Service) loadSummary(ctx context.Context, userID string) (preferences.Summary, error) {
	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return preferences.Summary{}, fmt.Errorf("failed to load preferences for user %s: %w", userID, err)
	}
	return preferences.Summarize(prefs), nil
}

// parseDate reads an ISO calendar date, tolerating empty or malformed input.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return nil
	}
	return &t
}

// documentStore leniently reads the store tag out of a plan document for
// display; a document without one yields an empty string.
func documentStore(planJSON string) string {
	var root map[string]any
	if err := json.Unmarshal([]byte(planJSON), &root); err != nil {
		return ""
	}
	store, _ := root["store"].(string)
	return store
}
