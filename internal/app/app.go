// Package app wires the generation, catalog and shopping services together
// behind the CLI commands.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"mealgen/internal/aigen"
	"mealgen/internal/catalog"
	"mealgen/internal/config"
	"mealgen/internal/llm"
	"mealgen/internal/mealplan"
	"mealgen/internal/metrics"
	"mealgen/internal/nutrition"
	"mealgen/internal/preferences"
	"mealgen/internal/rag"
)

// App holds the application's dependencies.
type App struct {
	cfg           *config.Config
	catalogRepo   *catalog.Repository
	nutritionRepo *nutrition.Repository
	prefsRepo     *preferences.Repository
	mealSvc       *mealplan.Service
	clip          ProductClipper
	vectorRepo    *llm.VectorRepository
	embedGen      llm.EmbeddingGenerator
	metricsStore  *metrics.Store
}

// ProductClipper imports one product page into the catalog.
type ProductClipper interface {
	ClipURL(ctx context.Context, store, pageURL string) (*catalog.Item, error)
}

// NewApp creates and initializes a new App instance.
func NewApp(
	cfg *config.Config,
	catalogRepo *catalog.Repository,
	nutritionRepo *nutrition.Repository,
	prefsRepo *preferences.Repository,
	mealSvc *mealplan.Service,
	clip ProductClipper,
	vectorRepo *llm.VectorRepository,
	embedGen llm.EmbeddingGenerator,
	metricsStore *metrics.Store,
) *App {
	return &App{
		cfg:           cfg,
		catalogRepo:   catalogRepo,
		nutritionRepo: nutritionRepo,
		prefsRepo:     prefsRepo,
		mealSvc:       mealSvc,
		clip:          clip,
		vectorRepo:    vectorRepo,
		embedGen:      embedGen,
		metricsStore:  metricsStore,
	}
}

// GeneratePlan creates a deterministic plan for the user and prints it.
func (a *App) GeneratePlan(ctx context.Context, userID, store string, days int) error {
	fmt.Printf("Generating a %d-day plan for %s at %s...\n", days, userID, store)

	plan, err := a.mealSvc.Generate(ctx, userID, store, days)
	if err != nil {
		return fmt.Errorf("failed to generate plan: %w", err)
	}

	printPlan(plan)
	return nil
}

// GenerateAIPlan asks the configured generation delegate for a plan and
// prints it.
func (a *App) GenerateAIPlan(ctx context.Context, userID, store string, days int) error {
	fmt.Printf("Generating an AI %d-day plan for %s at %s...\n", days, userID, store)

	plan, err := a.mealSvc.GenerateAI(ctx, userID, store, days)
	if err != nil {
		return fmt.Errorf("failed to generate AI plan: %w", err)
	}

	printPlan(plan)
	return nil
}

// ListPlans prints the user's saved plans, newest first.
func (a *App) ListPlans(ctx context.Context, userID string) error {
	plans, err := a.mealSvc.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list plans: %w", err)
	}

	if len(plans) == 0 {
		fmt.Println("No saved plans.")
		return nil
	}
	for _, p := range plans {
		dates := ""
		if p.StartDate != nil && p.EndDate != nil {
			dates = fmt.Sprintf(" (%s to %s)", p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"))
		}
		fmt.Printf("%4d  %s%s\n", p.ID, p.Title, dates)
	}
	return nil
}

// ShowPlan prints one saved plan in full.
func (a *App) ShowPlan(ctx context.Context, userID string, planID int64) error {
	plan, err := a.mealSvc.Get(ctx, userID, planID)
	if err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}
	printPlan(plan)
	return nil
}

// DeletePlan removes one saved plan.
func (a *App) DeletePlan(ctx context.Context, userID string, planID int64) error {
	if err := a.mealSvc.Delete(ctx, userID, planID); err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	fmt.Printf("Deleted plan %d.\n", planID)
	return nil
}

// ShoppingList derives and prints the consolidated shopping list for a plan.
func (a *App) ShoppingList(ctx context.Context, userID string, planID int64) error {
	list, err := a.mealSvc.ShoppingList(ctx, userID, planID)
	if err != nil {
		return fmt.Errorf("failed to build shopping list: %w", err)
	}

	fmt.Printf("=== SHOPPING LIST (plan %d) ===\n", list.MealplanID)
	for _, line := range list.Items {
		price := "   -  "
		if line.Price != nil {
			price = fmt.Sprintf("$%5.2f", *line.Price)
		}
		fmt.Printf("%3dx  %s  %s\n", line.Qty, price, line.Name)
	}
	fmt.Printf("\nEstimated total: $%.2f\n", list.EstimatedTotal)
	if list.CaloriesPerDay != nil {
		fmt.Printf("Average calories per day: %.2f\n", *list.CaloriesPerDay)
	}
	return nil
}

// ShowPreferences prints the user's stored dietary profile.
func (a *App) ShowPreferences(ctx context.Context, userID string) error {
	prefs, err := a.prefsRepo.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}
	if prefs == nil {
		fmt.Printf("No preferences stored for %s.\n", userID)
		return nil
	}

	fmt.Printf("Preferences for %s:\n", userID)
	fmt.Printf("  Dietary restrictions: %s\n", orNone(prefs.DietaryRestrictions))
	fmt.Printf("  Allergies:            %s\n", orNone(prefs.Allergies))
	if prefs.TargetCaloriesPerDay != nil {
		fmt.Printf("  Target calories/day:  %d\n", *prefs.TargetCaloriesPerDay)
	} else {
		fmt.Printf("  Target calories/day:  none\n")
	}
	return nil
}

// SavePreferences stores the user's dietary profile, replacing any existing
// one.
func (a *App) SavePreferences(ctx context.Context, prefs preferences.Preferences) error {
	if err := a.prefsRepo.Save(ctx, prefs); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	fmt.Printf("Saved preferences for %s.\n", prefs.UserID)
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// ClipProduct imports one product page into the store's catalog.
func (a *App) ClipProduct(ctx context.Context, store, pageURL string) error {
	fmt.Printf("Clipping %s into %s...\n", pageURL, store)

	item, err := a.clip.ClipURL(ctx, store, pageURL)
	if err != nil {
		return fmt.Errorf("failed to clip product: %w", err)
	}

	price := "no price"
	if item.Price != nil {
		price = fmt.Sprintf("$%.2f", *item.Price)
	}
	fmt.Printf("Saved item %d: %s (%s)\n", item.ID, item.Name, price)
	return nil
}

// BackfillEmbeddings embeds catalog items that have no vector yet, up to
// limit items per run.
func (a *App) BackfillEmbeddings(ctx context.Context, store string, limit int) error {
	items, err := a.catalogRepo.FindByStore(ctx, store)
	if err != nil {
		return fmt.Errorf("failed to load catalog for store %s: %w", store, err)
	}

	updated := 0
	for _, item := range items {
		if limit > 0 && updated >= limit {
			break
		}

		existing, err := a.vectorRepo.Get(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("failed to check vector for item %d: %w", item.ID, err)
		}
		if existing != nil {
			continue
		}

		embedding, err := a.embedGen.GenerateEmbedding(ctx, aigen.ItemDoc(item))
		if err != nil {
			log.Printf("Failed to embed item %d (%s): %v", item.ID, item.Name, err)
			continue
		}
		if err := a.vectorRepo.Save(ctx, item.ID, embedding); err != nil {
			return fmt.Errorf("failed to save vector for item %d: %w", item.ID, err)
		}
		updated++
	}

	fmt.Printf("Embedded %d items for store %s.\n", updated, store)
	return nil
}

// Usage prints generation token usage for the last N days along with
// process health.
func (a *App) Usage(ctx context.Context, days int) error {
	usage, err := a.metricsStore.GetDailyUsage(ctx, days)
	if err != nil {
		return fmt.Errorf("failed to load usage: %w", err)
	}

	fmt.Printf("=== TOKEN USAGE (last %d days) ===\n", days)
	if len(usage) == 0 {
		fmt.Println("No recorded runs.")
	}
	for _, day := range usage {
		fmt.Printf("%s  prompt=%d completion=%d runs=%d\n",
			day.Date, day.TotalPrompt, day.TotalCompletion, day.TotalRuns)
	}

	health := metrics.GetSysHealth(a.cfg.DatabasePath)
	fmt.Printf("\nHeap: %d MB | Sys: %d MB | GC runs: %d | Goroutines: %d | Data: %s\n",
		health.AllocMB, health.SysMB, health.NumGC, health.Goroutines, health.DataSize)
	return nil
}

// MetricsCleanup removes metric records older than the given number of days.
func (a *App) MetricsCleanup(ctx context.Context, olderThanDays int) error {
	if err := a.metricsStore.Cleanup(ctx, olderThanDays); err != nil {
		return fmt.Errorf("failed to clean up metrics: %w", err)
	}
	fmt.Printf("Removed metric records older than %d days.\n", olderThanDays)
	return nil
}

// RecordedGenerator adapts the in-process generator to the rag.Client
// interface while recording token usage for every run.
type RecordedGenerator struct {
	gen          *aigen.Generator
	metricsStore *metrics.Store
}

func NewRecordedGenerator(gen *aigen.Generator, metricsStore *metrics.Store) *RecordedGenerator {
	return &RecordedGenerator{gen: gen, metricsStore: metricsStore}
}

// Generate implements rag.Client.
func (r *RecordedGenerator) Generate(ctx context.Context, req rag.GenerateRequest) (*rag.GenerateResponse, error) {
	resp, meta, err := r.gen.GenerateWithMeta(ctx, req)
	if mErr := r.metricsStore.RecordMeta(ctx, meta); mErr != nil {
		log.Printf("Warning: failed to record metrics for %s: %v", meta.AgentName, mErr)
	}
	return resp, err
}

// renderedDay mirrors the plan document's day shape for display. Parsing is
// lenient; a document this process did not produce still prints what it can.
type renderedDay struct {
	Date  string `json:"date"`
	Meals []struct {
		Name  string `json:"name"`
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
	} `json:"meals"`
}

func printPlan(plan *mealplan.MealPlan) {
	fmt.Printf("\n=== %s (plan %d) ===\n", plan.Title, plan.ID)
	if plan.StartDate != nil && plan.EndDate != nil {
		fmt.Printf("%s to %s\n", plan.StartDate.Format("2006-01-02"), plan.EndDate.Format("2006-01-02"))
	}

	var doc struct {
		Plan []renderedDay `json:"plan"`
	}
	if err := json.Unmarshal([]byte(plan.PlanJSON), &doc); err != nil || len(doc.Plan) == 0 {
		fmt.Println(plan.PlanJSON)
		return
	}

	for _, day := range doc.Plan {
		fmt.Printf("\n%s\n", day.Date)
		for _, meal := range day.Meals {
			fmt.Printf("  %s:\n", meal.Name)
			for _, item := range meal.Items {
				fmt.Printf("    - %s\n", item.Name)
			}
		}
	}
}
