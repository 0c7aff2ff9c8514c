// Package aigen generates meal plans with a retrieval-augmented LLM: the
// request is embedded, the closest catalog items are retrieved, and the model
// composes a plan restricted to those items. The returned document is
// validated before anyone persists it.
package aigen

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mealgen/internal/catalog"
	"mealgen/internal/llm"
	"mealgen/internal/rag"
	"mealgen/internal/shared"

	"github.com/google/uuid"
)

//go:embed mealplan_prompt.md
var promptTemplate string

const (
	agentName  = "mealplan-generator"
	retrievalK = 120
	dateFormat = "2006-01-02"

	minMealItems = 1
	maxMealItems = 8
)

// ItemSource loads a store's catalog for retrieval and verification.
type ItemSource interface {
	FindByStore(ctx context.Context, store string) ([]catalog.Item, error)
}

// VectorSearcher answers nearest-neighbour queries over item embeddings.
type VectorSearcher interface {
	FindSimilar(ctx context.Context, queryEmbedding []float32, limit int, restrictTo map[int64]struct{}) ([]int64, error)
}

// Generator produces meal plans from the local catalog and a text model.
// It satisfies rag.Client, so it can stand in for the remote generation
// service when none is configured.
type Generator struct {
	items    ItemSource
	vectors  VectorSearcher
	embedder llm.EmbeddingGenerator
	text     llm.TextGenerator
}

func NewGenerator(items ItemSource, vectors VectorSearcher, embedder llm.EmbeddingGenerator, text llm.TextGenerator) *Generator {
	return &Generator{
		items:    items,
		vectors:  vectors,
		embedder: embedder,
		text:     text,
	}
}

// Generate implements rag.Client.
func (g *Generator) Generate(ctx context.Context, req rag.GenerateRequest) (*rag.GenerateResponse, error) {
	resp, _, err := g.GenerateWithMeta(ctx, req)
	return resp, err
}

// GenerateWithMeta runs the full retrieval and generation pipeline and
// reports token usage and latency alongside the plan.
func (g *Generator) GenerateWithMeta(ctx context.Context, req rag.GenerateRequest) (*rag.GenerateResponse, shared.AgentMeta, error) {
	meta := shared.AgentMeta{AgentName: agentName}

	if req.Days < 1 || req.Days > 14 {
		return nil, meta, fmt.Errorf("days must be between 1 and 14")
	}

	queryVec, err := g.embedder.GenerateEmbedding(ctx, queryText(req))
	if err != nil {
		return nil, meta, fmt.Errorf("failed to embed request: %w", err)
	}

	items, err := g.items.FindByStore(ctx, req.Store)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to load catalog for store %s: %w", req.Store, err)
	}

	byID := make(map[int64]catalog.Item, len(items))
	storeIDs := make(map[int64]struct{}, len(items))
	for _, it := range items {
		byID[it.ID] = it
		storeIDs[it.ID] = struct{}{}
	}

	nearest, err := g.vectors.FindSimilar(ctx, queryVec, retrievalK, storeIDs)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to retrieve candidates: %w", err)
	}
	if len(nearest) == 0 {
		return nil, meta, fmt.Errorf("no embedded items found for store %s, run an embedding backfill first", req.Store)
	}

	candidates := make([]candidateItem, 0, len(nearest))
	for _, id := range nearest {
		it := byID[id]
		candidates = append(candidates, candidateItem{
			ID:           it.ID,
			Name:         it.Name,
			Price:        it.Price,
			UnitSize:     it.UnitSize,
			CategoryPath: it.CategoryPath,
			ImageURL:     it.ImageURL,
		})
	}

	start := time.Now().UTC().Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, req.Days-1)
	_ = end

	payload, err := json.Marshal(map[string]any{
		"store":       req.Store,
		"days":        req.Days,
		"startDate":   start.Format(dateFormat),
		"preferences": req.Preferences,
		"items":       candidates,
	})
	if err != nil {
		return nil, meta, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	began := time.Now()
	content, err := g.text.GenerateContent(ctx, promptTemplate+"\n"+string(payload))
	meta.Latency = time.Since(began)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to generate plan: %w", err)
	}
	meta.Usage = content.Usage

	doc, err := parsePlanDocument(content.Content)
	if err != nil {
		return nil, meta, err
	}

	if err := verifyItemIDs(doc, req.Store, storeIDs); err != nil {
		return nil, meta, err
	}

	planJSON, err := stampMeta(content.Content, content.Usage.Model)
	if err != nil {
		return nil, meta, err
	}

	return &rag.GenerateResponse{
		Title:     doc.Title,
		StartDate: doc.StartDate,
		EndDate:   doc.EndDate,
		PlanJSON:  planJSON,
	}, meta, nil
}

type candidateItem struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Price        *float64 `json:"price,omitempty"`
	UnitSize     string   `json:"unitSize,omitempty"`
	CategoryPath string   `json:"categoryPath,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
}

type planItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type planMeal struct {
	Name  string     `json:"name"`
	Items []planItem `json:"items"`
}

type planDay struct {
	Date  string     `json:"date"`
	Meals []planMeal `json:"meals"`
}

type planDocument struct {
	Title     string    `json:"title"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Plan      []planDay `json:"plan"`
}

var allowedMealNames = map[string]bool{
	"Breakfast": true,
	"Lunch":     true,
	"Dinner":    true,
}

// parsePlanDocument parses the model output and enforces the plan schema:
// a non-empty day list where every day carries exactly three meals named
// Breakfast, Lunch and Dinner, each with 1 to 8 catalog items.
func parsePlanDocument(content string) (*planDocument, error) {
	content = stripCodeFence(content)
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("model returned empty response")
	}

	var doc planDocument
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("model did not return valid JSON: %w", err)
	}

	if doc.Title == "" {
		return nil, fmt.Errorf("plan document has no title")
	}
	for _, field := range []string{doc.StartDate, doc.EndDate} {
		if _, err := time.Parse(dateFormat, field); err != nil {
			return nil, fmt.Errorf("plan document has malformed date %q", field)
		}
	}
	if len(doc.Plan) == 0 {
		return nil, fmt.Errorf("plan document has no days")
	}

	for _, day := range doc.Plan {
		if _, err := time.Parse(dateFormat, day.Date); err != nil {
			return nil, fmt.Errorf("plan day has malformed date %q", day.Date)
		}
		if len(day.Meals) != 3 {
			return nil, fmt.Errorf("plan day %s has %d meals, want 3", day.Date, len(day.Meals))
		}
		for _, meal := range day.Meals {
			if !allowedMealNames[meal.Name] {
				return nil, fmt.Errorf("plan day %s has unexpected meal %q", day.Date, meal.Name)
			}
			if len(meal.Items) < minMealItems || len(meal.Items) > maxMealItems {
				return nil, fmt.Errorf("meal %s on %s has %d items, want %d to %d",
					meal.Name, day.Date, len(meal.Items), minMealItems, maxMealItems)
			}
		}
	}
	return &doc, nil
}

// verifyItemIDs rejects plans referencing items outside the store's catalog,
// which means the model invented IDs.
func verifyItemIDs(doc *planDocument, store string, storeIDs map[int64]struct{}) error {
	var missing []int64
	seen := make(map[int64]struct{})
	total := 0
	for _, day := range doc.Plan {
		for _, meal := range day.Meals {
			for _, it := range meal.Items {
				total++
				if _, dup := seen[it.ID]; dup {
					continue
				}
				seen[it.ID] = struct{}{}
				if _, ok := storeIDs[it.ID]; !ok {
					missing = append(missing, it.ID)
				}
			}
		}
	}
	if total == 0 {
		return fmt.Errorf("model returned no item ids")
	}
	if len(missing) > 0 {
		if len(missing) > 25 {
			missing = missing[:25]
		}
		return fmt.Errorf("model returned item ids not in store %s: %v", store, missing)
	}
	return nil
}

// stampMeta re-encodes the document with a _meta block describing how it was
// generated, preserving all model-produced fields.
func stampMeta(content, model string) (string, error) {
	var root map[string]any
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &root); err != nil {
		return "", fmt.Errorf("model did not return valid JSON: %w", err)
	}
	root["_meta"] = map[string]any{
		"generatedBy":    agentName,
		"model":          model,
		"embeddingModel": llm.GeminiEmbedModel,
		"requestId":      uuid.NewString(),
		"retrievalK":     retrievalK,
	}
	out, err := json.Marshal(root)
	if err != nil {
		return "", fmt.Errorf("failed to re-encode plan document: %w", err)
	}
	return string(out), nil
}

func queryText(req rag.GenerateRequest) string {
	diet := "none"
	if req.Preferences.DietaryRestrictions != nil {
		diet = *req.Preferences.DietaryRestrictions
	}
	allergies := "none"
	if req.Preferences.Allergies != nil {
		allergies = *req.Preferences.Allergies
	}
	calories := "not specified"
	if req.Preferences.TargetCaloriesPerDay != nil {
		calories = fmt.Sprintf("%d", *req.Preferences.TargetCaloriesPerDay)
	}
	return fmt.Sprintf(
		"Create a %d-day meal plan using %s grocery items.\n"+
			"Dietary restrictions: %s.\n"+
			"Allergies: %s.\n"+
			"Target calories per day: %s.\n"+
			"Prefer variety and practical meals.",
		req.Days, req.Store, diet, allergies, calories)
}

// stripCodeFence removes a surrounding markdown code fence, which some
// models emit even when asked for bare JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
