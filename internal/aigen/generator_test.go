package aigen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"mealgen/internal/catalog"
	"mealgen/internal/llm"
	"mealgen/internal/rag"
	"mealgen/internal/shared"
)

// --- Mocks ---

type MockItemSource struct {
	Items []catalog.Item
}

func (m *MockItemSource) FindByStore(ctx context.Context, store string) ([]catalog.Item, error) {
	return m.Items, nil
}

type MockVectorSearcher struct {
	IDs []int64
}

func (m *MockVectorSearcher) FindSimilar(ctx context.Context, queryEmbedding []float32, limit int, restrictTo map[int64]struct{}) ([]int64, error) {
	return m.IDs, nil
}

type MockEmbedder struct{}

func (m *MockEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

type MockTextGenerator struct {
	Response    string
	LastPrompt  string
	ShouldError bool
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	m.LastPrompt = prompt
	if m.ShouldError {
		return llm.ContentResponse{}, fmt.Errorf("mock model error")
	}
	return llm.ContentResponse{
		Content: m.Response,
		Usage:   shared.TokenUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150, Model: "test-model"},
	}, nil
}

func storeItems() []catalog.Item {
	return []catalog.Item{
		{ID: 1, Name: "Chicken Breast", Store: "TRADER_JOES"},
		{ID: 2, Name: "Broccoli Crowns", Store: "TRADER_JOES"},
		{ID: 3, Name: "Jasmine Rice", Store: "TRADER_JOES"},
	}
}

const validPlanResponse = `{
	"title": "One Day Plan",
	"startDate": "2026-03-02",
	"endDate": "2026-03-02",
	"plan": [
		{"date": "2026-03-02", "meals": [
			{"name": "Breakfast", "items": [{"id": 3, "name": "Jasmine Rice"}]},
			{"name": "Lunch", "items": [{"id": 1, "name": "Chicken Breast"}, {"id": 2, "name": "Broccoli Crowns"}]},
			{"name": "Dinner", "items": [{"id": 1, "name": "Chicken Breast"}]}
		]}
	]
}`

func newTestGenerator(text *MockTextGenerator) *Generator {
	return NewGenerator(
		&MockItemSource{Items: storeItems()},
		&MockVectorSearcher{IDs: []int64{1, 2, 3}},
		&MockEmbedder{},
		text,
	)
}

// --- Tests ---

func TestGenerateWithMeta(t *testing.T) {
	text := &MockTextGenerator{Response: validPlanResponse}
	gen := newTestGenerator(text)

	resp, meta, err := gen.GenerateWithMeta(context.Background(), rag.GenerateRequest{
		UserID: "u1", Store: "TRADER_JOES", Days: 1,
	})
	if err != nil {
		t.Fatalf("GenerateWithMeta failed: %v", err)
	}

	if resp.Title != "One Day Plan" {
		t.Errorf("title = %s", resp.Title)
	}
	if resp.StartDate != "2026-03-02" || resp.EndDate != "2026-03-02" {
		t.Errorf("dates = %s..%s", resp.StartDate, resp.EndDate)
	}

	if meta.AgentName != "mealplan-generator" {
		t.Errorf("agent name = %s", meta.AgentName)
	}
	if meta.Usage.TotalTokens != 150 || meta.Usage.Model != "test-model" {
		t.Errorf("usage = %+v", meta.Usage)
	}

	// The stored document carries a _meta block alongside the model fields.
	var doc map[string]any
	if err := json.Unmarshal([]byte(resp.PlanJSON), &doc); err != nil {
		t.Fatalf("plan json invalid: %v", err)
	}
	metaBlock, ok := doc["_meta"].(map[string]any)
	if !ok {
		t.Fatal("plan json missing _meta")
	}
	if metaBlock["model"] != "test-model" {
		t.Errorf("_meta model = %v", metaBlock["model"])
	}
	if metaBlock["requestId"] == "" {
		t.Error("_meta missing requestId")
	}
	if doc["title"] != "One Day Plan" {
		t.Error("model fields lost during meta stamping")
	}

	// Prompt carries the candidate items and the request parameters.
	if !strings.Contains(text.LastPrompt, "Chicken Breast") {
		t.Error("prompt missing candidate items")
	}
	if !strings.Contains(text.LastPrompt, `"store":"TRADER_JOES"`) {
		t.Error("prompt missing store")
	}
}

func TestGenerateImplementsClient(t *testing.T) {
	var _ rag.Client = newTestGenerator(&MockTextGenerator{Response: validPlanResponse})
}

func TestGenerateStripsCodeFence(t *testing.T) {
	text := &MockTextGenerator{Response: "```json\n" + validPlanResponse + "\n```"}
	gen := newTestGenerator(text)

	resp, _, err := gen.GenerateWithMeta(context.Background(), rag.GenerateRequest{Store: "TRADER_JOES", Days: 1})
	if err != nil {
		t.Fatalf("GenerateWithMeta failed: %v", err)
	}
	if resp.Title != "One Day Plan" {
		t.Errorf("title = %s", resp.Title)
	}
}

func TestGenerateValidation(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantErr  string
	}{
		{"empty response", "", "empty response"},
		{"not json", "sorry, I cannot do that", "valid JSON"},
		{"missing title", `{"startDate": "2026-03-02", "endDate": "2026-03-02", "plan": [{"date": "2026-03-02", "meals": []}]}`, "no title"},
		{"malformed date", `{"title": "x", "startDate": "soon", "endDate": "2026-03-02", "plan": []}`, "malformed date"},
		{"no days", `{"title": "x", "startDate": "2026-03-02", "endDate": "2026-03-02", "plan": []}`, "no days"},
		{
			"wrong meal count",
			`{"title": "x", "startDate": "2026-03-02", "endDate": "2026-03-02", "plan": [{"date": "2026-03-02", "meals": [{"name": "Breakfast", "items": [{"id": 1, "name": "a"}]}]}]}`,
			"want 3",
		},
		{
			"unexpected meal name",
			`{"title": "x", "startDate": "2026-03-02", "endDate": "2026-03-02", "plan": [{"date": "2026-03-02", "meals": [
				{"name": "Brunch", "items": [{"id": 1, "name": "a"}]},
				{"name": "Lunch", "items": [{"id": 1, "name": "a"}]},
				{"name": "Dinner", "items": [{"id": 1, "name": "a"}]}
			]}]}`,
			"unexpected meal",
		},
		{
			"empty meal",
			`{"title": "x", "startDate": "2026-03-02", "endDate": "2026-03-02", "plan": [{"date": "2026-03-02", "meals": [
				{"name": "Breakfast", "items": []},
				{"name": "Lunch", "items": [{"id": 1, "name": "a"}]},
				{"name": "Dinner", "items": [{"id": 1, "name": "a"}]}
			]}]}`,
			"0 items",
		},
		{
			"invented item id",
			`{"title": "x", "startDate": "2026-03-02", "endDate": "2026-03-02", "plan": [{"date": "2026-03-02", "meals": [
				{"name": "Breakfast", "items": [{"id": 999, "name": "Ghost Item"}]},
				{"name": "Lunch", "items": [{"id": 1, "name": "a"}]},
				{"name": "Dinner", "items": [{"id": 1, "name": "a"}]}
			]}]}`,
			"not in store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := newTestGenerator(&MockTextGenerator{Response: tt.response})

			_, _, err := gen.GenerateWithMeta(context.Background(), rag.GenerateRequest{Store: "TRADER_JOES", Days: 1})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGenerateNoCandidates(t *testing.T) {
	gen := NewGenerator(
		&MockItemSource{Items: storeItems()},
		&MockVectorSearcher{},
		&MockEmbedder{},
		&MockTextGenerator{Response: validPlanResponse},
	)

	_, _, err := gen.GenerateWithMeta(context.Background(), rag.GenerateRequest{Store: "TRADER_JOES", Days: 1})
	if err == nil || !strings.Contains(err.Error(), "no embedded items") {
		t.Errorf("expected a no-embedded-items error, got %v", err)
	}
}

func TestGenerateInvalidDays(t *testing.T) {
	gen := newTestGenerator(&MockTextGenerator{Response: validPlanResponse})

	for _, days := range []int{0, 15} {
		if _, _, err := gen.GenerateWithMeta(context.Background(), rag.GenerateRequest{Store: "TRADER_JOES", Days: days}); err == nil {
			t.Errorf("expected an error for days=%d", days)
		}
	}
}

func TestItemDoc(t *testing.T) {
	p := 3.49
	doc := ItemDoc(catalog.Item{
		Name: "Penne Pasta", Store: "TRADER_JOES", CategoryPath: "Pantry > Pasta",
		UnitSize: "16 oz", Price: &p,
	})

	want := "name: Penne Pasta\nstore: TRADER_JOES\ncategory: Pantry > Pasta\nunit_size: 16 oz\nprice: 3.49"
	if doc != want {
		t.Errorf("ItemDoc = %q, want %q", doc, want)
	}

	noPrice := ItemDoc(catalog.Item{Name: "Mystery"})
	if !strings.HasSuffix(noPrice, "price: ") {
		t.Errorf("expected empty price suffix, got %q", noPrice)
	}
}
