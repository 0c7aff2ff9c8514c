package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mealgen/internal/catalog"
	"mealgen/internal/llm"
)

// --- Mocks ---

type MockCatalogWriter struct {
	Saved       *catalog.Item
	ShouldError bool
}

func (m *MockCatalogWriter) Upsert(ctx context.Context, item catalog.Item) (int64, error) {
	if m.ShouldError {
		return 0, fmt.Errorf("mock catalog error")
	}
	m.Saved = &item
	return 77, nil
}

type MockNutritionWriter struct {
	ItemID int64
	Doc    string
}

func (m *MockNutritionWriter) Upsert(ctx context.Context, itemID int64, nutritionJSON string) error {
	m.ItemID = itemID
	m.Doc = nutritionJSON
	return nil
}

type MockTextGenerator struct {
	Response    string
	LastPrompt  string
	ShouldError bool
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	m.LastPrompt = prompt
	if m.ShouldError {
		return llm.ContentResponse{}, fmt.Errorf("mock ai error")
	}
	return llm.ContentResponse{Content: m.Response}, nil
}

const productHTML = `
<html>
	<head>
		<script>alert('bad');</script>
		<meta property="og:image" content="https://img.example.com/pasta.jpg">
	</head>
	<body>
		<nav>Menu</nav>
		<h1>Organic Penne Pasta</h1>
		<div class="ads">Buy stuff!</div>
		<p>16 oz — $1.99 — SKU 123456</p>
		<footer>Copyright 2026</footer>
	</body>
</html>`

// --- Tests ---

func TestClipURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productHTML))
	}))
	defer ts.Close()

	extraction := `{
		"name": "Organic Penne Pasta",
		"external_id": "123456",
		"price": 1.99,
		"unit_size": "16 oz",
		"category_path": "Pantry > Pasta",
		"image_url": "https://img.example.com/pasta.jpg",
		"nutrition": {"calories": 200, "protein_g": 7}
	}`

	catalogW := &MockCatalogWriter{}
	nutritionW := &MockNutritionWriter{}
	text := &MockTextGenerator{Response: extraction}
	c := NewClipper(catalogW, nutritionW, text)

	item, err := c.ClipURL(context.Background(), "TRADER_JOES", ts.URL+"/products/penne")
	if err != nil {
		t.Fatalf("ClipURL failed: %v", err)
	}

	if item.ID != 77 {
		t.Errorf("item id = %d, want 77", item.ID)
	}
	if catalogW.Saved == nil {
		t.Fatal("item never saved")
	}
	if catalogW.Saved.Store != "TRADER_JOES" || catalogW.Saved.Name != "Organic Penne Pasta" {
		t.Errorf("saved item = %+v", catalogW.Saved)
	}
	if catalogW.Saved.ExternalID != "123456" {
		t.Errorf("external id = %s", catalogW.Saved.ExternalID)
	}
	if catalogW.Saved.Price == nil || *catalogW.Saved.Price != 1.99 {
		t.Errorf("price = %v", catalogW.Saved.Price)
	}

	// The page text reaches the model, the stripped noise does not.
	if !strings.Contains(text.LastPrompt, "Organic Penne Pasta") {
		t.Error("prompt missing page content")
	}
	for _, noise := range []string{"alert('bad')", "Buy stuff!", "Copyright 2026", "Menu"} {
		if strings.Contains(text.LastPrompt, noise) {
			t.Errorf("prompt contains stripped content %q", noise)
		}
	}
	if !strings.Contains(text.LastPrompt, "https://img.example.com/pasta.jpg") {
		t.Error("prompt missing og:image hint")
	}

	// Nutrition is stored wrapped in a parsed envelope.
	if nutritionW.ItemID != 77 {
		t.Errorf("nutrition item id = %d, want 77", nutritionW.ItemID)
	}
	var doc struct {
		Parsed struct {
			Calories *float64 `json:"calories"`
		} `json:"parsed"`
	}
	if err := json.Unmarshal([]byte(nutritionW.Doc), &doc); err != nil {
		t.Fatalf("nutrition doc invalid: %v", err)
	}
	if doc.Parsed.Calories == nil || *doc.Parsed.Calories != 200 {
		t.Errorf("stored calories = %v", doc.Parsed.Calories)
	}
}

func TestClipURLFallbacks(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productHTML))
	}))
	defer ts.Close()

	// Model found no SKU and no image; nutrition panel absent.
	extraction := `{"name": "Organic Penne Pasta", "external_id": "", "image_url": ""}`

	catalogW := &MockCatalogWriter{}
	nutritionW := &MockNutritionWriter{}
	c := NewClipper(catalogW, nutritionW, &MockTextGenerator{Response: extraction})

	item, err := c.ClipURL(context.Background(), "TRADER_JOES", ts.URL+"/products/organic-penne/")
	if err != nil {
		t.Fatalf("ClipURL failed: %v", err)
	}

	// External ID falls back to the last URL path segment.
	if item.ExternalID != "organic-penne" {
		t.Errorf("external id = %s, want organic-penne", item.ExternalID)
	}
	// Image falls back to the og:image hint.
	if item.ImageURL != "https://img.example.com/pasta.jpg" {
		t.Errorf("image url = %s", item.ImageURL)
	}
	// No nutrition saved without a panel.
	if nutritionW.ItemID != 0 {
		t.Error("nutrition saved despite absent panel")
	}
}

func TestClipURLErrors(t *testing.T) {
	t.Run("page fetch failure", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer ts.Close()

		c := NewClipper(&MockCatalogWriter{}, &MockNutritionWriter{}, &MockTextGenerator{})
		if _, err := c.ClipURL(context.Background(), "TRADER_JOES", ts.URL); err == nil {
			t.Error("expected an error for a 404 page")
		}
	})

	t.Run("model failure", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(productHTML))
		}))
		defer ts.Close()

		c := NewClipper(&MockCatalogWriter{}, &MockNutritionWriter{}, &MockTextGenerator{ShouldError: true})
		if _, err := c.ClipURL(context.Background(), "TRADER_JOES", ts.URL); err == nil {
			t.Error("expected an error when extraction fails")
		}
	})

	t.Run("unparsable extraction", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(productHTML))
		}))
		defer ts.Close()

		c := NewClipper(&MockCatalogWriter{}, &MockNutritionWriter{}, &MockTextGenerator{Response: "not json"})
		if _, err := c.ClipURL(context.Background(), "TRADER_JOES", ts.URL); err == nil {
			t.Error("expected an error for unparsable model output")
		}
	})

	t.Run("missing product name", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(productHTML))
		}))
		defer ts.Close()

		c := NewClipper(&MockCatalogWriter{}, &MockNutritionWriter{}, &MockTextGenerator{Response: `{"name": ""}`})
		if _, err := c.ClipURL(context.Background(), "TRADER_JOES", ts.URL); err == nil {
			t.Error("expected an error when no name was extracted")
		}
	})
}
