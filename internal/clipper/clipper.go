// Package clipper imports single products into the catalog from retailer
// product pages: it fetches the page, strips markup noise, and has the text
// model extract the structured product fields.
package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mealgen/internal/catalog"
	"mealgen/internal/llm"
	"mealgen/internal/nutrition"

	"github.com/PuerkitoBio/goquery"
)

// CatalogWriter persists extracted products.
type CatalogWriter interface {
	Upsert(ctx context.Context, item catalog.Item) (int64, error)
}

// NutritionWriter persists extracted nutrition documents.
type NutritionWriter interface {
	Upsert(ctx context.Context, itemID int64, nutritionJSON string) error
}

// Clipper handles fetching product pages and extracting catalog items.
type Clipper struct {
	catalog    CatalogWriter
	nutrition  NutritionWriter
	textGen    llm.TextGenerator
	httpClient *http.Client
}

// ExtractedProduct represents the data structured by the AI.
type ExtractedProduct struct {
	Name         string          `json:"name"`
	ExternalID   string          `json:"external_id"`
	Price        *float64        `json:"price"`
	UnitSize     string          `json:"unit_size"`
	CategoryPath string          `json:"category_path"`
	ImageURL     string          `json:"image_url"`
	Nutrition    *nutrition.Fact `json:"nutrition"`
}

// NewClipper creates a new Clipper instance.
func NewClipper(catalogWriter CatalogWriter, nutritionWriter NutritionWriter, textGen llm.TextGenerator) *Clipper {
	return &Clipper{
		catalog:    catalogWriter,
		nutrition:  nutritionWriter,
		textGen:    textGen,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// ClipURL fetches the product page, extracts the product using AI, and
// upserts it into the store's catalog along with any nutrition facts found.
func (c *Clipper) ClipURL(ctx context.Context, store, pageURL string) (*catalog.Item, error) {
	content, imageHint, err := c.fetchAndCleanHTML(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt := fmt.Sprintf(`
You are a grocery product extraction expert. Extract the product details from the following page content.
Return the result strictly as a JSON object with this structure:
{
  "name": "Product Name",
  "external_id": "retailer SKU or product code, empty string if absent",
  "price": 3.49,
  "unit_size": "e.g. 16 oz",
  "category_path": "e.g. Pantry > Pasta",
  "image_url": "absolute image URL, empty string if absent",
  "nutrition": {
    "calories": 200,
    "protein_g": 7,
    "total_fat_g": 1.5,
    "total_carbohydrate_g": 41,
    "sodium_mg": 0,
    "dietary_fiber_g": 2,
    "total_sugars_g": 2
  }
}
Use null for price and for any nutrition value that is not on the page, and null for "nutrition" when the page has no nutrition panel.

Page image candidate: %s

Page content:
%s
`, imageHint, content)

	llmResponse, err := c.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("ai extraction failed: %w", err)
	}

	var extracted ExtractedProduct
	if err := json.Unmarshal([]byte(llmResponse.Content), &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, llmResponse.Content)
	}
	if extracted.Name == "" {
		return nil, fmt.Errorf("no product name found on page")
	}
	if extracted.ExternalID == "" {
		extracted.ExternalID = externalIDFromURL(pageURL)
	}
	if extracted.ImageURL == "" {
		extracted.ImageURL = imageHint
	}

	item := catalog.Item{
		Store:        store,
		Name:         extracted.Name,
		ExternalID:   extracted.ExternalID,
		Price:        extracted.Price,
		UnitSize:     extracted.UnitSize,
		CategoryPath: extracted.CategoryPath,
		ImageURL:     extracted.ImageURL,
	}

	id, err := c.catalog.Upsert(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}
	item.ID = id

	if extracted.Nutrition != nil {
		doc, err := json.Marshal(map[string]any{"parsed": extracted.Nutrition})
		if err != nil {
			return nil, fmt.Errorf("failed to encode nutrition: %w", err)
		}
		if err := c.nutrition.Upsert(ctx, id, string(doc)); err != nil {
			return nil, fmt.Errorf("failed to save nutrition: %w", err)
		}
	}

	return &item, nil
}

func (c *Clipper) fetchAndCleanHTML(ctx context.Context, pageURL string) (content, imageHint string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", "", err
	}

	// The retailer's share image is usually the product photo.
	imageHint, _ = doc.Find(`meta[property="og:image"]`).Attr("content")

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), imageHint, nil
}

// externalIDFromURL derives a stable fallback ID from the last URL path
// segment so re-clipping the same page updates instead of duplicating.
func externalIDFromURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	last := segments[len(segments)-1]
	if last == "" {
		return u.Host
	}
	return last
}
