package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"concierge-chef/internal/ingredient"
	"concierge-chef/internal/llm"
	"concierge-chef/internal/recipe"
	"concierge-chef/internal/shared"

	"github.com/PuerkitoBio/goquery"
)

// maxContentChars bounds the page text handed to the model.
const maxContentChars = 12000

// Clipper turns a recipe web page into a structured catalog entry. It
// is the one LLM-backed path in the system; everything downstream of
// the catalog stays deterministic.
type Clipper struct {
	textGen    llm.TextGenerator
	httpClient *http.Client
}

// NewClipper creates a new Clipper instance.
func NewClipper(textGen llm.TextGenerator) *Clipper {
	return &Clipper{
		textGen: textGen,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// extractedRecipe is the shape the model is asked to return.
type extractedRecipe struct {
	Title       string   `json:"title"`
	Ingredients []struct {
		Name     string  `json:"name"`
		Amount   float64 `json:"amount"`
		Unit     string  `json:"unit"`
		Category string  `json:"category"`
	} `json:"ingredients"`
	Tags        []string `json:"tags"`
	Diets       []string `json:"diets"`
	PrepMinutes int      `json:"prep_minutes"`
	Servings    int      `json:"servings"`
}

// ClipURL fetches the URL, extracts a structured recipe, and returns it
// together with the LLM execution metadata for the metrics store.
func (c *Clipper) ClipURL(ctx context.Context, url string) (*recipe.Recipe, shared.AgentMeta, error) {
	start := time.Now()

	content, err := c.fetchAndCleanHTML(ctx, url)
	if err != nil {
		return nil, shared.AgentMeta{}, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt := fmt.Sprintf(`
You are a recipe extraction expert. Extract the recipe details from the following page text.

Return the output as a JSON object with the following structure:
{
	"title": "Recipe Name",
	"ingredients": [{"name": "flour", "amount": 2, "unit": "cup", "category": "grain"}, ...],
	"tags": ["tag1", "tag2"],
	"diets": ["vegetarian"],
	"prep_minutes": 30,
	"servings": 4
}

Use units from: g, kg, oz, lb, ml, l, tsp, tbsp, cup, piece, can, clove, slice.
Use categories from: produce, protein, dairy, grain, spice, condiment, other.
Ensure the output is valid JSON. Return ONLY the raw JSON string, with no
markdown code blocks and no other text.

Page text:
%s
`, content)

	resp, err := c.textGen.GenerateContent(ctx, prompt)
	meta := shared.AgentMeta{
		AgentName: "Clipper",
		Model:     resp.Model,
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}
	if err != nil {
		return nil, meta, fmt.Errorf("failed to get LLM response: %w", err)
	}

	var extracted extractedRecipe
	if err := json.Unmarshal([]byte(resp.Content), &extracted); err != nil {
		return nil, meta, fmt.Errorf("failed to unmarshal extracted recipe: %w. LLM Response: %s", err, resp.Content)
	}
	if extracted.Title == "" {
		return nil, meta, fmt.Errorf("extracted recipe has no title")
	}

	rec := &recipe.Recipe{
		ID:          Slug(extracted.Title),
		Title:       extracted.Title,
		Tags:        extracted.Tags,
		Diets:       extracted.Diets,
		PrepMinutes: extracted.PrepMinutes,
		Servings:    extracted.Servings,
	}
	for _, ing := range extracted.Ingredients {
		unit := ingredient.NormalizeUnit(ingredient.Unit(ing.Unit))
		rec.Requirements = append(rec.Requirements, recipe.Requirement{
			Ingredient: ingredient.Ingredient{
				Name:     ingredient.Canonical(ing.Name),
				Unit:     unit,
				Category: ingredient.Category(ing.Category),
			},
			Quantity: ingredient.Quantity{Amount: ing.Amount, Unit: unit},
		})
	}
	return rec, meta, nil
}

// fetchAndCleanHTML retrieves the page and reduces it to readable text.
func (c *Clipper) fetchAndCleanHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, nav, header, footer, iframe, noscript").Remove()
	text := strings.TrimSpace(doc.Find("body").Text())
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > maxContentChars {
		text = text[:maxContentChars]
	}
	return text, nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a stable catalog id from a recipe title.
func Slug(title string) string {
	s := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}
