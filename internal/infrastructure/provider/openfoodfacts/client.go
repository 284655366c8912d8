// Package openfoodfacts implements the crowdsourced product database
// ingredient provider. Product payloads are loosely typed: nutrition
// values appear under several aliased keys, may arrive as strings, and
// energy may be reported in kilojoules instead of kilocalories.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/plateful/v1/internal/domain/ingredient"
	"github.com/plateful/v1/internal/ports/outbound"
)

const (
	defaultBaseURL = "https://world.openfoodfacts.org"
	defaultTimeout = 12 * time.Second
	userAgent      = "plateful/1.0 (+https://github.com/plateful/v1)"

	// kJPerKcal converts kilojoule energy values to kilocalories.
	kJPerKcal = 4.184
)

// Client queries the remote product database. It satisfies
// outbound.IngredientProvider.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ outbound.IngredientProvider = (*Client)(nil)

// NewClient creates a product database client. An empty baseURL falls
// back to the public endpoint.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

// Source reports the provider tag applied to results.
func (c *Client) Source() ingredient.Source {
	return ingredient.SourceProductDB
}

// Search looks up products matching the query. All failure modes degrade
// to an empty result; queries shorter than two characters skip the
// network call entirely.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]ingredient.Ingredient, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, nil
	}
	if maxResults <= 0 {
		maxResults = 20
	}

	endpoint := fmt.Sprintf("%s/cgi/search.pl?search_terms=%s&search_simple=1&action=process&json=1&page_size=%d&fields=code,product_name,nutriments",
		c.baseURL,
		url.QueryEscape(query),
		maxResults,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create product db request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("product db request failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("execute product db request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read product db response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("product db returned non-2xx",
			zap.String("query", query),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("product db request failed with status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode product db response: %w", err)
	}

	out := make([]ingredient.Ingredient, 0, len(parsed.Products))
	for _, product := range parsed.Products {
		item, ok := mapProduct(product)
		if !ok {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// mapProduct converts a raw product into the common shape, dropping
// entries without a usable display name or with an all-zero nutrition
// tuple.
func mapProduct(p offProduct) (ingredient.Ingredient, bool) {
	name := strings.TrimSpace(p.ProductName)

	per100g := ingredient.Nutrition{
		Calories: energyKcal(p.Nutriments),
		Protein:  nutrientValue(p.Nutriments, "proteins_100g", "proteins"),
		Carbs:    nutrientValue(p.Nutriments, "carbohydrates_100g", "carbohydrates"),
		Fat:      nutrientValue(p.Nutriments, "fat_100g", "fat"),
	}

	providerID := strings.TrimSpace(p.Code)
	if providerID == "" {
		providerID = strings.TrimSpace(p.ID)
	}

	item := ingredient.Ingredient{
		SourceID:              ingredient.NewSourceID(ingredient.SourceProductDB, providerID),
		Source:                ingredient.SourceProductDB,
		Name:                  name,
		PerGram:               per100g.Scale(1.0 / ingredient.DefaultReferenceServingGrams),
		ReferenceServingGrams: ingredient.DefaultReferenceServingGrams,
		StoreSection:          ingredient.DefaultStoreSection,
	}
	if !ingredient.HasUsableName(name) || per100g.IsZero() {
		return ingredient.Ingredient{}, false
	}
	return item, true
}

// energyKcal resolves energy from the aliased nutriment keys, preferring
// kilocalorie keys and converting kilojoule values when only those exist.
func energyKcal(n map[string]any) float64 {
	if v, ok := firstFloat(n, "energy-kcal_100g", "energy-kcal"); ok {
		return v
	}
	if v, ok := firstFloat(n, "energy_100g", "energy"); ok {
		return v / kJPerKcal
	}
	return 0
}

func nutrientValue(n map[string]any, keys ...string) float64 {
	v, _ := firstFloat(n, keys...)
	return v
}

func firstFloat(n map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		if v, ok := parseFloatAny(n[key]); ok {
			return v, true
		}
	}
	return 0, false
}

// parseFloatAny coerces the loosely typed nutriment values the product
// database emits (numbers, strings, json.Number) into a float64.
func parseFloatAny(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

type searchResponse struct {
	Products []offProduct `json:"products"`
}

type offProduct struct {
	ID          string         `json:"_id"`
	Code        string         `json:"code"`
	ProductName string         `json:"product_name"`
	Nutriments  map[string]any `json:"nutriments"`
}
