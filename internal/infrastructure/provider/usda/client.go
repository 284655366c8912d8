// Package usda implements the nutrition database ingredient provider.
package usda

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
	defaultBaseURL = "https://api.nal.usda.gov/fdc/v1/foods"
	defaultTimeout = 12 * time.Second

	// Nutrient type codes for the macro tuple, values per 100g.
	nutrientCalories = 1008
	nutrientProtein  = 1003
	nutrientCarbs    = 1005
	nutrientFat      = 1004
)

// Client queries the remote nutrition database and normalizes foods into
// the common ingredient shape. It satisfies outbound.IngredientProvider.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ outbound.IngredientProvider = (*Client)(nil)

// NewClient creates a nutrition database client. An empty baseURL falls
// back to the public endpoint.
func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		baseURL:    base,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

// Source reports the provider tag applied to results.
func (c *Client) Source() ingredient.Source {
	return ingredient.SourceNutritionDB
}

// Search looks up foods matching the query. Network failures, non-2xx
// responses, and malformed payloads all degrade to an empty result with a
// non-nil error so the caller can treat the source as unavailable.
// Queries shorter than two characters return empty without a network call.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]ingredient.Ingredient, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, nil
	}
	if maxResults <= 0 {
		maxResults = 20
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("pageSize", strconv.Itoa(maxResults))
	params.Set("dataType", "Foundation,SR Legacy,Branded")
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	endpoint := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create nutrition db request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("nutrition db request failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("execute nutrition db request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read nutrition db response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("nutrition db returned non-2xx",
			zap.String("query", query),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("nutrition db request failed with status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode nutrition db response: %w", err)
	}

	out := make([]ingredient.Ingredient, 0, len(parsed.Foods))
	for _, food := range parsed.Foods {
		item, ok := mapFood(food)
		if !ok {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// mapFood converts a raw food into the common shape, dropping entries
// without a usable display name or with an all-zero nutrition tuple.
func mapFood(food usdaFood) (ingredient.Ingredient, bool) {
	name := strings.TrimSpace(food.Description)
	per100g := ingredient.Nutrition{}
	for _, n := range food.FoodNutrients {
		switch n.NutrientID {
		case nutrientCalories:
			per100g.Calories = n.Value
		case nutrientProtein:
			per100g.Protein = n.Value
		case nutrientCarbs:
			per100g.Carbs = n.Value
		case nutrientFat:
			per100g.Fat = n.Value
		}
	}

	item := ingredient.Ingredient{
		SourceID:              ingredient.NewSourceID(ingredient.SourceNutritionDB, strconv.FormatInt(food.FDCID, 10)),
		Source:                ingredient.SourceNutritionDB,
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

type searchResponse struct {
	Foods []usdaFood `json:"foods"`
}

type usdaFood struct {
	FDCID         int64          `json:"fdcId"`
	Description   string         `json:"description"`
	FoodNutrients []usdaNutrient `json:"foodNutrients"`
}

type usdaNutrient struct {
	NutrientID int64   `json:"nutrientId"`
	Value      float64 `json:"value"`
}
