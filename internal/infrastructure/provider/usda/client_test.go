package usda

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plateful/v1/internal/domain/ingredient"
)

const searchFixture = `{
	"foods": [
		{
			"fdcId": 748967,
			"description": "Egg, whole, raw, fresh",
			"foodNutrients": [
				{"nutrientId": 1008, "value": 143},
				{"nutrientId": 1003, "value": 12.6},
				{"nutrientId": 1005, "value": 0.7},
				{"nutrientId": 1004, "value": 9.5},
				{"nutrientId": 1087, "value": 56}
			]
		},
		{
			"fdcId": 999001,
			"description": "12345",
			"foodNutrients": [{"nutrientId": 1008, "value": 100}]
		},
		{
			"fdcId": 999002,
			"description": "Egg substitute, data pending",
			"foodNutrients": []
		}
	]
}`

func TestSearchMapsNutrientCodes(t *testing.T) {
	var gotQuery, gotPageSize, gotAPIKey string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotPageSize = r.URL.Query().Get("pageSize")
		gotAPIKey = r.URL.Query().Get("api_key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchFixture))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL, "test-key", zap.NewNop())
	results, err := client.Search(context.Background(), "egg", 25)
	require.NoError(t, err)

	assert.Equal(t, "egg", gotQuery)
	assert.Equal(t, "25", gotPageSize)
	assert.Equal(t, "test-key", gotAPIKey)

	// The numeric-named food and the all-zero food are dropped.
	require.Len(t, results, 1)
	egg := results[0]
	assert.Equal(t, "Egg, whole, raw, fresh", egg.Name)
	assert.Equal(t, "nutrition-db-748967", egg.SourceID)
	assert.Equal(t, ingredient.SourceNutritionDB, egg.Source)

	// Per-100g values land as per-gram.
	assert.InDelta(t, 1.43, egg.PerGram.Calories, 1e-9)
	assert.InDelta(t, 0.126, egg.PerGram.Protein, 1e-9)
	assert.InDelta(t, 0.007, egg.PerGram.Carbs, 1e-9)
	assert.InDelta(t, 0.095, egg.PerGram.Fat, 1e-9)
	assert.Equal(t, ingredient.DefaultReferenceServingGrams, egg.ReferenceServingGrams)
}

func TestSearchShortQuerySkipsNetwork(t *testing.T) {
	var calls atomic.Int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL, "", zap.NewNop())

	results, err := client.Search(context.Background(), "e", 20)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, calls.Load())
}

func TestSearchNon2xxIsAnError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL, "", zap.NewNop())
	results, err := client.Search(context.Background(), "egg", 20)
	require.Error(t, err)
	assert.Empty(t, results)
}

func TestSearchMalformedPayloadIsAnError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL, "", zap.NewNop())
	results, err := client.Search(context.Background(), "egg", 20)
	require.Error(t, err)
	assert.Empty(t, results)
}

func TestSearchUnreachableUpstreamIsAnError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", zap.NewNop())

	results, err := client.Search(context.Background(), "egg", 20)
	require.Error(t, err)
	assert.Empty(t, results)
}
