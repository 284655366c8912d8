package outbound

import (
	"context"

	"github.com/plateful/v1/internal/domain/ingredient"
)

// IngredientProvider is the contract every remote nutrition source
// implements. Search never propagates transport failures: network errors,
// non-2xx responses and malformed payloads all degrade to an empty slice
// with the error returned for logging only. Callers must treat a non-nil
// error as "source unavailable", not as a reason to abort.
type IngredientProvider interface {
	Source() ingredient.Source
	Search(ctx context.Context, query string, maxResults int) ([]ingredient.Ingredient, error)
}

// SearchCache caches formatted provider results keyed by
// (source, normalized query, page size). Implementations must never treat
// a cache failure as an error: anything that goes wrong is a miss.
type SearchCache interface {
	Get(source ingredient.Source, query string, pageSize int) ([]ingredient.Ingredient, bool)
	Set(source ingredient.Source, query string, pageSize int, results []ingredient.Ingredient)
}
