// Package search provides the unified ingredient search use case. It
// merges the local catalog with both remote nutrition sources into one
// ordered result list, consulting the result cache before any network
// call.
package search

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/plateful/v1/internal/domain/ingredient"
	"github.com/plateful/v1/internal/ports/inbound"
	"github.com/plateful/v1/internal/ports/outbound"
)

// remoteLimit is the internal page size for remote queries. It is
// deliberately generous so relevance ranking has enough candidates even
// though only the single best result per source survives.
const remoteLimit = 20

const (
	relevanceExact     = 3.0
	relevancePrefix    = 2.0
	relevanceSubstring = 1.0
	// nutritionBonus favors remote candidates that actually carry data.
	nutritionBonus = 0.5
)

// SearchService implements the unified search use case.
type SearchService struct {
	catalog   outbound.CatalogRepository
	providers []outbound.IngredientProvider
	cache     outbound.SearchCache
	logger    *zap.Logger

	// seq orders searches by issue time so that a stale in-flight search
	// can detect it has been superseded (last-write-wins by issue order,
	// not completion order).
	seq atomic.Int64
}

// NewSearchService creates the unified search service. Provider order is
// irrelevant; result tiers are fixed by source.
func NewSearchService(
	catalog outbound.CatalogRepository,
	providers []outbound.IngredientProvider,
	cache outbound.SearchCache,
	logger *zap.Logger,
) inbound.SearchService {
	return &SearchService{
		catalog:   catalog,
		providers: providers,
		cache:     cache,
		logger:    logger.Named("search-service"),
	}
}

// SearchAll merges local and remote results. Local matches always outrank
// remote results; between remote sources, the product database entry is
// listed before the nutrition database entry. Each remote source
// contributes at most its single best candidate. A failing remote source
// is tolerated: its slot is simply omitted.
func (s *SearchService) SearchAll(ctx context.Context, query string) ([]ingredient.Ingredient, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	token := s.seq.Add(1)

	local, err := s.searchLocal(ctx, query)
	if err != nil {
		s.logger.Warn("local catalog search failed", zap.Error(err))
		local = nil
	}

	best := s.searchRemote(ctx, query)

	// A newer query was issued while this one was in flight; its results
	// must win regardless of completion order.
	if s.seq.Load() != token {
		return nil, inbound.ErrSearchSuperseded
	}

	results := local
	if b, ok := best[ingredient.SourceProductDB]; ok {
		results = append(results, b)
	}
	if b, ok := best[ingredient.SourceNutritionDB]; ok {
		results = append(results, b)
	}
	return results, nil
}

// searchLocal runs the synchronous catalog substring match, sorted by
// relevance descending with ties broken by catalog insertion order.
func (s *SearchService) searchLocal(ctx context.Context, query string) ([]ingredient.Ingredient, error) {
	entries, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	lowered := strings.ToLower(query)
	type scored struct {
		item  ingredient.Ingredient
		score float64
	}
	var matches []scored
	for _, entry := range entries {
		score := relevance(entry.Name, lowered)
		if score == 0 {
			continue
		}
		matches = append(matches, scored{item: entry, score: score})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]ingredient.Ingredient, len(matches))
	for i, m := range matches {
		out[i] = m.item
	}
	return out, nil
}

// searchRemote fans out to all providers concurrently and reduces each
// source to its single best candidate.
func (s *SearchService) searchRemote(ctx context.Context, query string) map[ingredient.Source]ingredient.Ingredient {
	type sourceResult struct {
		source  ingredient.Source
		results []ingredient.Ingredient
	}

	resultCh := make(chan sourceResult, len(s.providers))
	var wg sync.WaitGroup
	for _, provider := range s.providers {
		wg.Add(1)
		go func(p outbound.IngredientProvider) {
			defer wg.Done()
			resultCh <- sourceResult{source: p.Source(), results: s.querySource(ctx, p, query)}
		}(provider)
	}
	wg.Wait()
	close(resultCh)

	lowered := strings.ToLower(query)
	best := make(map[ingredient.Source]ingredient.Ingredient, len(s.providers))
	for r := range resultCh {
		if b, ok := bestCandidate(r.results, lowered); ok {
			best[r.source] = b
		}
	}
	return best
}

// querySource consults the cache before the network and writes formatted
// results back on a miss. Provider failures degrade to an empty slice.
func (s *SearchService) querySource(ctx context.Context, p outbound.IngredientProvider, query string) []ingredient.Ingredient {
	if cached, ok := s.cache.Get(p.Source(), query, remoteLimit); ok {
		return cached
	}

	results, err := p.Search(ctx, query, remoteLimit)
	if err != nil {
		s.logger.Warn("remote source unavailable",
			zap.String("source", string(p.Source())),
			zap.Error(err))
		return nil
	}
	s.cache.Set(p.Source(), query, remoteLimit, results)
	return results
}

// bestCandidate picks the single highest-relevance result. Candidates with
// any non-zero nutrition get a bonus; score ties are won by the first
// candidate found.
func bestCandidate(results []ingredient.Ingredient, loweredQuery string) (ingredient.Ingredient, bool) {
	var (
		best      ingredient.Ingredient
		bestScore float64
		found     bool
	)
	for _, r := range results {
		score := relevance(r.Name, loweredQuery)
		if score == 0 {
			continue
		}
		if !r.PerGram.IsZero() {
			score += nutritionBonus
		}
		if !found || score > bestScore {
			best = r
			bestScore = score
			found = true
		}
	}
	return best, found
}

// relevance scores a candidate name against the lowercased query: exact
// match beats prefix match beats substring match; no match scores zero.
func relevance(name, loweredQuery string) float64 {
	lowered := strings.ToLower(name)
	switch {
	case lowered == loweredQuery:
		return relevanceExact
	case strings.HasPrefix(lowered, loweredQuery):
		return relevancePrefix
	case strings.Contains(lowered, loweredQuery):
		return relevanceSubstring
	default:
		return 0
	}
}
