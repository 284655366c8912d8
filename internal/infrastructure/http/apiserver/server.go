// Package apiserver provides the pure JSON API HTTP server implementation.
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/plateful/v1/internal/infrastructure/config"
	"github.com/plateful/v1/internal/infrastructure/http/handlers"
	"github.com/plateful/v1/internal/infrastructure/http/middleware"
	"github.com/plateful/v1/internal/ports/inbound"
)

// APIServer represents the JSON API HTTP server.
type APIServer struct {
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	router   *chi.Mux
	handlers *handlers.APIHandlers
	proxy    *handlers.ProxyHandler
}

// NewAPIServer creates a new API server instance.
func NewAPIServer(
	cfg *config.Config,
	log *zap.Logger,
	searchService inbound.SearchService,
	recipeService inbound.RecipeService,
	catalogService inbound.CatalogService,
	mealPlanService inbound.MealPlanService,
	shoppingService inbound.ShoppingService,
) *APIServer {
	server := &APIServer{
		config: cfg,
		logger: log,
		handlers: handlers.NewAPIHandlers(
			searchService,
			recipeService,
			catalogService,
			mealPlanService,
			shoppingService,
			log,
		),
		proxy: handlers.NewProxyHandler(
			cfg.Proxy.UpstreamBaseURL,
			cfg.Proxy.DefaultStoreNumber,
			cfg.Proxy.RequestsPerSecond,
			cfg.Proxy.Burst,
			log,
		),
	}

	server.router = server.setupRoutes()
	server.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return server
}

// setupRoutes configures the JSON API routes.
func (s *APIServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS())
	r.Use(chimiddleware.Timeout(30 * time.Second))

	// Health check endpoint
	r.Get("/health", s.handlers.HealthCheck)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		s.setupAPIV1Routes(r)
	})

	return r
}

// setupAPIV1Routes configures API v1 endpoints.
func (s *APIServer) setupAPIV1Routes(r chi.Router) {
	h := s.handlers

	// The proxy manages its own content type and CORS, so it is mounted
	// outside the JSONOnly group.
	r.Handle("/proxy/retailer-product", s.proxy)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JSONOnly())

		// Unified ingredient search
		r.Get("/ingredients/search", h.SearchIngredients)

		// Local catalog
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", h.ListCatalog)
			r.Post("/", h.SaveCatalogIngredient)
			r.Post("/import", h.ImportCatalog)
			r.Delete("/{sourceID}", h.DeleteCatalogIngredient)
		})

		// Recipes
		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", h.ListRecipes)
			r.Post("/", h.CreateRecipe)
			r.Get("/{id}", h.GetRecipe)
			r.Put("/{id}", h.UpdateRecipe)
			r.Delete("/{id}", h.DeleteRecipe)
		})

		// Meal plan
		r.Route("/plan", func(r chi.Router) {
			r.Get("/", h.WeekView)
			r.Get("/nutrition", h.DailyNutrition)
			r.Post("/entries", h.AddPlanEntry)
			r.Delete("/entries/{id}", h.DeletePlanEntry)
			r.Post("/rules", h.AddRecurringRule)
			r.Delete("/rules/{id}", h.DeleteRecurringRule)
			r.Delete("/rules/{id}/occurrences", h.DeleteOccurrence)
		})

		// Shopping lists
		r.Route("/shopping", func(r chi.Router) {
			r.Get("/build", h.BuildWeekList)
			r.Get("/lists", h.ListShoppingLists)
			r.Post("/lists", h.CreateShoppingList)
			r.Get("/lists/{id}", h.GetShoppingList)
			r.Delete("/lists/{id}", h.DeleteShoppingList)
			r.Post("/lists/{id}/merge", h.MergeIntoShoppingList)
			r.Delete("/lists/{id}/items/{itemID}", h.RemoveShoppingListItem)
		})

		// Health check
		r.Get("/health", h.HealthCheck)
	})
}

// Start starts the API HTTP server.
func (s *APIServer) Start() error {
	s.logger.Info("Starting JSON API server",
		zap.String("addr", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.server.Shutdown(ctx)
}

// Router exposes the configured router, mainly for tests.
func (s *APIServer) Router() http.Handler {
	return s.router
}
