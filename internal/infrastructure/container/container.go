// Package container provides dependency injection using Uber FX.
package container

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogApp "github.com/plateful/v1/internal/application/catalog"
	mealplanApp "github.com/plateful/v1/internal/application/mealplan"
	recipeApp "github.com/plateful/v1/internal/application/recipe"
	searchApp "github.com/plateful/v1/internal/application/search"
	shoppingApp "github.com/plateful/v1/internal/application/shopping"
	"github.com/plateful/v1/internal/domain/ingredient"
	"github.com/plateful/v1/internal/infrastructure/cache"
	"github.com/plateful/v1/internal/infrastructure/config"
	"github.com/plateful/v1/internal/infrastructure/http/apiserver"
	gormRepo "github.com/plateful/v1/internal/infrastructure/persistence/gorm"
	"github.com/plateful/v1/internal/infrastructure/persistence/sqlite"
	"github.com/plateful/v1/internal/infrastructure/provider/openfoodfacts"
	"github.com/plateful/v1/internal/infrastructure/provider/usda"
	"github.com/plateful/v1/internal/ports/outbound"
	"github.com/plateful/v1/pkg/logger"
)

// Module provides all dependency injection modules.
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	ProviderModule,
	RepositoryModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration.
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging.
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the SQLite database connection.
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		db, err := sqlite.SetupDatabase(cfg.Database.Path, sqlite.ParseLogLevel(cfg.Database.LogLevel))
		if err != nil {
			return nil, err
		}
		log.Info("Connected to SQLite database",
			zap.String("path", cfg.Database.Path),
		)
		return db, nil
	},
)

// CacheModule provides the search result cache.
var CacheModule = fx.Provide(
	func(cfg *config.Config) outbound.SearchCache {
		return cache.NewSearchCache(
			cache.WithTTL(cfg.Cache.TTL),
			cache.WithMaxBytes(cfg.Cache.MaxBytes),
		)
	},
)

// ProviderModule provides the remote nutrition source clients.
var ProviderModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) []outbound.IngredientProvider {
		return []outbound.IngredientProvider{
			openfoodfacts.NewClient(cfg.Providers.ProductDBBaseURL, log),
			usda.NewClient(cfg.Providers.NutritionDBBaseURL, cfg.Providers.NutritionDBAPIKey, log),
		}
	},
)

// RepositoryModule provides repository implementations.
var RepositoryModule = fx.Provide(
	gormRepo.NewCatalogRepository,
	gormRepo.NewRecipeRepository,
	gormRepo.NewMealPlanRepository,
	gormRepo.NewShoppingListRepository,
	func(db *gorm.DB, cfg *config.Config) outbound.SettingsRepository {
		return gormRepo.NewSettingsRepository(db, outbound.Settings{
			DailyGoals: ingredient.Nutrition{
				Calories: cfg.Goals.Calories,
				Protein:  cfg.Goals.Protein,
				Carbs:    cfg.Goals.Carbs,
				Fat:      cfg.Goals.Fat,
			},
			DefaultStoreNumber: cfg.Proxy.DefaultStoreNumber,
		})
	},
)

// ServiceModule provides application services.
var ServiceModule = fx.Provide(
	searchApp.NewSearchService,
	recipeApp.NewRecipeService,
	catalogApp.NewCatalogService,
	mealplanApp.NewMealPlanService,
	shoppingApp.NewShoppingService,
)

// HTTPModule provides the HTTP server.
var HTTPModule = fx.Provide(
	apiserver.NewAPIServer,
)

// LifecycleModule provides lifecycle hooks.
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks.
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	server *apiserver.APIServer,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting Plateful application",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := server.Start(); err != nil {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Plateful application")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			sqlDB, err := db.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}
