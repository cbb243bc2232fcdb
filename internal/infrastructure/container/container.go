// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"

	"github.com/pantrychef/v2/internal/application/matching"
	"github.com/pantrychef/v2/internal/application/shoppinglist"
	"github.com/pantrychef/v2/internal/infrastructure/cache"
	"github.com/pantrychef/v2/internal/infrastructure/config"
	"github.com/pantrychef/v2/internal/infrastructure/dataset"
	"github.com/pantrychef/v2/internal/infrastructure/http/handlers"
	"github.com/pantrychef/v2/internal/infrastructure/http/middleware"
	"github.com/pantrychef/v2/internal/infrastructure/http/server"
	"github.com/pantrychef/v2/internal/infrastructure/monitoring"
	"github.com/pantrychef/v2/internal/infrastructure/persistence/memory"
	"github.com/pantrychef/v2/internal/infrastructure/persistence/redis"
	"github.com/pantrychef/v2/internal/infrastructure/persistence/sqlite"
	"github.com/pantrychef/v2/internal/ports/outbound"
	"github.com/pantrychef/v2/pkg/healthcheck"
	"github.com/pantrychef/v2/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	StorageModule,
	DatasetModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// StorageModule provides the key-value store selected by storage.driver
var StorageModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (outbound.KeyValueStore, error) {
		switch cfg.Storage.Driver {
		case "memory":
			log.Info("Using in-memory storage")
			return memory.NewKeyValueStore(), nil

		case "sqlite":
			dbPath := cfg.Storage.Path
			if dbPath == "" {
				dbPath = ":memory:"
			}
			logLevel := gormLogger.Silent
			if cfg.App.Debug {
				logLevel = gormLogger.Info
			}
			db, err := sqlite.SetupDatabase(dbPath, logLevel)
			if err != nil {
				return nil, fmt.Errorf("failed to setup SQLite storage: %w", err)
			}
			log.Info("Connected to SQLite storage",
				zap.String("path", dbPath),
				zap.Bool("in_memory", dbPath == ":memory:"),
			)
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					sqlDB, err := db.DB()
					if err != nil {
						return err
					}
					return sqlDB.Close()
				},
			})
			return sqlite.NewKeyValueStore(db), nil

		case "redis":
			store, err := redis.NewKeyValueStore(context.Background(), &cfg.Redis, cfg.RedisAddr(), log)
			if err != nil {
				return nil, fmt.Errorf("failed to connect to Redis storage: %w", err)
			}
			log.Info("Connected to Redis storage", zap.String("addr", cfg.RedisAddr()))
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					return store.Close()
				},
			})
			return store, nil

		default:
			return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
		}
	},
)

// DatasetModule provides the recipe dataset behind a TTL cache
var DatasetModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) outbound.RecipeSource {
		loader := dataset.NewLoader(cfg.Dataset.Dir, log)
		return cache.NewRecipeCache(loader, log, cache.WithTTL(cfg.Dataset.CacheTTL))
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	matching.NewService,
	shoppinglist.NewService,
)

// HTTPModule provides the HTTP server, handlers and middleware
var HTTPModule = fx.Provide(
	monitoring.NewMetricsCollector,
	NewHealthCheck,
	middleware.New,
	handlers.NewAPI,
	server.New,
)

// NewHealthCheck registers dependency probes for the health endpoint
func NewHealthCheck(
	cfg *config.Config,
	log *zap.Logger,
	store outbound.KeyValueStore,
	recipes outbound.RecipeSource,
) *healthcheck.HealthCheck {
	hc := healthcheck.New(cfg.App.Version, log)
	hc.RegisterFunc("storage", func(ctx context.Context) error {
		_, err := store.Get(ctx, outbound.KeyActiveShoppingList)
		return err
	})
	hc.RegisterFunc("dataset", func(ctx context.Context) error {
		_, err := recipes.AllRecipes(ctx)
		return err
	})
	return hc
}

// LifecycleModule registers lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks starts and stops the HTTP server with the app
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting PantryChef application",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)
			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down PantryChef application")
			if err := srv.Stop(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}
			_ = log.Sync()
			return nil
		},
	})
}
