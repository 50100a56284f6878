package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/shard-legends/cocktails-service/internal/config"
	"github.com/shard-legends/cocktails-service/internal/database"
	"github.com/shard-legends/cocktails-service/internal/gateway"
	"github.com/shard-legends/cocktails-service/internal/handlers"
	"github.com/shard-legends/cocktails-service/internal/middleware"
	"github.com/shard-legends/cocktails-service/internal/orchestrator"
	"github.com/shard-legends/cocktails-service/internal/repository"
	"github.com/shard-legends/cocktails-service/internal/service"
	"github.com/shard-legends/cocktails-service/internal/session"
	"github.com/shard-legends/cocktails-service/internal/storage"
	"github.com/shard-legends/cocktails-service/pkg/jwt"
	"github.com/shard-legends/cocktails-service/pkg/logger"
	"github.com/shard-legends/cocktails-service/pkg/metrics"
)

const serviceVersion = "1.0.0"

func main() {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.Get()
	defer func() { _ = logger.Sync() }()

	log.Info("Starting cocktails-service", zap.String("config", cfg.String()))

	// Initialize metrics
	metricsCollector := metrics.New()
	metricsCollector.Initialize()
	serviceMetrics := metrics.NewServiceMetrics(metricsCollector)

	gin.SetMode(gin.ReleaseMode)

	dependencies := map[string]handlers.HealthChecker{}

	// Favorite store
	var favorites storage.FavoriteStore
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		postgres, err := database.NewPostgresDB(cfg.Database.URL, cfg.Database.MaxConnections, log, metricsCollector)
		if err != nil {
			log.Fatal("Failed to initialize PostgreSQL", zap.Error(err))
		}
		defer postgres.Close()

		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = postgres.Migrate(migrateCtx)
		cancel()
		if err != nil {
			log.Fatal("Failed to apply database schema", zap.Error(err))
		}

		favorites = storage.NewFavoriteStorage(postgres.DB(), log, serviceMetrics)
		dependencies["postgres"] = postgres
	default:
		log.Warn("Using in-memory favorite store, favorites are lost on restart")
		favorites = storage.NewMemoryFavoriteStorage()
	}

	// Initialize Redis
	redisDB, err := database.NewRedisDB(cfg.Redis.URL, cfg.Redis.MaxConnections, log, metricsCollector)
	if err != nil {
		log.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer redisDB.Close()
	dependencies["redis"] = redisDB

	// Token keys
	keys, err := jwt.NewKeyManager(jwt.KeyPaths{
		PrivateKeyPath: cfg.Auth.PrivateKeyPath,
		PublicKeyPath:  cfg.Auth.PublicKeyPath,
	}, cfg.Auth.Issuer, cfg.Auth.TokenTTL, log)
	if err != nil {
		log.Fatal("Failed to initialize JWT keys", zap.Error(err))
	}

	// Recipe API
	recipes, err := gateway.NewHTTPRecipeGatewayWithTimeout(cfg.RecipeAPI.BaseURL, cfg.RecipeAPI.Timeout, log, serviceMetrics)
	if err != nil {
		log.Fatal("Failed to initialize recipe API client", zap.Error(err))
	}
	dependencies["recipe_api"] = recipes

	repo := repository.NewCocktailsRepository(recipes, favorites, log)

	authService := service.NewAuthService(
		storage.NewRedisUserStorage(redisDB.Client(), log, serviceMetrics),
		keys,
		redisDB,
		log,
		serviceMetrics,
		service.WithBcryptCost(cfg.Auth.BcryptCost),
	)

	search := orchestrator.NewSearch(repo, log, serviceMetrics, cfg.Search.Delay)
	defer search.Close()

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, log, serviceMetrics)
		defer rateLimiter.Close()
	}

	// Create Gin router for public API
	publicRouter := gin.New()
	handlers.SetupPublicRoutes(publicRouter, &handlers.RouterConfig{
		AuthService:    authService,
		List:           orchestrator.NewList(repo, log, serviceMetrics),
		Search:         search,
		Details:        orchestrator.NewDetails(repo, log, serviceMetrics),
		Options:        orchestrator.NewFilterOptions(repo, log),
		Favorites:      orchestrator.NewFavorites(repo, log, serviceMetrics),
		Sessions:       session.NewFactory(repo, log, serviceMetrics, cfg.Search.Delay),
		TokenParser:    keys,
		Revocations:    redisDB,
		RateLimiter:    rateLimiter,
		Metrics:        metricsCollector,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         log,
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         600,
	})

	// Create Gin router for internal API
	healthHandler := handlers.NewHealthHandler(log, serviceVersion, dependencies, metricsCollector)
	internalRouter := gin.New()
	handlers.SetupInternalRoutes(internalRouter, healthHandler, log)

	// Sessions outlive their HTTP request, so they hang off a context cancelled at shutdown
	rootCtx, stopSessions := context.WithCancel(context.Background())
	defer stopSessions()

	publicServer := &http.Server{
		Addr:        net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:     corsHandler.Handler(publicRouter),
		ReadTimeout: cfg.Server.ReadTimeout,
		// sessions set their own write deadlines
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return rootCtx },
	}

	internalServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.InternalPort),
		Handler:      internalRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start health monitoring goroutine
	go func() {
		ticker := time.NewTicker(cfg.Health.CheckInterval)
		defer ticker.Stop()

		for {
			select {
			case <-rootCtx.Done():
				return
			case <-ticker.C:
				healthHandler.Check(rootCtx)
			}
		}
	}()

	// Start public server in a goroutine
	go func() {
		log.Info("Public server starting", zap.String("address", publicServer.Addr))
		if err := publicServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Public server failed to start", zap.Error(err))
		}
	}()

	// Start internal server in a goroutine
	go func() {
		log.Info("Internal server starting", zap.String("address", internalServer.Addr))
		if err := internalServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Internal server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server shutting down...")
	stopSessions()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := publicServer.Shutdown(ctx); err != nil {
		log.Error("Public server forced to shutdown", zap.Error(err))
	}
	if err := internalServer.Shutdown(ctx); err != nil {
		log.Error("Internal server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
