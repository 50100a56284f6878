package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shard-legends/cocktails-service/internal/middleware"
	"github.com/shard-legends/cocktails-service/internal/orchestrator"
	"github.com/shard-legends/cocktails-service/internal/session"
	"github.com/shard-legends/cocktails-service/pkg/metrics"
)

// sessionRoute is the full route template of the websocket upgrade
const sessionRoute = "/api/session"

// RouterConfig contains configuration for setting up routes
type RouterConfig struct {
	AuthService AuthService

	List      *orchestrator.List
	Search    *orchestrator.Search
	Details   *orchestrator.Details
	Options   *orchestrator.FilterOptions
	Favorites *orchestrator.Favorites
	Sessions  *session.Factory

	TokenParser    middleware.TokenParser
	Revocations    middleware.RevocationChecker
	RateLimiter    *middleware.RateLimiter
	Metrics        *metrics.Metrics
	AllowedOrigins []string
	Logger         *zap.Logger
}

// SetupPublicRoutes configures all public routes of the cocktails service
func SetupPublicRoutes(router *gin.Engine, config *RouterConfig) {
	// Initialize handlers
	authHandler := NewAuthHandler(config.AuthService, config.Logger)
	cocktailsHandler := NewCocktailsHandler(
		config.List,
		config.Search,
		config.Details,
		config.Options,
		config.Favorites,
		config.Logger,
	)
	sessionHandler := NewSessionHandler(config.Sessions, config.AllowedOrigins, config.Logger)

	// Initialize middleware
	jwtMiddleware := middleware.NewJWTAuthMiddleware(config.TokenParser, config.Revocations, config.Logger)
	loggingMiddleware := middleware.NewLoggingMiddleware(config.Logger)

	// Apply global middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware.LogRequests())
	if config.Metrics != nil {
		router.Use(middleware.NewHTTPMetrics(config.Metrics, sessionRoute).Collect())
	}
	if config.RateLimiter != nil {
		router.Use(config.RateLimiter.Limit())
	}

	api := router.Group("/api")

	// Account endpoints
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}
	me := authGroup.Group("")
	me.Use(jwtMiddleware.AuthenticateJWT())
	{
		me.POST("/logout", authHandler.Logout)
		me.GET("/me", authHandler.Me)
		me.PUT("/me/name", authHandler.EditName)
		me.PUT("/me/password", authHandler.EditPassword)
	}

	// Browse endpoints (require authentication)
	browse := api.Group("")
	browse.Use(jwtMiddleware.AuthenticateJWT())
	{
		browse.GET("/cocktails", cocktailsHandler.GetCocktails)
		browse.GET("/cocktails/search", cocktailsHandler.SearchCocktails)
		browse.GET("/cocktails/:id", cocktailsHandler.GetCocktail)

		browse.GET("/filters/:dimension", cocktailsHandler.GetFilterOptions)

		browse.GET("/favorites", cocktailsHandler.GetFavorites)
		browse.GET("/favorites/:id", cocktailsHandler.GetFavorite)
		browse.POST("/favorites/toggle", cocktailsHandler.ToggleFavorite)

		browse.GET("/session", sessionHandler.Serve)
	}
}

// SetupInternalRoutes configures the health and metrics endpoints
func SetupInternalRoutes(router *gin.Engine, health *HealthHandler, logger *zap.Logger) {
	router.Use(gin.Recovery())
	router.Use(middleware.NewLoggingMiddleware(logger).LogRequests())

	router.GET("/health", health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
