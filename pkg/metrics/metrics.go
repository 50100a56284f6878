package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the cocktails service
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database metrics
	DatabaseConnections   prometheus.Gauge
	DatabaseQueriesTotal  *prometheus.CounterVec
	DatabaseQueryDuration *prometheus.HistogramVec

	// Redis metrics
	RedisConnections     prometheus.Gauge
	RedisCommandsTotal   *prometheus.CounterVec
	RedisCommandDuration *prometheus.HistogramVec

	// Recipe API metrics
	GatewayRequestsTotal   *prometheus.CounterVec
	GatewayRequestDuration *prometheus.HistogramVec

	// Business metrics
	FavoriteTogglesTotal *prometheus.CounterVec
	SearchesTotal        *prometheus.CounterVec
	AuthAttemptsTotal    *prometheus.CounterVec
	ActiveSessions       prometheus.Gauge
	RateLimitedTotal     prometheus.Counter

	// Health metrics
	DependencyHealth *prometheus.GaugeVec
}

// New creates a new Metrics instance registered with the default registry
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a new Metrics instance registered with reg
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cocktails_service_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cocktails_service_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cocktails_service_http_requests_in_flight",
				Help: "Current number of HTTP requests being processed",
			},
		),

		// Database metrics
		DatabaseConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cocktails_service_database_connections",
				Help: "Current number of database connections",
			},
		),
		DatabaseQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cocktails_service_database_queries_total",
				Help: "Total number of database queries",
			},
			[]string{"operation", "status"},
		),
		DatabaseQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cocktails_service_database_query_duration_seconds",
				Help:    "Duration of database queries in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cocktails_service_redis_connections",
				Help: "Current number of Redis connections",
			},
		),
		RedisCommandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cocktails_service_redis_commands_total",
				Help: "Total number of Redis commands",
			},
			[]string{"command", "status"},
		),
		RedisCommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cocktails_service_redis_command_duration_seconds",
				Help:    "Duration of Redis commands in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),

		// Recipe API metrics
		GatewayRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cocktails_service_recipe_api_requests_total",
				Help: "Total number of requests sent to the recipe API",
			},
			[]string{"endpoint", "status"},
		),
		GatewayRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cocktails_service_recipe_api_request_duration_seconds",
				Help:    "Duration of recipe API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),

		// Business metrics
		FavoriteTogglesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cocktails_service_favorite_toggles_total",
				Help: "Total number of favorite toggles by outcome",
			},
			[]string{"result"},
		),
		SearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cocktails_service_searches_total",
				Help: "Debounced search requests by outcome (fired or collapsed)",
			},
			[]string{"outcome"},
		),
		AuthAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cocktails_service_auth_attempts_total",
				Help: "Total number of authentication attempts",
			},
			[]string{"action", "status"},
		),
		ActiveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cocktails_service_active_sessions",
				Help: "Current number of open browse sessions",
			},
		),
		RateLimitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cocktails_service_rate_limited_requests_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
		),

		// Health metrics
		DependencyHealth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cocktails_service_dependency_health",
				Help: "Health status of dependencies (1 = healthy, 0 = unhealthy)",
			},
			[]string{"dependency"},
		),
	}
}

// Initialize sets up initial metric values
func (m *Metrics) Initialize() {
	m.DependencyHealth.WithLabelValues("postgres").Set(0)
	m.DependencyHealth.WithLabelValues("redis").Set(0)
	m.DependencyHealth.WithLabelValues("recipe_api").Set(0)
}

// UpdateDependencyHealth updates the health status of a dependency
func (m *Metrics) UpdateDependencyHealth(dependency string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	m.DependencyHealth.WithLabelValues(dependency).Set(value)
}
