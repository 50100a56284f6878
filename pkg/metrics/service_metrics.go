package metrics

import (
	"time"
)

// ServiceMetrics is a nil-safe adapter over Metrics for the inner layers
// (storage, gateway, orchestrators, services).
type ServiceMetrics struct {
	metrics *Metrics
}

// NewServiceMetrics creates a new ServiceMetrics instance. A nil Metrics makes every call a no-op.
func NewServiceMetrics(m *Metrics) *ServiceMetrics {
	return &ServiceMetrics{
		metrics: m,
	}
}

// RecordDatabaseQuery records a database query
func (sm *ServiceMetrics) RecordDatabaseQuery(operation, status string, duration time.Duration) {
	if sm == nil || sm.metrics == nil {
		return
	}
	sm.metrics.DatabaseQueriesTotal.WithLabelValues(operation, status).Inc()
	sm.metrics.DatabaseQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordRedisCommand records a Redis command
func (sm *ServiceMetrics) RecordRedisCommand(command, status string, duration time.Duration) {
	if sm == nil || sm.metrics == nil {
		return
	}
	sm.metrics.RedisCommandsTotal.WithLabelValues(command, status).Inc()
	sm.metrics.RedisCommandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordGatewayRequest records a request to the recipe API
func (sm *ServiceMetrics) RecordGatewayRequest(endpoint, status string, duration time.Duration) {
	if sm == nil || sm.metrics == nil {
		return
	}
	sm.metrics.GatewayRequestsTotal.WithLabelValues(endpoint, status).Inc()
	sm.metrics.GatewayRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordFavoriteToggle records the outcome of a favorite toggle ("added", "removed" or "error")
func (sm *ServiceMetrics) RecordFavoriteToggle(result string) {
	if sm == nil || sm.metrics == nil {
		return
	}
	sm.metrics.FavoriteTogglesTotal.WithLabelValues(result).Inc()
}

// RecordSearch records a debounced search outcome ("fired" or "collapsed")
func (sm *ServiceMetrics) RecordSearch(outcome string) {
	if sm == nil || sm.metrics == nil {
		return
	}
	sm.metrics.SearchesTotal.WithLabelValues(outcome).Inc()
}

// RecordAuthAttempt records a register/login attempt
func (sm *ServiceMetrics) RecordAuthAttempt(action, status string) {
	if sm == nil || sm.metrics == nil {
		return
	}
	sm.metrics.AuthAttemptsTotal.WithLabelValues(action, status).Inc()
}

// SessionOpened increments the active session gauge
func (sm *ServiceMetrics) SessionOpened() {
	if sm == nil || sm.metrics == nil {
		return
	}
	sm.metrics.ActiveSessions.Inc()
}

// SessionClosed decrements the active session gauge
func (sm *ServiceMetrics) SessionClosed() {
	if sm == nil || sm.metrics == nil {
		return
	}
	sm.metrics.ActiveSessions.Dec()
}

// RecordRateLimited records a request rejected by the rate limiter
func (sm *ServiceMetrics) RecordRateLimited() {
	if sm == nil || sm.metrics == nil {
		return
	}
	sm.metrics.RateLimitedTotal.Inc()
}

// StatusLabel maps an error to the "success"/"error" label used by the counters
func StatusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
