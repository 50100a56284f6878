package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shard-legends/cocktails-service/pkg/metrics"
)

// unmatchedRoute labels requests that hit no route, keeping path cardinality bounded
const unmatchedRoute = "unmatched"

// HTTPMetrics records request counts, latencies and in-flight requests per route template
type HTTPMetrics struct {
	collector *metrics.Metrics
	streaming map[string]struct{}
}

// NewHTTPMetrics creates the middleware. Requests on streamingRoutes are counted
// but kept out of the latency histogram and the in-flight gauge: a websocket
// upgrade lasts as long as its session, which has its own gauge.
func NewHTTPMetrics(collector *metrics.Metrics, streamingRoutes ...string) *HTTPMetrics {
	streaming := make(map[string]struct{}, len(streamingRoutes))
	for _, route := range streamingRoutes {
		streaming[route] = struct{}{}
	}
	return &HTTPMetrics{collector: collector, streaming: streaming}
}

func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRoute
}

// Collect returns the gin handler
func (m *HTTPMetrics) Collect() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.collector == nil {
			c.Next()
			return
		}

		route := routeLabel(c)
		if _, ok := m.streaming[route]; ok {
			c.Next()
			m.count(c, route)
			return
		}

		start := time.Now()
		m.collector.HTTPRequestsInFlight.Inc()
		defer m.collector.HTTPRequestsInFlight.Dec()

		c.Next()

		m.count(c, route)
		m.collector.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *HTTPMetrics) count(c *gin.Context, route string) {
	status := strconv.Itoa(c.Writer.Status())
	m.collector.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
}
