package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/shard-legends/cocktails-service/pkg/metrics"
)

func TestHTTPMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())

	router := gin.New()
	router.Use(NewHTTPMetrics(m).Collect())
	router.GET("/api/cocktails/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, path := range []string{"/api/cocktails/1", "/api/cocktails/2", "/nowhere"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/cocktails/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequestsInFlight))
}

func TestHTTPMetrics_StreamingRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())

	router := gin.New()
	router.Use(NewHTTPMetrics(m, "/api/session").Collect())
	router.GET("/api/session", func(c *gin.Context) { c.Status(http.StatusSwitchingProtocols) })
	router.GET("/api/cocktails", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/session", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/cocktails", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/session", "101")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration), "only the plain route is timed")
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequestsInFlight))
}

func TestHTTPMetrics_NilCollector(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(NewHTTPMetrics(nil).Collect())
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	router := gin.New()
	router.Use(NewLoggingMiddleware(zap.New(core)).LogRequests())
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok?x=1", "/fail", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.AllUntimed()
	if assert.Len(t, entries, 3) {
		assert.Equal(t, "HTTP request processed", entries[0].Message)
		assert.Equal(t, "/ok?x=1", entries[0].ContextMap()["path"])
		assert.Equal(t, "HTTP request failed", entries[1].Message)
		assert.Equal(t, "HTTP request rejected", entries[2].Message)
	}
}
