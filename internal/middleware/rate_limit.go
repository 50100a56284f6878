package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimitRecorder counts rejected requests
type RateLimitRecorder interface {
	RecordRateLimited()
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per client IP with a token bucket each
type RateLimiter struct {
	logger   *zap.Logger
	recorder RateLimitRecorder
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration

	mu      sync.Mutex
	clients map[string]*client

	cleanupTicker *time.Ticker
	done          chan struct{}
	closeOnce     sync.Once
}

// NewRateLimiter allows requestsPerMinute per IP with bursts up to burst.
// A non-positive burst defaults to requestsPerMinute.
func NewRateLimiter(requestsPerMinute, burst int, logger *zap.Logger, recorder RateLimitRecorder) *RateLimiter {
	if burst <= 0 {
		burst = requestsPerMinute
	}
	rl := &RateLimiter{
		logger:        logger,
		recorder:      recorder,
		limit:         rate.Limit(float64(requestsPerMinute) / 60),
		burst:         burst,
		idleTTL:       10 * time.Minute,
		clients:       make(map[string]*client),
		cleanupTicker: time.NewTicker(5 * time.Minute),
		done:          make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Limit returns a middleware function that implements rate limiting
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		if !rl.allow(clientIP) {
			rl.logger.Warn("Rate limit exceeded",
				zap.String("ip", clientIP),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			if rl.recorder != nil {
				rl.recorder.RecordRateLimited()
			}

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": "Too many requests. Please try again later.",
			})
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	entry, ok := rl.clients[ip]
	if !ok {
		entry = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = entry
	}
	entry.lastSeen = time.Now()
	rl.mu.Unlock()

	return entry.limiter.Allow()
}

// cleanup removes clients idle for longer than idleTTL
func (rl *RateLimiter) cleanup() {
	for {
		select {
		case <-rl.done:
			return
		case <-rl.cleanupTicker.C:
			rl.evictIdle(time.Now())
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := now.Add(-rl.idleTTL)
	for ip, entry := range rl.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
	rl.logger.Debug("Rate limiter cleanup completed", zap.Int("active_clients", len(rl.clients)))
}

// Close stops the cleanup goroutine
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() {
		rl.cleanupTicker.Stop()
		close(rl.done)
	})
}
