package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shard-legends/cocktails-service/pkg/metrics"
)

// revokedTokenPrefix namespaces revoked token ids: revoked:{jti}
const revokedTokenPrefix = "revoked:"

// RedisDB wraps redis.Client with additional functionality
type RedisDB struct {
	client  *redis.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
	service *metrics.ServiceMetrics
}

// NewRedisDB creates a new Redis client and checks the connection
func NewRedisDB(redisURL string, maxConns int, logger *zap.Logger, metricsCollector *metrics.Metrics) (*RedisDB, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.PoolSize = maxConns
	opt.MinIdleConns = 1
	opt.MaxIdleConns = max(1, maxConns/2)
	opt.ConnMaxLifetime = time.Hour
	opt.ConnMaxIdleTime = time.Minute * 30
	opt.PoolTimeout = time.Second * 30
	opt.ReadTimeout = time.Second * 10
	opt.WriteTimeout = time.Second * 10

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	rdb := NewRedisDBFromClient(client, logger, metricsCollector)

	if metricsCollector != nil {
		metricsCollector.RedisConnections.Set(float64(maxConns))
		metricsCollector.UpdateDependencyHealth("redis", true)
	}

	logger.Info("Redis connection established",
		zap.Int("max_conns", maxConns),
		zap.String("addr", opt.Addr),
		zap.Int("db", opt.DB),
	)

	return rdb, nil
}

// NewRedisDBFromClient wraps an existing client
func NewRedisDBFromClient(client *redis.Client, logger *zap.Logger, metricsCollector *metrics.Metrics) *RedisDB {
	return &RedisDB{
		client:  client,
		logger:  logger,
		metrics: metricsCollector,
		service: metrics.NewServiceMetrics(metricsCollector),
	}
}

// Client returns the underlying redis.Client
func (r *RedisDB) Client() *redis.Client {
	return r.client
}

// Health checks the Redis connection
func (r *RedisDB) Health(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		if r.metrics != nil {
			r.metrics.UpdateDependencyHealth("redis", false)
		}
		return fmt.Errorf("redis health check failed: %w", err)
	}

	if r.metrics != nil {
		r.metrics.UpdateDependencyHealth("redis", true)
		stats := r.client.PoolStats()
		r.metrics.RedisConnections.Set(float64(stats.TotalConns))
	}

	return nil
}

// RevokeJWT marks a token id as revoked until the token would have expired anyway
func (r *RedisDB) RevokeJWT(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	start := time.Now()
	err := r.client.Set(ctx, revokedTokenPrefix+jti, time.Now().Unix(), ttl).Err()
	r.service.RecordRedisCommand("set", metrics.StatusLabel(err), time.Since(start))
	if err != nil {
		return fmt.Errorf("failed to revoke token %s: %w", jti, err)
	}
	return nil
}

// IsJWTRevoked checks if a JWT token is revoked: EXISTS revoked:{jti}
func (r *RedisDB) IsJWTRevoked(ctx context.Context, jti string) (bool, error) {
	start := time.Now()
	exists, err := r.client.Exists(ctx, revokedTokenPrefix+jti).Result()
	r.service.RecordRedisCommand("exists", metrics.StatusLabel(err), time.Since(start))
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return exists > 0, nil
}

// Close closes the Redis client
func (r *RedisDB) Close() error {
	if r.client == nil {
		return nil
	}

	err := r.client.Close()
	if r.logger != nil {
		r.logger.Info("Redis connection closed")
	}
	if r.metrics != nil {
		r.metrics.RedisConnections.Set(0)
		r.metrics.UpdateDependencyHealth("redis", false)
	}
	if err != nil {
		return fmt.Errorf("failed to close redis: %w", err)
	}
	return nil
}

// Stats returns Redis connection pool statistics
func (r *RedisDB) Stats() map[string]interface{} {
	if r.client == nil {
		return map[string]interface{}{
			"status": "disconnected",
		}
	}

	stats := r.client.PoolStats()
	return map[string]interface{}{
		"status":      "connected",
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}
