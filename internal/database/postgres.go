package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/shard-legends/cocktails-service/pkg/metrics"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// PostgresDB wraps sqlx.DB with health checks, metrics and schema setup
type PostgresDB struct {
	db       *sqlx.DB
	logger   *zap.Logger
	metrics  *metrics.Metrics
	maxConns int
}

// NewPostgresDB opens a connection pool through the pgx stdlib driver
func NewPostgresDB(databaseURL string, maxConns int, logger *zap.Logger, metricsCollector *metrics.Metrics) (*PostgresDB, error) {
	db, err := sqlx.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(max(1, maxConns/2))
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pg := NewPostgresDBFromDB(db, maxConns, logger, metricsCollector)

	if metricsCollector != nil {
		metricsCollector.UpdateDependencyHealth("postgres", true)
	}

	logger.Info("PostgreSQL connection established", zap.Int("max_conns", maxConns))

	return pg, nil
}

// NewPostgresDBFromDB wraps an existing handle (used with sqlmock in tests)
func NewPostgresDBFromDB(db *sqlx.DB, maxConns int, logger *zap.Logger, metricsCollector *metrics.Metrics) *PostgresDB {
	return &PostgresDB{
		db:       db,
		logger:   logger,
		metrics:  metricsCollector,
		maxConns: maxConns,
	}
}

// DB returns the underlying sqlx.DB
func (p *PostgresDB) DB() *sqlx.DB {
	return p.db
}

// Migrate applies the embedded schema files in name order. Every statement is idempotent.
func (p *PostgresDB) Migrate(ctx context.Context) error {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := migrationFiles.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := p.db.ExecContext(ctx, string(script)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
		p.logger.Info("Migration applied", zap.String("file", name))
	}

	return nil
}

// Health checks the health of the database connection
func (p *PostgresDB) Health(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		if p.metrics != nil {
			p.metrics.UpdateDependencyHealth("postgres", false)
		}
		return err
	}

	if p.metrics != nil {
		p.metrics.UpdateDependencyHealth("postgres", true)
		p.metrics.DatabaseConnections.Set(float64(p.db.Stats().OpenConnections))
	}

	return nil
}

// Close closes the database connection pool
func (p *PostgresDB) Close() error {
	if p.db == nil {
		return nil
	}

	err := p.db.Close()
	p.logger.Info("PostgreSQL connection pool closed")

	if p.metrics != nil {
		p.metrics.DatabaseConnections.Set(0)
		p.metrics.UpdateDependencyHealth("postgres", false)
	}
	return err
}

// Stats returns connection pool statistics
func (p *PostgresDB) Stats() map[string]interface{} {
	if p.db == nil {
		return map[string]interface{}{
			"status": "disconnected",
		}
	}

	stats := p.db.Stats()
	return map[string]interface{}{
		"status":          "connected",
		"open_conns":      stats.OpenConnections,
		"in_use":          stats.InUse,
		"idle":            stats.Idle,
		"max_conns":       p.maxConns,
		"wait_count":      stats.WaitCount,
		"max_idle_closed": stats.MaxIdleClosed,
		"max_life_closed": stats.MaxLifetimeClosed,
	}
}
