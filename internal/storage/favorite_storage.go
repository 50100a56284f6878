package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	dberrors "github.com/shard-legends/cocktails-service/internal/errors"
	"github.com/shard-legends/cocktails-service/internal/models"
	"github.com/shard-legends/cocktails-service/pkg/metrics"
)

const (
	cacheDrinkQuery = `
		INSERT INTO cached_drinks (id, name, thumb)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, thumb = EXCLUDED.thumb
	`

	markFavoriteQuery = `
		INSERT INTO favorite_marks (user_email, drink_id)
		VALUES ($1, $2)
		ON CONFLICT (user_email, drink_id) DO NOTHING
	`

	unmarkFavoriteQuery = `
		DELETE FROM favorite_marks
		WHERE user_email = $1 AND drink_id = $2
	`

	findFavoriteQuery = `
		SELECT d.id, d.name, d.thumb
		FROM favorite_marks f
		JOIN cached_drinks d ON d.id = f.drink_id
		WHERE f.user_email = $1 AND f.drink_id = $2
	`

	listFavoritesQuery = `
		SELECT d.id, d.name, d.thumb
		FROM favorite_marks f
		JOIN cached_drinks d ON d.id = f.drink_id
		WHERE f.user_email = $1
		ORDER BY f.seq
	`

	getCachedDrinkQuery = `
		SELECT id, name, thumb
		FROM cached_drinks
		WHERE id = $1
	`

	// serializes toggles of the same (user, drink) pair for the duration of the transaction
	toggleLockQuery = `SELECT pg_advisory_xact_lock(hashtextextended($1::text || '/' || $2::text, 0))`
)

// FavoriteStorage implements FavoriteStore on PostgreSQL
type FavoriteStorage struct {
	db      *sqlx.DB
	logger  *zap.Logger
	metrics Metrics
}

// NewFavoriteStorage creates a new PostgreSQL favorite store
func NewFavoriteStorage(db *sqlx.DB, logger *zap.Logger, m Metrics) *FavoriteStorage {
	if m == nil {
		m = metrics.NewServiceMetrics(nil)
	}
	return &FavoriteStorage{
		db:      db,
		logger:  logger,
		metrics: m,
	}
}

func (s *FavoriteStorage) record(operation string, start time.Time, err error) {
	s.metrics.RecordDatabaseQuery(operation, metrics.StatusLabel(err), time.Since(start))
}

// CacheDrink upserts the cached snapshot
func (s *FavoriteStorage) CacheDrink(ctx context.Context, drink models.CachedDrink) (err error) {
	start := time.Now()
	defer func() { s.record("cache_drink", start, err) }()

	if _, err = s.db.ExecContext(ctx, cacheDrinkQuery, drink.ID, drink.Name, drink.Thumb); err != nil {
		return dberrors.HandleDatabaseError(err, "cache_drink")
	}
	return nil
}

// MarkFavorite inserts a mark, ignoring an existing one
func (s *FavoriteStorage) MarkFavorite(ctx context.Context, userEmail, drinkID string) (err error) {
	start := time.Now()
	defer func() { s.record("mark_favorite", start, err) }()

	if _, err = s.db.ExecContext(ctx, markFavoriteQuery, userEmail, drinkID); err != nil {
		return dberrors.HandleDatabaseError(err, "mark_favorite")
	}
	return nil
}

// UnmarkFavorite deletes a mark if present
func (s *FavoriteStorage) UnmarkFavorite(ctx context.Context, userEmail, drinkID string) (err error) {
	start := time.Now()
	defer func() { s.record("unmark_favorite", start, err) }()

	if _, err = s.db.ExecContext(ctx, unmarkFavoriteQuery, userEmail, drinkID); err != nil {
		return dberrors.HandleDatabaseError(err, "unmark_favorite")
	}
	return nil
}

// FindFavorite returns the joined cached drink for a mark
func (s *FavoriteStorage) FindFavorite(ctx context.Context, userEmail, drinkID string) (*models.CachedDrink, error) {
	start := time.Now()

	var drink models.CachedDrink
	err := s.db.GetContext(ctx, &drink, findFavoriteQuery, userEmail, drinkID)
	if errors.Is(err, sql.ErrNoRows) {
		s.record("find_favorite", start, nil)
		return nil, nil
	}
	s.record("find_favorite", start, err)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find favorite")
	}
	return &drink, nil
}

// ListFavorites returns the marked drinks in mark order
func (s *FavoriteStorage) ListFavorites(ctx context.Context, userEmail string) ([]models.CachedDrink, error) {
	start := time.Now()

	var drinks []models.CachedDrink
	err := s.db.SelectContext(ctx, &drinks, listFavoritesQuery, userEmail)
	s.record("list_favorites", start, err)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list favorites")
	}
	if len(drinks) == 0 {
		return nil, nil
	}
	return drinks, nil
}

// GetCachedDrink returns the cached snapshot of a drink
func (s *FavoriteStorage) GetCachedDrink(ctx context.Context, drinkID string) (*models.CachedDrink, error) {
	start := time.Now()

	var drink models.CachedDrink
	err := s.db.GetContext(ctx, &drink, getCachedDrinkQuery, drinkID)
	if errors.Is(err, sql.ErrNoRows) {
		s.record("get_cached_drink", start, nil)
		return nil, nil
	}
	s.record("get_cached_drink", start, err)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get cached drink")
	}
	return &drink, nil
}

// ToggleFavorite removes the mark if it exists; otherwise caches the drink and adds the mark.
// Runs in one transaction holding a per-pair advisory lock.
func (s *FavoriteStorage) ToggleFavorite(ctx context.Context, userEmail string, drink models.CachedDrink) (favorite bool, err error) {
	start := time.Now()
	defer func() { s.record("toggle_favorite", start, err) }()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.Warn("Failed to rollback toggle transaction", zap.Error(rbErr))
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, toggleLockQuery, userEmail, drink.ID); err != nil {
		return false, dberrors.HandleDatabaseError(err, "toggle_favorite")
	}

	result, err := tx.ExecContext(ctx, unmarkFavoriteQuery, userEmail, drink.ID)
	if err != nil {
		return false, dberrors.HandleDatabaseError(err, "unmark_favorite")
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to read affected rows")
	}

	if removed == 0 {
		// cache row first, the mark references it
		if _, err = tx.ExecContext(ctx, cacheDrinkQuery, drink.ID, drink.Name, drink.Thumb); err != nil {
			return false, dberrors.HandleDatabaseError(err, "cache_drink")
		}
		if _, err = tx.ExecContext(ctx, markFavoriteQuery, userEmail, drink.ID); err != nil {
			return false, dberrors.HandleDatabaseError(err, "mark_favorite")
		}
	}

	if err = tx.Commit(); err != nil {
		return false, errors.Wrap(err, "failed to commit toggle")
	}

	return removed == 0, nil
}
