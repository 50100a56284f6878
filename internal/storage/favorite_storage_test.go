package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	dberrors "github.com/shard-legends/cocktails-service/internal/errors"
	"github.com/shard-legends/cocktails-service/internal/models"
	"github.com/shard-legends/cocktails-service/pkg/metrics"
)

const testEmail = "bartender@example.com"

var margarita = models.CachedDrink{
	ID:    "11007",
	Name:  "Margarita",
	Thumb: "https://www.thecocktaildb.com/images/media/drink/5noda61589575158.jpg",
}

func newMockFavoriteStorage(t *testing.T) (*FavoriteStorage, sqlmock.Sqlmock, *metrics.Metrics) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	store := NewFavoriteStorage(sqlx.NewDb(db, "sqlmock"), zap.NewNop(), metrics.NewServiceMetrics(m))
	return store, mock, m
}

func drinkRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "thumb"})
}

func TestFavoriteStorage_CacheDrink(t *testing.T) {
	store, mock, m := newMockFavoriteStorage(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cached_drinks")).
		WithArgs(margarita.ID, margarita.Name, margarita.Thumb).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.CacheDrink(context.Background(), margarita)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatabaseQueriesTotal.WithLabelValues("cache_drink", "success")))
}

func TestFavoriteStorage_MarkFavorite(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store, mock, _ := newMockFavoriteStorage(t)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO favorite_marks")).
			WithArgs(testEmail, margarita.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, store.MarkFavorite(context.Background(), testEmail, margarita.ID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing cached drink", func(t *testing.T) {
		store, mock, _ := newMockFavoriteStorage(t)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO favorite_marks")).
			WithArgs(testEmail, "404").
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "favorite_marks_drink_id_fkey"})

		err := store.MarkFavorite(context.Background(), testEmail, "404")
		assert.True(t, dberrors.IsReferenceError(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFavoriteStorage_UnmarkFavorite(t *testing.T) {
	store, mock, _ := newMockFavoriteStorage(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM favorite_marks")).
		WithArgs(testEmail, margarita.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, store.UnmarkFavorite(context.Background(), testEmail, margarita.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteStorage_FindFavorite(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		store, mock, _ := newMockFavoriteStorage(t)

		mock.ExpectQuery(regexp.QuoteMeta("JOIN cached_drinks d ON d.id = f.drink_id")).
			WithArgs(testEmail, margarita.ID).
			WillReturnRows(drinkRows().AddRow(margarita.ID, margarita.Name, margarita.Thumb))

		drink, err := store.FindFavorite(context.Background(), testEmail, margarita.ID)
		require.NoError(t, err)
		require.NotNil(t, drink)
		assert.Equal(t, margarita, *drink)
	})

	t.Run("not favorited", func(t *testing.T) {
		store, mock, _ := newMockFavoriteStorage(t)

		mock.ExpectQuery(regexp.QuoteMeta("JOIN cached_drinks d ON d.id = f.drink_id")).
			WithArgs(testEmail, margarita.ID).
			WillReturnRows(drinkRows())

		drink, err := store.FindFavorite(context.Background(), testEmail, margarita.ID)
		assert.NoError(t, err)
		assert.Nil(t, drink)
	})

	t.Run("query error", func(t *testing.T) {
		store, mock, _ := newMockFavoriteStorage(t)

		mock.ExpectQuery(regexp.QuoteMeta("JOIN cached_drinks d ON d.id = f.drink_id")).
			WillReturnError(errors.New("connection reset"))

		drink, err := store.FindFavorite(context.Background(), testEmail, margarita.ID)
		assert.Error(t, err)
		assert.Nil(t, drink)
	})
}

func TestFavoriteStorage_ListFavorites(t *testing.T) {
	t.Run("ordered by mark sequence", func(t *testing.T) {
		store, mock, _ := newMockFavoriteStorage(t)

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY f.seq")).
			WithArgs(testEmail).
			WillReturnRows(drinkRows().
				AddRow("11000", "Mojito", "mojito.jpg").
				AddRow(margarita.ID, margarita.Name, margarita.Thumb))

		drinks, err := store.ListFavorites(context.Background(), testEmail)
		require.NoError(t, err)
		require.Len(t, drinks, 2)
		assert.Equal(t, "Mojito", drinks[0].Name)
		assert.Equal(t, "Margarita", drinks[1].Name)
	})

	t.Run("no favorites", func(t *testing.T) {
		store, mock, _ := newMockFavoriteStorage(t)

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY f.seq")).
			WithArgs(testEmail).
			WillReturnRows(drinkRows())

		drinks, err := store.ListFavorites(context.Background(), testEmail)
		assert.NoError(t, err)
		assert.Nil(t, drinks)
	})
}

func TestFavoriteStorage_GetCachedDrink(t *testing.T) {
	store, mock, _ := newMockFavoriteStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM cached_drinks")).
		WithArgs(margarita.ID).
		WillReturnRows(drinkRows().AddRow(margarita.ID, margarita.Name, margarita.Thumb))
	mock.ExpectQuery(regexp.QuoteMeta("FROM cached_drinks")).
		WithArgs("404").
		WillReturnRows(drinkRows())

	drink, err := store.GetCachedDrink(context.Background(), margarita.ID)
	require.NoError(t, err)
	assert.Equal(t, margarita, *drink)

	drink, err = store.GetCachedDrink(context.Background(), "404")
	assert.NoError(t, err)
	assert.Nil(t, drink)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteStorage_ToggleFavorite(t *testing.T) {
	t.Run("adds missing mark", func(t *testing.T) {
		store, mock, _ := newMockFavoriteStorage(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("pg_advisory_xact_lock")).
			WithArgs(testEmail, margarita.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM favorite_marks")).
			WithArgs(testEmail, margarita.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cached_drinks")).
			WithArgs(margarita.ID, margarita.Name, margarita.Thumb).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO favorite_marks")).
			WithArgs(testEmail, margarita.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		favorite, err := store.ToggleFavorite(context.Background(), testEmail, margarita)
		require.NoError(t, err)
		assert.True(t, favorite)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("removes existing mark", func(t *testing.T) {
		store, mock, _ := newMockFavoriteStorage(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("pg_advisory_xact_lock")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM favorite_marks")).
			WithArgs(testEmail, margarita.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		favorite, err := store.ToggleFavorite(context.Background(), testEmail, margarita)
		require.NoError(t, err)
		assert.False(t, favorite)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		store, mock, _ := newMockFavoriteStorage(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("pg_advisory_xact_lock")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM favorite_marks")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cached_drinks")).
			WillReturnError(&pgconn.PgError{Code: "40001"})
		mock.ExpectRollback()

		favorite, err := store.ToggleFavorite(context.Background(), testEmail, margarita)
		assert.True(t, dberrors.IsConcurrentOperationError(err))
		assert.False(t, favorite)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		store, mock, _ := newMockFavoriteStorage(t)

		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		_, err := store.ToggleFavorite(context.Background(), testEmail, margarita)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to begin transaction")
	})
}
