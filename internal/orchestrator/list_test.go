package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shard-legends/cocktails-service/internal/models"
)

func TestList_LoadDispatchesOneQuery(t *testing.T) {
	tests := []struct {
		dimension models.Dimension
		method    string
		value     string
	}{
		{models.DimensionAlcohol, "GetByAlcoholContent", "Non alcoholic"},
		{models.DimensionCategory, "GetByCategory", "Cocktail"},
		{models.DimensionGlass, "GetByGlass", "Cocktail glass"},
		{models.DimensionIngredient, "GetByIngredient", "Gin"},
		{models.DimensionFirstLetter, "GetByFirstLetter", "m"},
	}

	for _, tt := range tests {
		t.Run(tt.dimension.String(), func(t *testing.T) {
			f := newFixture(t)
			f.repo.On(tt.method, mock.Anything, tt.value).
				Return(&models.DrinkResponse{Drinks: []models.Drink{margarita, mojito}}, nil).Once()
			f.repo.On("GetFavorites", mock.Anything, userEmail).Return(cached(mojito), nil).Once()

			list := NewList(f.repo, f.logger, f.service)
			drinks, err := list.Load(context.Background(), userEmail, tt.dimension, tt.value)

			require.NoError(t, err)
			assert.Equal(t, []models.Drink{margarita, favorite(mojito)}, drinks)
		})
	}
}

func TestList_LoadUnknownDimension(t *testing.T) {
	f := newFixture(t)
	f.repo.On("GetFavorites", mock.Anything, userEmail).Return(cached(margarita), nil).Once()

	list := NewList(f.repo, f.logger, f.service)
	drinks, err := list.Load(context.Background(), userEmail, models.DimensionUnknown, "anything")

	require.NoError(t, err)
	assert.Nil(t, drinks)
	f.repo.AssertNumberOfCalls(t, "GetFavorites", 1)
	for _, method := range []string{"GetByAlcoholContent", "GetByCategory", "GetByGlass", "GetByIngredient", "GetByFirstLetter"} {
		f.repo.AssertNotCalled(t, method, mock.Anything, mock.Anything)
	}
}

func TestList_LoadNoData(t *testing.T) {
	responses := map[string]*models.DrinkResponse{
		"nil response":   nil,
		"nil collection": {},
		"empty":          {Drinks: []models.Drink{}},
	}

	for name, resp := range responses {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.On("GetByGlass", mock.Anything, "Coupe").Return(resp, nil).Once()
			f.repo.On("GetFavorites", mock.Anything, userEmail).Return(cached(margarita), nil).Once()

			drinks, err := NewList(f.repo, f.logger, f.service).
				Load(context.Background(), userEmail, models.DimensionGlass, "Coupe")
			require.NoError(t, err)
			assert.Nil(t, drinks)
		})
	}
}

func TestList_FavoritesScopedByUser(t *testing.T) {
	f := newFixture(t)
	f.repo.On("GetByCategory", mock.Anything, "Shot").
		Return(&models.DrinkResponse{Drinks: []models.Drink{margarita}}, nil)
	f.repo.On("GetFavorites", mock.Anything, userEmail).Return(cached(margarita), nil)
	f.repo.On("GetFavorites", mock.Anything, otherEmail).Return(nil, nil)

	list := NewList(f.repo, f.logger, f.service)

	drinks, err := list.Load(context.Background(), userEmail, models.DimensionCategory, "Shot")
	require.NoError(t, err)
	assert.True(t, drinks[0].IsFavorite)

	drinks, err = list.Load(context.Background(), otherEmail, models.DimensionCategory, "Shot")
	require.NoError(t, err)
	assert.False(t, drinks[0].IsFavorite)
}

func TestList_FetchData(t *testing.T) {
	t.Run("publishes", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetByIngredient", mock.Anything, "Gin").
			Return(&models.DrinkResponse{Drinks: []models.Drink{negroni}}, nil).Once()
		f.repo.On("GetFavorites", mock.Anything, userEmail).Return(nil, nil).Once()

		list := NewList(f.repo, f.logger, f.service)
		var published [][]models.Drink
		list.Drinks().Subscribe(func(d []models.Drink) { published = append(published, d) })

		require.NoError(t, list.FetchData(context.Background(), userEmail, models.DimensionIngredient, "Gin"))
		assert.Equal(t, [][]models.Drink{{negroni}}, published)
	})

	t.Run("remote error leaves state untouched", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetByIngredient", mock.Anything, "Gin").Return(nil, errors.New("timeout")).Once()
		f.repo.On("GetFavorites", mock.Anything, userEmail).Return(nil, nil).Maybe()

		list := NewList(f.repo, f.logger, f.service)
		err := list.FetchData(context.Background(), userEmail, models.DimensionIngredient, "Gin")

		assert.Error(t, err)
		assert.Equal(t, uint64(0), list.Drinks().Version())
	})

	t.Run("favorites error leaves state untouched", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetByIngredient", mock.Anything, "Gin").
			Return(&models.DrinkResponse{Drinks: []models.Drink{negroni}}, nil).Maybe()
		f.repo.On("GetFavorites", mock.Anything, userEmail).Return(nil, errors.New("db down")).Once()

		list := NewList(f.repo, f.logger, f.service)
		err := list.FetchData(context.Background(), userEmail, models.DimensionIngredient, "Gin")

		assert.EqualError(t, err, "db down")
		assert.Equal(t, uint64(0), list.Drinks().Version())
	})
}

func TestList_FavoriteCocktail(t *testing.T) {
	t.Run("toggles and reflects state", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetByFirstLetter", mock.Anything, "m").
			Return(&models.DrinkResponse{Drinks: []models.Drink{margarita, mojito}}, nil).Once()
		f.repo.On("GetFavorites", mock.Anything, userEmail).Return(nil, nil).Once()
		f.repo.On("ToggleFavorite", mock.Anything, userEmail, models.NewCachedDrink(mojito)).Return(true, nil).Once()

		list := NewList(f.repo, f.logger, f.service)
		require.NoError(t, list.FetchData(context.Background(), userEmail, models.DimensionFirstLetter, "m"))

		isFavorite, err := list.FavoriteCocktail(context.Background(), userEmail, mojito)
		require.NoError(t, err)
		assert.True(t, isFavorite)
		assert.Equal(t, []models.Drink{margarita, favorite(mojito)}, list.Drinks().Get())
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.FavoriteTogglesTotal.WithLabelValues("added")))
	})

	t.Run("remove", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("ToggleFavorite", mock.Anything, userEmail, models.NewCachedDrink(margarita)).Return(false, nil).Once()

		isFavorite, err := NewList(f.repo, f.logger, f.service).FavoriteCocktail(context.Background(), userEmail, favorite(margarita))
		require.NoError(t, err)
		assert.False(t, isFavorite)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.FavoriteTogglesTotal.WithLabelValues("removed")))
	})

	t.Run("error", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("ToggleFavorite", mock.Anything, userEmail, mock.Anything).Return(false, errors.New("db down")).Once()

		_, err := NewList(f.repo, f.logger, nil).FavoriteCocktail(context.Background(), userEmail, margarita)
		assert.Error(t, err)
	})
}
