package orchestrator

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shard-legends/cocktails-service/internal/models"
	"github.com/shard-legends/cocktails-service/internal/repository"
	"github.com/shard-legends/cocktails-service/internal/state"
)

// List browses drinks narrowed by a filter dimension
type List struct {
	favoriteToggler
	drinks *state.Value[[]models.Drink]
}

// NewList creates a new list orchestrator
func NewList(repo repository.CocktailsRepository, logger *zap.Logger, m Metrics) *List {
	return &List{
		favoriteToggler: favoriteToggler{repo: repo, logger: logger, metrics: metricsOrNop(m)},
		drinks:          state.NewValue[[]models.Drink](nil),
	}
}

// Drinks is the published list; nil means no data
func (l *List) Drinks() *state.Value[[]models.Drink] {
	return l.drinks
}

type drinkQuery func(ctx context.Context, value string) (*models.DrinkResponse, error)

func (l *List) queryFor(dimension models.Dimension) drinkQuery {
	switch dimension {
	case models.DimensionAlcohol:
		return l.repo.GetByAlcoholContent
	case models.DimensionCategory:
		return l.repo.GetByCategory
	case models.DimensionGlass:
		return l.repo.GetByGlass
	case models.DimensionIngredient:
		return l.repo.GetByIngredient
	case models.DimensionFirstLetter:
		return l.repo.GetByFirstLetter
	}
	return nil
}

// Load fetches the drinks for the filter and the user's favorites concurrently.
// Favorites are fetched even for an unknown dimension, which issues no remote
// call and yields nil.
func (l *List) Load(ctx context.Context, userEmail string, dimension models.Dimension, value string) ([]models.Drink, error) {
	var (
		remote    *models.DrinkResponse
		favorites []models.CachedDrink
	)

	g, gctx := errgroup.WithContext(ctx)
	if query := l.queryFor(dimension); query != nil {
		g.Go(func() error {
			resp, err := query(gctx, value)
			remote = resp
			return err
		})
	}
	g.Go(func() error {
		favs, err := l.repo.GetFavorites(gctx, userEmail)
		favorites = favs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if remote.IsEmpty() {
		return nil, nil
	}
	return mergeFavorites(remote.Drinks, favorites), nil
}

// FetchData loads and publishes. On error the published value is left untouched.
func (l *List) FetchData(ctx context.Context, userEmail string, dimension models.Dimension, value string) error {
	drinks, err := l.Load(ctx, userEmail, dimension, value)
	if err != nil {
		l.logger.Error("Failed to load drinks",
			zap.String("dimension", dimension.String()),
			zap.String("value", value),
			zap.Error(err))
		return err
	}
	l.drinks.Set(drinks)
	return nil
}

// FavoriteCocktail toggles the drink and reflects the new state in the published list
func (l *List) FavoriteCocktail(ctx context.Context, userEmail string, drink models.Drink) (bool, error) {
	favorite, err := l.Toggle(ctx, userEmail, drink)
	if err != nil {
		return false, err
	}
	reflectToggle(l.drinks, drink.ID, favorite)
	return favorite, nil
}
