package orchestrator

import (
	"context"

	"go.uber.org/zap"

	"github.com/shard-legends/cocktails-service/internal/models"
	"github.com/shard-legends/cocktails-service/internal/repository"
	"github.com/shard-legends/cocktails-service/internal/state"
)

// Favorites lists the drinks a user has favorited
type Favorites struct {
	favoriteToggler
	favorites *state.Value[[]models.Drink]
}

// NewFavorites creates a new favorites orchestrator
func NewFavorites(repo repository.CocktailsRepository, logger *zap.Logger, m Metrics) *Favorites {
	return &Favorites{
		favoriteToggler: favoriteToggler{repo: repo, logger: logger, metrics: metricsOrNop(m)},
		favorites:       state.NewValue[[]models.Drink](nil),
	}
}

// Drinks is the published favorites list
func (f *Favorites) Drinks() *state.Value[[]models.Drink] {
	return f.favorites
}

// Load returns the cached favorites flagged as favorite. A nil store result
// stays nil and an empty one stays empty.
func (f *Favorites) Load(ctx context.Context, userEmail string) ([]models.Drink, error) {
	cached, err := f.repo.GetFavorites(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	if cached == nil {
		return nil, nil
	}

	drinks := make([]models.Drink, len(cached))
	for i, c := range cached {
		drinks[i] = c.ToFavoriteDrink()
	}
	return drinks, nil
}

// Find returns the favorite drink or nil when the user has not marked it
func (f *Favorites) Find(ctx context.Context, userEmail, drinkID string) (*models.Drink, error) {
	cached, err := f.repo.FindFavorite(ctx, userEmail, drinkID)
	if err != nil || cached == nil {
		return nil, err
	}
	drink := cached.ToFavoriteDrink()
	return &drink, nil
}

func (f *Favorites) FetchData(ctx context.Context, userEmail string) error {
	drinks, err := f.Load(ctx, userEmail)
	if err != nil {
		f.logger.Error("Failed to load favorites", zap.String("user_email", userEmail), zap.Error(err))
		return err
	}
	f.favorites.Set(drinks)
	return nil
}

// FavoriteCocktail toggles the drink and republishes the favorites list
func (f *Favorites) FavoriteCocktail(ctx context.Context, userEmail string, drink models.Drink) (bool, error) {
	favorite, err := f.Toggle(ctx, userEmail, drink)
	if err != nil {
		return false, err
	}
	if err := f.FetchData(ctx, userEmail); err != nil {
		f.logger.Warn("Favorites not refreshed after toggle", zap.Error(err))
	}
	return favorite, nil
}
