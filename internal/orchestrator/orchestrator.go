// Package orchestrator holds the browse logic behind the REST and session APIs.
// Each orchestrator loads data through the cocktails repository, merges the
// caller's favorites into it and publishes the result to an observable value.
package orchestrator

import (
	"context"

	"go.uber.org/zap"

	"github.com/shard-legends/cocktails-service/internal/models"
	"github.com/shard-legends/cocktails-service/internal/repository"
	"github.com/shard-legends/cocktails-service/internal/state"
	"github.com/shard-legends/cocktails-service/pkg/metrics"
)

const (
	toggleAdded   = "added"
	toggleRemoved = "removed"
	toggleError   = "error"
)

// Metrics is the subset of metrics.ServiceMetrics used by orchestrators
type Metrics interface {
	RecordFavoriteToggle(result string)
	RecordSearch(outcome string)
}

func metricsOrNop(m Metrics) Metrics {
	if m == nil {
		return metrics.NewServiceMetrics(nil)
	}
	return m
}

// favoriteToggler is embedded by every orchestrator that can favorite a drink
type favoriteToggler struct {
	repo    repository.CocktailsRepository
	logger  *zap.Logger
	metrics Metrics
}

// Toggle flips the favorite state of drink for the user and returns the new state.
// Nothing is republished; FavoriteCocktail does that.
func (f *favoriteToggler) Toggle(ctx context.Context, userEmail string, drink models.Drink) (bool, error) {
	favorite, err := f.repo.ToggleFavorite(ctx, userEmail, models.NewCachedDrink(drink))
	if err != nil {
		f.metrics.RecordFavoriteToggle(toggleError)
		f.logger.Error("Failed to toggle favorite",
			zap.String("user_email", userEmail),
			zap.String("drink_id", drink.ID),
			zap.Error(err))
		return false, err
	}

	if favorite {
		f.metrics.RecordFavoriteToggle(toggleAdded)
	} else {
		f.metrics.RecordFavoriteToggle(toggleRemoved)
	}
	return favorite, nil
}

// mergeFavorites copies drinks with IsFavorite set by id membership in favorites.
// No drinks yields nil.
func mergeFavorites(drinks []models.Drink, favorites []models.CachedDrink) []models.Drink {
	if len(drinks) == 0 {
		return nil
	}

	ids := make(map[string]struct{}, len(favorites))
	for _, f := range favorites {
		ids[f.ID] = struct{}{}
	}

	merged := make([]models.Drink, len(drinks))
	for i, d := range drinks {
		_, d.IsFavorite = ids[d.ID]
		merged[i] = d
	}
	return merged
}

// reflectToggle republishes value with the flag of drinkID replaced, if the drink is present
func reflectToggle(value *state.Value[[]models.Drink], drinkID string, favorite bool) {
	current := value.Get()
	for i := range current {
		if current[i].ID != drinkID {
			continue
		}
		updated := make([]models.Drink, len(current))
		copy(updated, current)
		updated[i].IsFavorite = favorite
		value.Set(updated)
		return
	}
}
