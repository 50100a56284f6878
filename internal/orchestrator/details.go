package orchestrator

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shard-legends/cocktails-service/internal/models"
	"github.com/shard-legends/cocktails-service/internal/repository"
	"github.com/shard-legends/cocktails-service/internal/state"
)

// Details shows one recipe
type Details struct {
	favoriteToggler
	details *state.Value[*models.DrinkDetails]
}

// NewDetails creates a new details orchestrator
func NewDetails(repo repository.CocktailsRepository, logger *zap.Logger, m Metrics) *Details {
	return &Details{
		favoriteToggler: favoriteToggler{repo: repo, logger: logger, metrics: metricsOrNop(m)},
		details:         state.NewValue[*models.DrinkDetails](nil),
	}
}

// Drink is the published recipe; nil means not found
func (d *Details) Drink() *state.Value[*models.DrinkDetails] {
	return d.details
}

// Load returns the first record for id, or nil, with IsFavorite set for the user
func (d *Details) Load(ctx context.Context, userEmail, id string) (*models.DrinkDetails, error) {
	var (
		resp     *models.DrinkDetailsResponse
		favorite *models.CachedDrink
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := d.repo.GetDetails(gctx, id)
		resp = r
		return err
	})
	g.Go(func() error {
		f, err := d.repo.FindFavorite(gctx, userEmail, id)
		favorite = f
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if resp == nil || len(resp.Drinks) == 0 {
		return nil, nil
	}
	details := resp.Drinks[0]
	details.IsFavorite = favorite != nil
	return &details, nil
}

func (d *Details) FetchData(ctx context.Context, userEmail, id string) error {
	details, err := d.Load(ctx, userEmail, id)
	if err != nil {
		d.logger.Error("Failed to load drink details", zap.String("drink_id", id), zap.Error(err))
		return err
	}
	d.details.Set(details)
	return nil
}

// FavoriteCocktail toggles the drink and updates the published recipe if it is the same drink
func (d *Details) FavoriteCocktail(ctx context.Context, userEmail string, drink models.Drink) (bool, error) {
	favorite, err := d.Toggle(ctx, userEmail, drink)
	if err != nil {
		return false, err
	}
	if current := d.details.Get(); current != nil && current.ID == drink.ID {
		updated := *current
		updated.IsFavorite = favorite
		d.details.Set(&updated)
	}
	return favorite, nil
}
