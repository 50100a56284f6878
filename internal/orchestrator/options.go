package orchestrator

import (
	"context"

	"go.uber.org/zap"

	"github.com/shard-legends/cocktails-service/internal/models"
	"github.com/shard-legends/cocktails-service/internal/repository"
	"github.com/shard-legends/cocktails-service/internal/state"
)

// FilterOptions lists the selectable values of a filter dimension
type FilterOptions struct {
	repo    repository.CocktailsRepository
	logger  *zap.Logger
	options *state.Value[[]string]
}

// NewFilterOptions creates a new filter options orchestrator
func NewFilterOptions(repo repository.CocktailsRepository, logger *zap.Logger) *FilterOptions {
	return &FilterOptions{
		repo:    repo,
		logger:  logger,
		options: state.NewValue[[]string](nil),
	}
}

// Options is the published option list
func (o *FilterOptions) Options() *state.Value[[]string] {
	return o.options
}

// Load returns the option values for dimension in remote order. The first
// letter dimension is answered locally. ok is false for an unknown dimension,
// in which case nothing is called.
func (o *FilterOptions) Load(ctx context.Context, dimension models.Dimension) (options []string, ok bool, err error) {
	var fetch func(context.Context) (*models.OptionsResponse, error)

	switch dimension {
	case models.DimensionAlcohol:
		fetch = o.repo.GetAlcoholContentOptions
	case models.DimensionCategory:
		fetch = o.repo.GetCategoryOptions
	case models.DimensionGlass:
		fetch = o.repo.GetGlassOptions
	case models.DimensionIngredient:
		fetch = o.repo.GetIngredientOptions
	case models.DimensionFirstLetter:
		return models.FirstLetters(), true, nil
	default:
		return nil, false, nil
	}

	resp, err := fetch(ctx)
	if err != nil {
		return nil, true, err
	}

	options = []string{}
	if resp == nil {
		return options, true, nil
	}
	for _, record := range resp.Drinks {
		options = append(options, record.Value(dimension))
	}
	return options, true, nil
}

// FetchData loads and publishes. An unknown dimension or an error leaves the published value untouched.
func (o *FilterOptions) FetchData(ctx context.Context, dimension models.Dimension) error {
	options, ok, err := o.Load(ctx, dimension)
	if err != nil {
		o.logger.Error("Failed to load filter options",
			zap.String("dimension", dimension.String()),
			zap.Error(err))
		return err
	}
	if !ok {
		o.logger.Debug("Ignoring options request for unknown dimension")
		return nil
	}
	o.options.Set(options)
	return nil
}
