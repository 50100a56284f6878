package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/shard-legends/cocktails-service/internal/gateway"
	"github.com/shard-legends/cocktails-service/internal/models"
	"github.com/shard-legends/cocktails-service/internal/storage"
)

// cocktailsRepository passes calls through to the gateway and the favorite store.
// Nothing is cached and errors are returned as the dependencies produced them.
type cocktailsRepository struct {
	gateway   gateway.RecipeGateway
	favorites storage.FavoriteStore
	logger    *zap.Logger
}

// NewCocktailsRepository creates a new cocktails repository
func NewCocktailsRepository(gw gateway.RecipeGateway, favorites storage.FavoriteStore, logger *zap.Logger) CocktailsRepository {
	return &cocktailsRepository{
		gateway:   gw,
		favorites: favorites,
		logger:    logger,
	}
}

func (r *cocktailsRepository) GetByAlcoholContent(ctx context.Context, value string) (*models.DrinkResponse, error) {
	return r.gateway.FilterByAlcoholic(ctx, value)
}

func (r *cocktailsRepository) GetByGlass(ctx context.Context, value string) (*models.DrinkResponse, error) {
	return r.gateway.FilterByGlass(ctx, value)
}

func (r *cocktailsRepository) GetByCategory(ctx context.Context, value string) (*models.DrinkResponse, error) {
	return r.gateway.FilterByCategory(ctx, value)
}

func (r *cocktailsRepository) GetByFirstLetter(ctx context.Context, letter string) (*models.DrinkResponse, error) {
	return r.gateway.SearchByFirstLetter(ctx, letter)
}

func (r *cocktailsRepository) GetByIngredient(ctx context.Context, value string) (*models.DrinkResponse, error) {
	return r.gateway.FilterByIngredient(ctx, value)
}

// Search projects the details records of search.php to list entries
func (r *cocktailsRepository) Search(ctx context.Context, query string) (*models.DrinkResponse, error) {
	details, err := r.gateway.SearchByName(ctx, query)
	if err != nil {
		return nil, err
	}
	if details == nil || details.Drinks == nil {
		return &models.DrinkResponse{}, nil
	}

	drinks := make([]models.Drink, len(details.Drinks))
	for i := range details.Drinks {
		drinks[i] = details.Drinks[i].ToDrink()
	}
	return &models.DrinkResponse{Drinks: drinks}, nil
}

func (r *cocktailsRepository) GetDetails(ctx context.Context, id string) (*models.DrinkDetailsResponse, error) {
	return r.gateway.LookupByID(ctx, id)
}

func (r *cocktailsRepository) GetAlcoholContentOptions(ctx context.Context) (*models.OptionsResponse, error) {
	return r.gateway.ListAlcoholic(ctx)
}

func (r *cocktailsRepository) GetCategoryOptions(ctx context.Context) (*models.OptionsResponse, error) {
	return r.gateway.ListCategories(ctx)
}

func (r *cocktailsRepository) GetGlassOptions(ctx context.Context) (*models.OptionsResponse, error) {
	return r.gateway.ListGlasses(ctx)
}

func (r *cocktailsRepository) GetIngredientOptions(ctx context.Context) (*models.OptionsResponse, error) {
	return r.gateway.ListIngredients(ctx)
}

func (r *cocktailsRepository) GetFavorites(ctx context.Context, userEmail string) ([]models.CachedDrink, error) {
	return r.favorites.ListFavorites(ctx, userEmail)
}

func (r *cocktailsRepository) FindFavorite(ctx context.Context, userEmail, drinkID string) (*models.CachedDrink, error) {
	return r.favorites.FindFavorite(ctx, userEmail, drinkID)
}

// InsertFavorite writes the cache row before the mark that references it
func (r *cocktailsRepository) InsertFavorite(ctx context.Context, userEmail string, drink models.CachedDrink) error {
	if err := r.favorites.CacheDrink(ctx, drink); err != nil {
		return err
	}
	return r.favorites.MarkFavorite(ctx, userEmail, drink.ID)
}

func (r *cocktailsRepository) RemoveFavorite(ctx context.Context, userEmail, drinkID string) error {
	return r.favorites.UnmarkFavorite(ctx, userEmail, drinkID)
}

func (r *cocktailsRepository) ToggleFavorite(ctx context.Context, userEmail string, drink models.CachedDrink) (bool, error) {
	favorite, err := r.favorites.ToggleFavorite(ctx, userEmail, drink)
	if err != nil {
		return false, err
	}
	r.logger.Debug("Favorite toggled",
		zap.String("user_email", userEmail),
		zap.String("drink_id", drink.ID),
		zap.Bool("is_favorite", favorite))
	return favorite, nil
}

func (r *cocktailsRepository) GetCachedDrink(ctx context.Context, drinkID string) (*models.CachedDrink, error) {
	return r.favorites.GetCachedDrink(ctx, drinkID)
}
