package repository

import (
	"context"

	"github.com/shard-legends/cocktails-service/internal/models"
)

// CocktailsRepository combines the remote recipe catalog with the local favorite store
type CocktailsRepository interface {
	// GetByAlcoholContent lists drinks for an alcohol class ("Alcoholic", "Non alcoholic", ...)
	GetByAlcoholContent(ctx context.Context, value string) (*models.DrinkResponse, error)

	// GetByGlass lists drinks served in a glass type
	GetByGlass(ctx context.Context, value string) (*models.DrinkResponse, error)

	// GetByCategory lists drinks of a category
	GetByCategory(ctx context.Context, value string) (*models.DrinkResponse, error)

	// GetByFirstLetter lists drinks whose name starts with the letter
	GetByFirstLetter(ctx context.Context, letter string) (*models.DrinkResponse, error)

	// GetByIngredient lists drinks containing the ingredient
	GetByIngredient(ctx context.Context, value string) (*models.DrinkResponse, error)

	// Search lists drinks whose name matches the query
	Search(ctx context.Context, query string) (*models.DrinkResponse, error)

	// GetDetails returns the full recipe records for an id
	GetDetails(ctx context.Context, id string) (*models.DrinkDetailsResponse, error)

	GetAlcoholContentOptions(ctx context.Context) (*models.OptionsResponse, error)
	GetCategoryOptions(ctx context.Context) (*models.OptionsResponse, error)
	GetGlassOptions(ctx context.Context) (*models.OptionsResponse, error)
	GetIngredientOptions(ctx context.Context) (*models.OptionsResponse, error)

	// GetFavorites returns the user's favorites, nil when there are none
	GetFavorites(ctx context.Context, userEmail string) ([]models.CachedDrink, error)

	// FindFavorite returns the favorite or nil
	FindFavorite(ctx context.Context, userEmail, drinkID string) (*models.CachedDrink, error)

	// InsertFavorite caches the drink and then marks it
	InsertFavorite(ctx context.Context, userEmail string, drink models.CachedDrink) error

	// RemoveFavorite deletes only the mark
	RemoveFavorite(ctx context.Context, userEmail, drinkID string) error

	// ToggleFavorite flips the favorite state and returns the new one
	ToggleFavorite(ctx context.Context, userEmail string, drink models.CachedDrink) (bool, error)

	// GetCachedDrink returns the cached snapshot regardless of marks
	GetCachedDrink(ctx context.Context, drinkID string) (*models.CachedDrink, error)
}
