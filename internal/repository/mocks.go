package repository

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shard-legends/cocktails-service/internal/models"
)

// MockRecipeGateway is a mock implementation of gateway.RecipeGateway.
// Unset funcs return an empty response.
type MockRecipeGateway struct {
	FilterByAlcoholicFunc   func(ctx context.Context, value string) (*models.DrinkResponse, error)
	FilterByCategoryFunc    func(ctx context.Context, value string) (*models.DrinkResponse, error)
	FilterByGlassFunc       func(ctx context.Context, value string) (*models.DrinkResponse, error)
	FilterByIngredientFunc  func(ctx context.Context, value string) (*models.DrinkResponse, error)
	SearchByFirstLetterFunc func(ctx context.Context, letter string) (*models.DrinkResponse, error)
	SearchByNameFunc        func(ctx context.Context, query string) (*models.DrinkDetailsResponse, error)
	LookupByIDFunc          func(ctx context.Context, id string) (*models.DrinkDetailsResponse, error)
	ListOptionsFunc         func(ctx context.Context, param string) (*models.OptionsResponse, error)
}

func (m *MockRecipeGateway) FilterByAlcoholic(ctx context.Context, value string) (*models.DrinkResponse, error) {
	if m.FilterByAlcoholicFunc != nil {
		return m.FilterByAlcoholicFunc(ctx, value)
	}
	return &models.DrinkResponse{}, nil
}

func (m *MockRecipeGateway) FilterByCategory(ctx context.Context, value string) (*models.DrinkResponse, error) {
	if m.FilterByCategoryFunc != nil {
		return m.FilterByCategoryFunc(ctx, value)
	}
	return &models.DrinkResponse{}, nil
}

func (m *MockRecipeGateway) FilterByGlass(ctx context.Context, value string) (*models.DrinkResponse, error) {
	if m.FilterByGlassFunc != nil {
		return m.FilterByGlassFunc(ctx, value)
	}
	return &models.DrinkResponse{}, nil
}

func (m *MockRecipeGateway) FilterByIngredient(ctx context.Context, value string) (*models.DrinkResponse, error) {
	if m.FilterByIngredientFunc != nil {
		return m.FilterByIngredientFunc(ctx, value)
	}
	return &models.DrinkResponse{}, nil
}

func (m *MockRecipeGateway) SearchByFirstLetter(ctx context.Context, letter string) (*models.DrinkResponse, error) {
	if m.SearchByFirstLetterFunc != nil {
		return m.SearchByFirstLetterFunc(ctx, letter)
	}
	return &models.DrinkResponse{}, nil
}

func (m *MockRecipeGateway) SearchByName(ctx context.Context, query string) (*models.DrinkDetailsResponse, error) {
	if m.SearchByNameFunc != nil {
		return m.SearchByNameFunc(ctx, query)
	}
	return &models.DrinkDetailsResponse{}, nil
}

func (m *MockRecipeGateway) LookupByID(ctx context.Context, id string) (*models.DrinkDetailsResponse, error) {
	if m.LookupByIDFunc != nil {
		return m.LookupByIDFunc(ctx, id)
	}
	return &models.DrinkDetailsResponse{}, nil
}

func (m *MockRecipeGateway) listOptions(ctx context.Context, param string) (*models.OptionsResponse, error) {
	if m.ListOptionsFunc != nil {
		return m.ListOptionsFunc(ctx, param)
	}
	return &models.OptionsResponse{}, nil
}

func (m *MockRecipeGateway) ListAlcoholic(ctx context.Context) (*models.OptionsResponse, error) {
	return m.listOptions(ctx, "a")
}

func (m *MockRecipeGateway) ListCategories(ctx context.Context) (*models.OptionsResponse, error) {
	return m.listOptions(ctx, "c")
}

func (m *MockRecipeGateway) ListGlasses(ctx context.Context) (*models.OptionsResponse, error) {
	return m.listOptions(ctx, "g")
}

func (m *MockRecipeGateway) ListIngredients(ctx context.Context) (*models.OptionsResponse, error) {
	return m.listOptions(ctx, "i")
}

// MockCocktailsRepository is a testify mock of CocktailsRepository
type MockCocktailsRepository struct {
	mock.Mock
}

func (m *MockCocktailsRepository) drinkResponse(args mock.Arguments) (*models.DrinkResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DrinkResponse), args.Error(1)
}

func (m *MockCocktailsRepository) optionsResponse(args mock.Arguments) (*models.OptionsResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OptionsResponse), args.Error(1)
}

func (m *MockCocktailsRepository) GetByAlcoholContent(ctx context.Context, value string) (*models.DrinkResponse, error) {
	return m.drinkResponse(m.Called(ctx, value))
}

func (m *MockCocktailsRepository) GetByGlass(ctx context.Context, value string) (*models.DrinkResponse, error) {
	return m.drinkResponse(m.Called(ctx, value))
}

func (m *MockCocktailsRepository) GetByCategory(ctx context.Context, value string) (*models.DrinkResponse, error) {
	return m.drinkResponse(m.Called(ctx, value))
}

func (m *MockCocktailsRepository) GetByFirstLetter(ctx context.Context, letter string) (*models.DrinkResponse, error) {
	return m.drinkResponse(m.Called(ctx, letter))
}

func (m *MockCocktailsRepository) GetByIngredient(ctx context.Context, value string) (*models.DrinkResponse, error) {
	return m.drinkResponse(m.Called(ctx, value))
}

func (m *MockCocktailsRepository) Search(ctx context.Context, query string) (*models.DrinkResponse, error) {
	return m.drinkResponse(m.Called(ctx, query))
}

func (m *MockCocktailsRepository) GetDetails(ctx context.Context, id string) (*models.DrinkDetailsResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DrinkDetailsResponse), args.Error(1)
}

func (m *MockCocktailsRepository) GetAlcoholContentOptions(ctx context.Context) (*models.OptionsResponse, error) {
	return m.optionsResponse(m.Called(ctx))
}

func (m *MockCocktailsRepository) GetCategoryOptions(ctx context.Context) (*models.OptionsResponse, error) {
	return m.optionsResponse(m.Called(ctx))
}

func (m *MockCocktailsRepository) GetGlassOptions(ctx context.Context) (*models.OptionsResponse, error) {
	return m.optionsResponse(m.Called(ctx))
}

func (m *MockCocktailsRepository) GetIngredientOptions(ctx context.Context) (*models.OptionsResponse, error) {
	return m.optionsResponse(m.Called(ctx))
}

func (m *MockCocktailsRepository) GetFavorites(ctx context.Context, userEmail string) ([]models.CachedDrink, error) {
	args := m.Called(ctx, userEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CachedDrink), args.Error(1)
}

func (m *MockCocktailsRepository) FindFavorite(ctx context.Context, userEmail, drinkID string) (*models.CachedDrink, error) {
	args := m.Called(ctx, userEmail, drinkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CachedDrink), args.Error(1)
}

func (m *MockCocktailsRepository) InsertFavorite(ctx context.Context, userEmail string, drink models.CachedDrink) error {
	args := m.Called(ctx, userEmail, drink)
	return args.Error(0)
}

func (m *MockCocktailsRepository) RemoveFavorite(ctx context.Context, userEmail, drinkID string) error {
	args := m.Called(ctx, userEmail, drinkID)
	return args.Error(0)
}

func (m *MockCocktailsRepository) ToggleFavorite(ctx context.Context, userEmail string, drink models.CachedDrink) (bool, error) {
	args := m.Called(ctx, userEmail, drink)
	return args.Bool(0), args.Error(1)
}

func (m *MockCocktailsRepository) GetCachedDrink(ctx context.Context, drinkID string) (*models.CachedDrink, error) {
	args := m.Called(ctx, drinkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CachedDrink), args.Error(1)
}
