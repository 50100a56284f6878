package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shard-legends/cocktails-service/internal/models"
	"github.com/shard-legends/cocktails-service/internal/orchestrator"
)

// CocktailsHandler serves the browse API. Orchestrators are shared between
// requests, so only their Load, Find and Toggle operations are used here.
type CocktailsHandler struct {
	list      *orchestrator.List
	search    *orchestrator.Search
	details   *orchestrator.Details
	options   *orchestrator.FilterOptions
	favorites *orchestrator.Favorites
	logger    *zap.Logger
}

// NewCocktailsHandler creates a new cocktails handler
func NewCocktailsHandler(
	list *orchestrator.List,
	search *orchestrator.Search,
	details *orchestrator.Details,
	options *orchestrator.FilterOptions,
	favorites *orchestrator.Favorites,
	logger *zap.Logger,
) *CocktailsHandler {
	return &CocktailsHandler{
		list:      list,
		search:    search,
		details:   details,
		options:   options,
		favorites: favorites,
		logger:    logger,
	}
}

func unknownDimension(c *gin.Context, raw string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "unknown_dimension",
		Message: "Unknown filter dimension",
		Details: map[string]interface{}{
			"dimension": raw,
			"allowed":   models.Dimensions,
		},
	})
}

// GetCocktails handles GET /api/cocktails?filter=&value=
func (h *CocktailsHandler) GetCocktails(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	raw := c.Query("filter")
	dimension, err := models.ParseDimension(raw)
	if err != nil {
		unknownDimension(c, raw)
		return
	}

	drinks, err := h.list.Load(c.Request.Context(), user.Email, dimension, c.Query("value"))
	if err != nil {
		h.logger.Error("Failed to load cocktails",
			zap.String("dimension", dimension.String()),
			zap.String("value", c.Query("value")),
			zap.Error(err))
		internalError(c, "Failed to load cocktails")
		return
	}

	c.JSON(http.StatusOK, models.DrinksResponse{Drinks: drinks})
}

// SearchCocktails handles GET /api/cocktails/search?q=
func (h *CocktailsHandler) SearchCocktails(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	drinks, err := h.search.Load(c.Request.Context(), user.Email, c.Query("q"))
	if err != nil {
		h.logger.Error("Failed to search cocktails", zap.String("query", c.Query("q")), zap.Error(err))
		internalError(c, "Failed to search cocktails")
		return
	}

	c.JSON(http.StatusOK, models.DrinksResponse{Drinks: drinks})
}

// GetCocktail handles GET /api/cocktails/:id
func (h *CocktailsHandler) GetCocktail(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id := c.Param("id")
	details, err := h.details.Load(c.Request.Context(), user.Email, id)
	if err != nil {
		h.logger.Error("Failed to load cocktail details", zap.String("drink_id", id), zap.Error(err))
		internalError(c, "Failed to load cocktail details")
		return
	}
	if details == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Cocktail not found",
		})
		return
	}

	c.JSON(http.StatusOK, models.DrinkDetailsView{
		DrinkDetails:   *details,
		IngredientList: details.Ingredients(),
	})
}
