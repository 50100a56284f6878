package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shard-legends/cocktails-service/internal/models"
)

// GetFavorites handles GET /api/favorites
func (h *CocktailsHandler) GetFavorites(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	drinks, err := h.favorites.Load(c.Request.Context(), user.Email)
	if err != nil {
		h.logger.Error("Failed to load favorites", zap.String("user_email", user.Email), zap.Error(err))
		internalError(c, "Failed to load favorites")
		return
	}

	c.JSON(http.StatusOK, models.DrinksResponse{Drinks: drinks})
}

// GetFavorite handles GET /api/favorites/:id
func (h *CocktailsHandler) GetFavorite(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id := c.Param("id")
	drink, err := h.favorites.Find(c.Request.Context(), user.Email, id)
	if err != nil {
		h.logger.Error("Failed to find favorite",
			zap.String("user_email", user.Email),
			zap.String("drink_id", id),
			zap.Error(err))
		internalError(c, "Failed to find favorite")
		return
	}
	if drink == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Cocktail is not a favorite",
		})
		return
	}

	c.JSON(http.StatusOK, drink)
}

// ToggleFavorite handles POST /api/favorites/toggle
func (h *CocktailsHandler) ToggleFavorite(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.ToggleFavoriteRequest
	if !bindRequest(c, h.logger, &req) {
		return
	}

	favorite, err := h.favorites.Toggle(c.Request.Context(), user.Email, req.Drink())
	if err != nil {
		internalError(c, "Failed to toggle favorite")
		return
	}

	c.JSON(http.StatusOK, models.ToggleFavoriteResponse{
		DrinkID:    req.ID,
		IsFavorite: favorite,
	})
}
