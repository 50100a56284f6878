package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shard-legends/cocktails-service/internal/models"
)

// GetFilterOptions handles GET /api/filters/:dimension
func (h *CocktailsHandler) GetFilterOptions(c *gin.Context) {
	raw := c.Param("dimension")
	dimension, err := models.ParseDimension(raw)
	if err != nil {
		unknownDimension(c, raw)
		return
	}

	options, ok, err := h.options.Load(c.Request.Context(), dimension)
	if err != nil {
		h.logger.Error("Failed to load filter options", zap.String("dimension", dimension.String()), zap.Error(err))
		internalError(c, "Failed to load filter options")
		return
	}
	if !ok {
		unknownDimension(c, raw)
		return
	}

	c.JSON(http.StatusOK, models.OptionsListResponse{
		Dimension: dimension,
		Options:   options,
	})
}
