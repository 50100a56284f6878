package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shard-legends/cocktails-service/internal/auth"
	"github.com/shard-legends/cocktails-service/internal/models"
	"github.com/shard-legends/cocktails-service/internal/service"
)

// AuthService is the account API served by the auth handler
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.TokenResponse, error)
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	GetUser(ctx context.Context, email string) (*models.User, error)
	EditName(ctx context.Context, email, name string) (*models.User, error)
	EditPassword(ctx context.Context, email, password string) error
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}

// AuthHandler handles account HTTP requests
type AuthHandler struct {
	service AuthService
	logger  *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: authService,
		logger:  logger,
	}
}

// bindRequest parses and validates the JSON body, answering 400 on failure
func bindRequest(c *gin.Context, logger *zap.Logger, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Debug("Failed to parse request", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
			Details: map[string]interface{}{"validation_error": err.Error()},
		})
		return false
	}

	if err := models.ValidateStruct(req); err != nil {
		logger.Debug("Request validation failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_failed",
			Message: "Request validation failed",
			Details: models.ValidationDetails(err),
		})
		return false
	}
	return true
}

// currentUser returns the authenticated user, answering 401 when the route is misconfigured
func currentUser(c *gin.Context) (*auth.UserContext, bool) {
	user, ok := auth.GetUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
		return nil, false
	}
	return user, true
}

func internalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "internal_error",
		Message: message,
	})
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindRequest(c, h.logger, &req) {
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:   "user_exists",
				Message: "A user with this email already exists",
			})
			return
		}
		h.logger.Error("Failed to register user", zap.String("email", req.Email), zap.Error(err))
		internalError(c, "Failed to register user")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindRequest(c, h.logger, &req) {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "invalid_credentials",
				Message: "Invalid email or password",
			})
			return
		}
		h.logger.Error("Failed to log in user", zap.String("email", req.Email), zap.Error(err))
		internalError(c, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.service.Logout(c.Request.Context(), user.JTI, user.ExpiresAt); err != nil {
		h.logger.Error("Failed to revoke token", zap.String("jti", user.JTI), zap.Error(err))
		internalError(c, "Failed to log out")
		return
	}

	c.Status(http.StatusNoContent)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	stored, err := h.service.GetUser(c.Request.Context(), user.Email)
	if err != nil {
		h.userError(c, user.Email, err, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, stored.Profile())
}

// EditName handles PUT /api/auth/me/name
func (h *AuthHandler) EditName(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.EditNameRequest
	if !bindRequest(c, h.logger, &req) {
		return
	}

	updated, err := h.service.EditName(c.Request.Context(), user.Email, req.Name)
	if err != nil {
		h.userError(c, user.Email, err, "Failed to update name")
		return
	}

	c.JSON(http.StatusOK, updated.Profile())
}

// EditPassword handles PUT /api/auth/me/password
func (h *AuthHandler) EditPassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.EditPasswordRequest
	if !bindRequest(c, h.logger, &req) {
		return
	}

	if err := h.service.EditPassword(c.Request.Context(), user.Email, req.Password); err != nil {
		h.userError(c, user.Email, err, "Failed to update password")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) userError(c *gin.Context, email string, err error, message string) {
	if errors.Is(err, service.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "user_not_found",
			Message: "User not found",
		})
		return
	}
	h.logger.Error(message, zap.String("email", email), zap.Error(err))
	internalError(c, message)
}
