package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/shard-legends/cocktails-service/internal/auth"
	"github.com/shard-legends/cocktails-service/pkg/jwt"
)

// TokenParser validates access tokens
type TokenParser interface {
	ParseToken(token string) (*jwt.Claims, error)
}

// RevocationChecker reports whether a token id was revoked
type RevocationChecker interface {
	IsJWTRevoked(ctx context.Context, jti string) (bool, error)
}

// JWTAuthMiddleware provides JWT authentication
type JWTAuthMiddleware struct {
	tokens      TokenParser
	revocations RevocationChecker
	logger      *zap.Logger
}

// NewJWTAuthMiddleware creates a new JWT authentication middleware
func NewJWTAuthMiddleware(tokens TokenParser, revocations RevocationChecker, logger *zap.Logger) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{
		tokens:      tokens,
		revocations: revocations,
		logger:      logger,
	}
}

func unauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   code,
		"message": message,
	})
}

// bearerToken extracts the token from the Authorization header. Browsers cannot
// set headers on a WebSocket handshake, so upgrades may pass ?token= instead.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if websocket.IsWebSocketUpgrade(c.Request) {
			if token := c.Query("token"); token != "" {
				return token, true
			}
		}
		return "", false
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// AuthenticateJWT validates the access token and stores the user in the context
func (m *JWTAuthMiddleware) AuthenticateJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			m.logger.Debug("Missing or malformed bearer token", zap.String("path", c.Request.URL.Path))
			unauthorized(c, "missing_token", "Missing or malformed Authorization header")
			return
		}

		claims, err := m.tokens.ParseToken(tokenString)
		if err != nil {
			m.logger.Info("JWT validation failed", zap.Error(err))
			unauthorized(c, "invalid_token", "Token is not valid")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		revoked, err := m.revocations.IsJWTRevoked(ctx, claims.ID)
		if err != nil {
			// Redis being down must not lock every user out
			m.logger.Warn("Failed to check token revocation", zap.String("jti", claims.ID), zap.Error(err))
		} else if revoked {
			m.logger.Info("Revoked token used", zap.String("jti", claims.ID))
			unauthorized(c, "token_revoked", "Token has been revoked")
			return
		}

		user := &auth.UserContext{
			Email: claims.Subject,
			Name:  claims.Name,
			JTI:   claims.ID,
		}
		if claims.ExpiresAt != nil {
			user.ExpiresAt = claims.ExpiresAt.Time
		}
		auth.SetUser(c, user)

		c.Next()
	}
}
