package auth

import (
	"time"

	"github.com/gin-gonic/gin"
)

// contextKey is the gin context key of the authenticated user
const contextKey = "user"

// UserContext represents the authenticated user taken from the access token
type UserContext struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	JTI       string    `json:"jti"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SetUser stores the user in the request context
func SetUser(c *gin.Context, user *UserContext) {
	c.Set(contextKey, user)
}

// GetUserFromContext returns the user stored by the JWT middleware
func GetUserFromContext(c *gin.Context) (*UserContext, bool) {
	value, exists := c.Get(contextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*UserContext)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
