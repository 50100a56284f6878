package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/shard-legends/cocktails-service/internal/session"
)

// SessionHandler upgrades authenticated requests to browse sessions
type SessionHandler struct {
	sessions *session.Factory
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewSessionHandler creates a session handler accepting the given origins.
// "*" accepts any origin; requests without an Origin header are always accepted.
func NewSessionHandler(sessions *session.Factory, allowedOrigins []string, logger *zap.Logger) *SessionHandler {
	allowAll := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = struct{}{}
	}

	return &SessionHandler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || allowAll {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
		logger: logger,
	}
}

// Serve handles GET /api/session
func (h *SessionHandler) Serve(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written the error response
		h.logger.Warn("Failed to upgrade session", zap.String("user_email", user.Email), zap.Error(err))
		return
	}

	h.sessions.New(conn, user.Email).Run(c.Request.Context())
}
