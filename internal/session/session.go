// Package session binds a set of orchestrators to one WebSocket connection.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/shard-legends/cocktails-service/internal/models"
	"github.com/shard-legends/cocktails-service/internal/orchestrator"
	"github.com/shard-legends/cocktails-service/internal/repository"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Metrics is the subset of metrics.ServiceMetrics used by sessions
type Metrics interface {
	orchestrator.Metrics
	SessionOpened()
	SessionClosed()
}

// Factory creates sessions sharing a repository
type Factory struct {
	repo        repository.CocktailsRepository
	logger      *zap.Logger
	metrics     Metrics
	searchDelay time.Duration
}

// NewFactory creates a session factory. searchDelay is the settle delay of the search debounce.
func NewFactory(repo repository.CocktailsRepository, logger *zap.Logger, m Metrics, searchDelay time.Duration) *Factory {
	return &Factory{
		repo:        repo,
		logger:      logger,
		metrics:     m,
		searchDelay: searchDelay,
	}
}

// Session owns one set of orchestrators and the connection they publish to
type Session struct {
	conn      *websocket.Conn
	userEmail string
	logger    *zap.Logger
	metrics   Metrics

	list      *orchestrator.List
	search    *orchestrator.Search
	options   *orchestrator.FilterOptions
	details   *orchestrator.Details
	favorites *orchestrator.Favorites

	writeMu     sync.Mutex
	unsubscribe []func()
}

// New creates a session for an upgraded connection
func (f *Factory) New(conn *websocket.Conn, userEmail string) *Session {
	logger := f.logger.With(zap.String("user_email", userEmail))
	return &Session{
		conn:      conn,
		userEmail: userEmail,
		logger:    logger,
		metrics:   f.metrics,
		list:      orchestrator.NewList(f.repo, logger, f.metrics),
		search:    orchestrator.NewSearch(f.repo, logger, f.metrics, f.searchDelay),
		options:   orchestrator.NewFilterOptions(f.repo, logger),
		details:   orchestrator.NewDetails(f.repo, logger, f.metrics),
		favorites: orchestrator.NewFavorites(f.repo, logger, f.metrics),
	}
}

func (s *Session) subscribe() {
	s.unsubscribe = append(s.unsubscribe,
		s.list.Drinks().Subscribe(func(drinks []models.Drink) {
			s.send(TypeCocktails, models.DrinksResponse{Drinks: drinks})
		}),
		s.search.Results().Subscribe(func(drinks []models.Drink) {
			s.send(TypeSearchResults, models.DrinksResponse{Drinks: drinks})
		}),
		s.options.Options().Subscribe(func(options []string) {
			s.send(TypeOptionsList, options)
		}),
		s.details.Drink().Subscribe(func(details *models.DrinkDetails) {
			if details == nil {
				s.send(TypeDrinkDetails, nil)
				return
			}
			s.send(TypeDrinkDetails, models.DrinkDetailsView{DrinkDetails: *details, IngredientList: details.Ingredients()})
		}),
		s.favorites.Drinks().Subscribe(func(drinks []models.Drink) {
			s.send(TypeFavoritesList, models.DrinksResponse{Drinks: drinks})
		}),
	)
}

// send serializes writes; subscribers fire from the read loop and from search timers
func (s *Session) send(msgType string, payload interface{}) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(ServerMessage{Type: msgType, Payload: payload}); err != nil {
		s.logger.Debug("Failed to write session message", zap.String("type", msgType), zap.Error(err))
	}
}

func (s *Session) sendError(code, message string) {
	s.send(TypeError, models.ErrorResponse{Error: code, Message: message})
}

func (s *Session) ping() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Run serves the connection until the client goes away or ctx is cancelled
func (s *Session) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.metrics != nil {
		s.metrics.SessionOpened()
		defer s.metrics.SessionClosed()
	}
	s.logger.Info("Session started")

	s.subscribe()
	defer s.close()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go s.keepAlive(ctx)

	for {
		var msg ClientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("Session closed unexpectedly", zap.Error(err))
			}
			return
		}
		s.handle(ctx, &msg)
	}
}

func (s *Session) keepAlive(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// unblocks the read loop when the server shuts down
			s.writeMu.Lock()
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			_ = s.conn.Close()
			s.writeMu.Unlock()
			return
		case <-ticker.C:
			if err := s.ping(); err != nil {
				return
			}
		}
	}
}

func (s *Session) close() {
	s.search.Close()
	for _, unsubscribe := range s.unsubscribe {
		unsubscribe()
	}
	s.writeMu.Lock()
	_ = s.conn.Close()
	s.writeMu.Unlock()
	s.logger.Info("Session ended")
}

// parseDimension keeps unknown input as DimensionUnknown; the orchestrators decide what that means
func parseDimension(raw string) models.Dimension {
	dimension, _ := models.ParseDimension(raw)
	if !dimension.IsKnown() {
		return models.DimensionUnknown
	}
	return dimension
}

func (s *Session) handle(ctx context.Context, msg *ClientMessage) {
	switch msg.Type {
	case TypeFilter:
		if err := s.list.FetchData(ctx, s.userEmail, parseDimension(msg.Filter), msg.Value); err != nil {
			s.sendError("load_failed", "Failed to load cocktails")
		}

	case TypeSearch:
		s.search.SetQuery(s.userEmail, msg.Query)

	case TypeOptions:
		if err := s.options.FetchData(ctx, parseDimension(msg.Dimension)); err != nil {
			s.sendError("load_failed", "Failed to load filter options")
		}

	case TypeDetails:
		if msg.ID == "" {
			s.sendError("invalid_request", "id is required")
			return
		}
		if err := s.details.FetchData(ctx, s.userEmail, msg.ID); err != nil {
			s.sendError("load_failed", "Failed to load cocktail details")
		}

	case TypeFavorites:
		if err := s.favorites.FetchData(ctx, s.userEmail); err != nil {
			s.sendError("load_failed", "Failed to load favorites")
		}

	case TypeToggle:
		s.handleToggle(ctx, msg)

	default:
		s.sendError("unknown_type", "Unknown message type: "+msg.Type)
	}
}

func (s *Session) handleToggle(ctx context.Context, msg *ClientMessage) {
	if msg.Drink == nil {
		s.sendError("invalid_request", "drink is required")
		return
	}
	if err := models.ValidateStruct(msg.Drink); err != nil {
		s.sendError("validation_failed", "Invalid drink")
		return
	}
	drink := msg.Drink.Drink()

	var (
		favorite bool
		err      error
	)
	switch msg.Source {
	case SourceSearch:
		favorite, err = s.search.FavoriteCocktail(ctx, s.userEmail, drink)
	case SourceDetails:
		favorite, err = s.details.FavoriteCocktail(ctx, s.userEmail, drink)
	case SourceFavorites:
		favorite, err = s.favorites.FavoriteCocktail(ctx, s.userEmail, drink)
	default:
		favorite, err = s.list.FavoriteCocktail(ctx, s.userEmail, drink)
	}
	if err != nil {
		s.sendError("toggle_failed", "Failed to toggle favorite")
		return
	}

	s.send(TypeToggled, models.ToggleFavoriteResponse{DrinkID: drink.ID, IsFavorite: favorite})
}
