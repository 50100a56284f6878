package orchestrator

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shard-legends/cocktails-service/internal/models"
	"github.com/shard-legends/cocktails-service/internal/repository"
	"github.com/shard-legends/cocktails-service/internal/state"
)

// DefaultSearchDelay is how long a query must stay unchanged before it is searched
const DefaultSearchDelay = 500 * time.Millisecond

const (
	searchFired     = "fired"
	searchCollapsed = "collapsed"
	searchFailed    = "error"
	searchStale     = "stale"
)

// Search runs debounced name searches. Only the query that stays unchanged for
// the settle delay reaches the repository.
type Search struct {
	favoriteToggler
	delay   time.Duration
	results *state.Value[[]models.Drink]

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	inflight   context.CancelFunc
	closed     bool
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewSearch creates a search orchestrator. A non-positive delay selects DefaultSearchDelay.
func NewSearch(repo repository.CocktailsRepository, logger *zap.Logger, m Metrics, delay time.Duration) *Search {
	if delay <= 0 {
		delay = DefaultSearchDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Search{
		favoriteToggler: favoriteToggler{repo: repo, logger: logger, metrics: metricsOrNop(m)},
		delay:           delay,
		results:         state.NewValue[[]models.Drink](nil),
		ctx:             ctx,
		cancel:          cancel,
	}
}

// Results is the published search result; nil means no data
func (s *Search) Results() *state.Value[[]models.Drink] {
	return s.results
}

// SetQuery restarts the settle timer with query. A pending search for an
// earlier query is dropped and an in-flight one is cancelled.
func (s *Search) SetQuery(userEmail, query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.generation++
	generation := s.generation

	if s.timer != nil && s.timer.Stop() {
		s.metrics.RecordSearch(searchCollapsed)
	}
	if s.inflight != nil {
		s.inflight()
		s.inflight = nil
	}

	s.timer = time.AfterFunc(s.delay, func() {
		s.fire(generation, userEmail, query)
	})
}

// FetchSearchData goes through the same debounce as SetQuery
func (s *Search) FetchSearchData(userEmail, query string) {
	s.SetQuery(userEmail, query)
}

func (s *Search) fire(generation uint64, userEmail, query string) {
	s.mu.Lock()
	// a newer query arrived after this timer had already fired
	if s.closed || generation != s.generation {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	ctx, cancel := context.WithCancel(s.ctx)
	s.inflight = cancel
	s.mu.Unlock()

	defer cancel()

	s.metrics.RecordSearch(searchFired)
	drinks, err := s.Load(ctx, userEmail, query)

	s.mu.Lock()
	current := !s.closed && generation == s.generation
	if current {
		s.inflight = nil
	}
	s.mu.Unlock()

	if !current {
		s.metrics.RecordSearch(searchStale)
		return
	}
	if err != nil {
		s.metrics.RecordSearch(searchFailed)
		s.logger.Error("Search failed", zap.String("query", query), zap.Error(err))
		return
	}
	s.results.Set(drinks)
}

// Load searches immediately and merges the user's favorites
func (s *Search) Load(ctx context.Context, userEmail, query string) ([]models.Drink, error) {
	var (
		remote    *models.DrinkResponse
		favorites []models.CachedDrink
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := s.repo.Search(gctx, query)
		remote = resp
		return err
	})
	g.Go(func() error {
		favs, err := s.repo.GetFavorites(gctx, userEmail)
		favorites = favs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if remote.IsEmpty() {
		return nil, nil
	}
	return mergeFavorites(remote.Drinks, favorites), nil
}

// FavoriteCocktail toggles the drink and reflects the new state in the published results
func (s *Search) FavoriteCocktail(ctx context.Context, userEmail string, drink models.Drink) (bool, error) {
	favorite, err := s.Toggle(ctx, userEmail, drink)
	if err != nil {
		return false, err
	}
	reflectToggle(s.results, drink.ID, favorite)
	return favorite, nil
}

// Close cancels any pending or in-flight search. Later queries are ignored.
func (s *Search) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.cancel()
}
