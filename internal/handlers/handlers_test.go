package handlers

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shard-legends/cocktails-service/internal/models"
	"github.com/shard-legends/cocktails-service/internal/orchestrator"
	"github.com/shard-legends/cocktails-service/internal/repository"
	"github.com/shard-legends/cocktails-service/internal/service"
	"github.com/shard-legends/cocktails-service/internal/session"
	"github.com/shard-legends/cocktails-service/internal/storage"
	"github.com/shard-legends/cocktails-service/pkg/jwt"
	"github.com/shard-legends/cocktails-service/pkg/metrics"
)

var (
	signingKey     *rsa.PrivateKey
	signingKeyOnce sync.Once
)

func testSigningKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	signingKeyOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		signingKey = key
	})
	return signingKey
}

// memoryRevocations keeps revoked token ids in a map
type memoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (m *memoryRevocations) RevokeJWT(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = ttl
	return nil
}

func (m *memoryRevocations) IsJWTRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

type apiFixture struct {
	router      *gin.Engine
	gateway     *repository.MockRecipeGateway
	favorites   *storage.MemoryFavoriteStorage
	users       *storage.MemoryUserStorage
	keys        *jwt.KeyManager
	revocations *memoryRevocations
	metrics     *metrics.Metrics
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	f := &apiFixture{
		gateway:     &repository.MockRecipeGateway{},
		favorites:   storage.NewMemoryFavoriteStorage(),
		users:       storage.NewMemoryUserStorage(),
		keys:        jwt.NewKeyManagerFromKey(testSigningKey(t), "cocktails-service", time.Hour, logger),
		revocations: &memoryRevocations{revoked: map[string]time.Duration{}},
		metrics:     metrics.NewWithRegisterer(prometheus.NewRegistry()),
	}
	serviceMetrics := metrics.NewServiceMetrics(f.metrics)
	repo := repository.NewCocktailsRepository(f.gateway, f.favorites, logger)

	search := orchestrator.NewSearch(repo, logger, serviceMetrics, 10*time.Millisecond)
	t.Cleanup(search.Close)

	f.router = gin.New()
	SetupPublicRoutes(f.router, &RouterConfig{
		AuthService: service.NewAuthService(f.users, f.keys, f.revocations, logger, serviceMetrics,
			service.WithBcryptCost(bcrypt.MinCost)),
		List:           orchestrator.NewList(repo, logger, serviceMetrics),
		Search:         search,
		Details:        orchestrator.NewDetails(repo, logger, serviceMetrics),
		Options:        orchestrator.NewFilterOptions(repo, logger),
		Favorites:      orchestrator.NewFavorites(repo, logger, serviceMetrics),
		Sessions:       session.NewFactory(repo, logger, serviceMetrics, 10*time.Millisecond),
		TokenParser:    f.keys,
		Revocations:    f.revocations,
		Metrics:        f.metrics,
		AllowedOrigins: []string{"*"},
		Logger:         logger,
	})
	return f
}

func (f *apiFixture) token(t *testing.T, email string) string {
	t.Helper()
	info, err := f.keys.IssueToken(email, "Tester")
	require.NoError(t, err)
	return info.Token
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

const testEmail = "bartender@example.com"

var (
	margarita = models.Drink{ID: "11007", Name: "Margarita", Thumb: "margarita.jpg"}
	mojito    = models.Drink{ID: "11000", Name: "Mojito", Thumb: "mojito.jpg"}
)

func strPtr(s string) *string {
	return &s
}
