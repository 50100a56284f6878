package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shard-legends/cocktails-service/internal/models"
	"github.com/shard-legends/cocktails-service/internal/storage"
	"github.com/shard-legends/cocktails-service/pkg/jwt"
	"github.com/shard-legends/cocktails-service/pkg/metrics"
)

type MockTokenRevoker struct {
	mock.Mock
}

func (m *MockTokenRevoker) RevokeJWT(ctx context.Context, jti string, ttl time.Duration) error {
	args := m.Called(ctx, jti, ttl)
	return args.Error(0)
}

type failingUserRepository struct {
	storage.UserRepository
	err error
}

func (f *failingUserRepository) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, f.err
}

type authFixture struct {
	service *AuthService
	users   *storage.MemoryUserStorage
	keys    *jwt.KeyManager
	revoker *MockTokenRevoker
	metrics *metrics.Metrics
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	f := &authFixture{
		users:   storage.NewMemoryUserStorage(),
		keys:    jwt.NewKeyManagerFromKey(key, "cocktails-service", time.Hour, zap.NewNop()),
		revoker: &MockTokenRevoker{},
		metrics: metrics.NewWithRegisterer(prometheus.NewRegistry()),
	}
	f.service = NewAuthService(f.users, f.keys, f.revoker, zap.NewNop(),
		metrics.NewServiceMetrics(f.metrics), WithBcryptCost(bcrypt.MinCost))
	return f
}

func TestAuthService_Register(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.service.Register(ctx, "Nick", "nick@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, models.UserProfile{Name: "Nick", Email: "nick@example.com"}, resp.User)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	claims, err := f.keys.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "nick@example.com", claims.Subject)
	assert.Equal(t, "Nick", claims.Name)

	stored, err := f.users.GetByEmail(ctx, "nick@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))

	_, err = f.service.Register(ctx, "Impostor", "nick@example.com", "other-secret")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AuthAttemptsTotal.WithLabelValues("register", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AuthAttemptsTotal.WithLabelValues("register", "error")))
}

func TestAuthService_EmailIsCaseSensitive(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, "Nick", "nick@example.com", "secret1")
	require.NoError(t, err)
	_, err = f.service.Register(ctx, "Nick", "Nick@example.com", "secret1")
	assert.NoError(t, err)

	_, err = f.service.Login(ctx, "NICK@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.service.Register(ctx, "Nick", "nick@example.com", "secret1")
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		resp, err := f.service.Login(ctx, "nick@example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "Nick", resp.User.Name)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.service.Login(ctx, "nick@example.com", "secret2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.service.Login(ctx, "nobody@example.com", "secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("storage failure is not a credentials error", func(t *testing.T) {
		broken := NewAuthService(&failingUserRepository{err: errors.New("redis down")}, f.keys, f.revoker, zap.NewNop(), nil,
			WithBcryptCost(bcrypt.MinCost))

		_, err := broken.Login(ctx, "nick@example.com", "secret1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_EditProfile(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.service.Register(ctx, "Nick", "nick@example.com", "secret1")
	require.NoError(t, err)

	user, err := f.service.EditName(ctx, "nick@example.com", "Nicholas")
	require.NoError(t, err)
	assert.Equal(t, "Nicholas", user.Name)

	require.NoError(t, f.service.EditPassword(ctx, "nick@example.com", "new-secret"))

	_, err = f.service.Login(ctx, "nick@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := f.service.Login(ctx, "nick@example.com", "new-secret")
	require.NoError(t, err)
	assert.Equal(t, "Nicholas", resp.User.Name)

	_, err = f.service.EditName(ctx, "ghost@example.com", "Ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, f.service.EditPassword(ctx, "ghost@example.com", "secret1"), ErrUserNotFound)

	_, err = f.service.GetUser(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t)
	expiresAt := time.Now().Add(30 * time.Minute)

	f.revoker.On("RevokeJWT", mock.Anything, "jti-1", mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 29*time.Minute && ttl <= 30*time.Minute
	})).Return(nil).Once()
	f.revoker.On("RevokeJWT", mock.Anything, "jti-2", mock.Anything).Return(errors.New("redis down")).Once()

	assert.NoError(t, f.service.Logout(context.Background(), "jti-1", expiresAt))
	assert.Error(t, f.service.Logout(context.Background(), "jti-2", expiresAt))
	f.revoker.AssertExpectations(t)
}

func TestNewAuthService_InvalidCostFallsBack(t *testing.T) {
	s := NewAuthService(storage.NewMemoryUserStorage(), nil, nil, zap.NewNop(), nil, WithBcryptCost(bcrypt.MaxCost+1))
	assert.Equal(t, bcrypt.DefaultCost, s.bcryptCost)
}
