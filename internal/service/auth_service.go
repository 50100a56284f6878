package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shard-legends/cocktails-service/internal/models"
	"github.com/shard-legends/cocktails-service/internal/storage"
	"github.com/shard-legends/cocktails-service/pkg/jwt"
	"github.com/shard-legends/cocktails-service/pkg/metrics"
)

var (
	// ErrInvalidCredentials is returned when the email is unknown or the password does not match
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUserAlreadyExists = storage.ErrUserAlreadyExists
	ErrUserNotFound      = storage.ErrUserNotFound
)

const (
	actionRegister     = "register"
	actionLogin        = "login"
	actionLogout       = "logout"
	actionEditName     = "edit_name"
	actionEditPassword = "edit_password"
)

// TokenIssuer issues access tokens
type TokenIssuer interface {
	IssueToken(email, name string) (*jwt.TokenInfo, error)
}

// TokenRevoker blacklists token ids until they expire
type TokenRevoker interface {
	RevokeJWT(ctx context.Context, jti string, ttl time.Duration) error
}

// Metrics is the subset of metrics.ServiceMetrics used by the auth service
type Metrics interface {
	RecordAuthAttempt(action, status string)
}

// AuthService manages accounts and their tokens
type AuthService struct {
	users      storage.UserRepository
	tokens     TokenIssuer
	revoker    TokenRevoker
	logger     *zap.Logger
	metrics    Metrics
	bcryptCost int

	// compared against when the email is unknown so that both failure paths cost a bcrypt round
	dummyHash []byte
}

// Option configures an AuthService
type Option func(*AuthService)

// WithBcryptCost overrides bcrypt.DefaultCost
func WithBcryptCost(cost int) Option {
	return func(s *AuthService) {
		s.bcryptCost = cost
	}
}

// NewAuthService creates a new auth service
func NewAuthService(users storage.UserRepository, tokens TokenIssuer, revoker TokenRevoker, logger *zap.Logger, m Metrics, opts ...Option) *AuthService {
	if m == nil {
		m = metrics.NewServiceMetrics(nil)
	}
	s := &AuthService{
		users:      users,
		tokens:     tokens,
		revoker:    revoker,
		logger:     logger,
		metrics:    m,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.bcryptCost)
	if err != nil {
		// only fails on an out-of-range cost, fall back to the default
		s.bcryptCost = bcrypt.DefaultCost
		hash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.bcryptCost)
	}
	s.dummyHash = hash
	return s
}

func (s *AuthService) record(action string, err error) {
	s.metrics.RecordAuthAttempt(action, metrics.StatusLabel(err))
}

// Register creates an account and returns a token for it
func (s *AuthService) Register(ctx context.Context, name, email, password string) (resp *models.TokenResponse, err error) {
	defer func() { s.record(actionRegister, err) }()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, errors.Wrap(err, "failed to create user")
	}

	s.logger.Info("User registered", zap.String("email", email))
	return s.issue(user)
}

// Login checks the credentials and returns a new token
func (s *AuthService) Login(ctx context.Context, email, password string) (resp *models.TokenResponse, err error) {
	defer func() { s.record(actionLogin, err) }()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "failed to load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("Login rejected", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*models.TokenResponse, error) {
	info, err := s.tokens.IssueToken(user.Email, user.Name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token")
	}
	return &models.TokenResponse{
		Token:     info.Token,
		ExpiresAt: info.ExpiresAt,
		User:      user.Profile(),
	}, nil
}

// GetUser returns the stored account
func (s *AuthService) GetUser(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "failed to load user")
	}
	return user, nil
}

// EditName changes the display name and returns the updated account
func (s *AuthService) EditName(ctx context.Context, email, name string) (user *models.User, err error) {
	defer func() { s.record(actionEditName, err) }()

	if err := s.users.UpdateName(ctx, email, name); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "failed to update name")
	}
	return s.GetUser(ctx, email)
}

// EditPassword replaces the password. Tokens issued earlier stay valid.
func (s *AuthService) EditPassword(ctx context.Context, email, password string) (err error) {
	defer func() { s.record(actionEditPassword, err) }()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}
	if err := s.users.UpdatePassword(ctx, email, string(hash)); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return errors.Wrap(err, "failed to update password")
	}

	s.logger.Info("Password changed", zap.String("email", email))
	return nil
}

// Logout revokes the token until its natural expiry
func (s *AuthService) Logout(ctx context.Context, jti string, expiresAt time.Time) (err error) {
	defer func() { s.record(actionLogout, err) }()

	if err := s.revoker.RevokeJWT(ctx, jti, time.Until(expiresAt)); err != nil {
		return errors.Wrap(err, "failed to revoke token")
	}
	return nil
}
