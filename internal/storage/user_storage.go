package storage

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shard-legends/cocktails-service/internal/models"
	"github.com/shard-legends/cocktails-service/pkg/metrics"
)

// userKeyPrefix namespaces user hashes: user:{email}
const userKeyPrefix = "user:"

func userKey(email string) string {
	return userKeyPrefix + email
}

// RedisUserStorage implements UserRepository with one Redis hash per user
type RedisUserStorage struct {
	client  *redis.Client
	logger  *zap.Logger
	metrics Metrics
}

// NewRedisUserStorage creates a new Redis backed user store
func NewRedisUserStorage(client *redis.Client, logger *zap.Logger, m Metrics) *RedisUserStorage {
	if m == nil {
		m = metrics.NewServiceMetrics(nil)
	}
	return &RedisUserStorage{
		client:  client,
		logger:  logger,
		metrics: m,
	}
}

// GetByEmail loads the user hash
func (s *RedisUserStorage) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	start := time.Now()

	cmd := s.client.HGetAll(ctx, userKey(email))
	values, err := cmd.Result()
	s.metrics.RecordRedisCommand("hgetall", metrics.StatusLabel(err), time.Since(start))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user")
	}
	if len(values) == 0 {
		return nil, ErrUserNotFound
	}

	var user models.User
	if err := cmd.Scan(&user); err != nil {
		return nil, errors.Wrap(err, "failed to decode user")
	}
	return &user, nil
}

// createUserScript claims the email and writes the remaining fields in one step,
// so a failed registration never leaves a hash that blocks the email
var createUserScript = redis.NewScript(`
if redis.call("HSETNX", KEYS[1], "email", ARGV[1]) == 0 then
	return 0
end
redis.call("HSET", KEYS[1], "name", ARGV[2], "password_hash", ARGV[3])
return 1
`)

// Create stores a new user. Two concurrent registrations of the same email
// cannot both succeed.
func (s *RedisUserStorage) Create(ctx context.Context, user *models.User) error {
	start := time.Now()
	created, err := createUserScript.Run(ctx, s.client, []string{userKey(user.Email)},
		user.Email, user.Name, user.PasswordHash).Int()
	s.metrics.RecordRedisCommand("create_user", metrics.StatusLabel(err), time.Since(start))
	if err != nil {
		return errors.Wrap(err, "failed to create user")
	}
	if created == 0 {
		return ErrUserAlreadyExists
	}

	s.logger.Info("User created", zap.String("email", user.Email))
	return nil
}

// UpdateName sets the name field of an existing user
func (s *RedisUserStorage) UpdateName(ctx context.Context, email, name string) error {
	return s.updateField(ctx, email, "name", name)
}

// UpdatePassword sets the password_hash field of an existing user
func (s *RedisUserStorage) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	return s.updateField(ctx, email, "password_hash", passwordHash)
}

// updateFieldScript writes a field only when the hash exists
var updateFieldScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
return 1
`)

func (s *RedisUserStorage) updateField(ctx context.Context, email, field, value string) error {
	start := time.Now()
	updated, err := updateFieldScript.Run(ctx, s.client, []string{userKey(email)}, field, value).Int()
	s.metrics.RecordRedisCommand("update_"+field, metrics.StatusLabel(err), time.Since(start))
	if err != nil {
		return errors.Wrapf(err, "failed to update user %s", field)
	}
	if updated == 0 {
		return ErrUserNotFound
	}
	return nil
}

// MemoryUserStorage implements UserRepository in process memory
type MemoryUserStorage struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// NewMemoryUserStorage creates an empty in-memory user store
func NewMemoryUserStorage() *MemoryUserStorage {
	return &MemoryUserStorage{users: make(map[string]models.User)}
}

func (s *MemoryUserStorage) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *MemoryUserStorage) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Email]; ok {
		return ErrUserAlreadyExists
	}
	s.users[user.Email] = *user
	return nil
}

func (s *MemoryUserStorage) UpdateName(_ context.Context, email, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return ErrUserNotFound
	}
	user.Name = name
	s.users[email] = user
	return nil
}

func (s *MemoryUserStorage) UpdatePassword(_ context.Context, email, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	s.users[email] = user
	return nil
}
