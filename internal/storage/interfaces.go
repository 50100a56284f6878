package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/shard-legends/cocktails-service/internal/models"
)

var (
	// ErrUserNotFound is returned when no user is stored under an email
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists is returned when registering an email that is already taken
	ErrUserAlreadyExists = errors.New("user already exists")
)

// FavoriteStore persists cached drinks and per-user favorite marks
type FavoriteStore interface {
	// CacheDrink inserts or replaces the cached snapshot of a drink
	CacheDrink(ctx context.Context, drink models.CachedDrink) error

	// MarkFavorite records a favorite; an existing mark is left as is
	MarkFavorite(ctx context.Context, userEmail, drinkID string) error

	// UnmarkFavorite removes a mark if present; the cached drink stays
	UnmarkFavorite(ctx context.Context, userEmail, drinkID string) error

	// FindFavorite returns the cached drink if the user marked it, nil otherwise
	FindFavorite(ctx context.Context, userEmail, drinkID string) (*models.CachedDrink, error)

	// ListFavorites returns the user's favorites in the order they were marked, nil when none
	ListFavorites(ctx context.Context, userEmail string) ([]models.CachedDrink, error)

	// GetCachedDrink returns the cached snapshot regardless of marks, nil when absent
	GetCachedDrink(ctx context.Context, drinkID string) (*models.CachedDrink, error)

	// ToggleFavorite flips the mark atomically and returns the new state
	ToggleFavorite(ctx context.Context, userEmail string, drink models.CachedDrink) (bool, error)
}

// UserRepository persists registered users, one record per email
type UserRepository interface {
	// GetByEmail returns ErrUserNotFound when the email is unknown
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Create returns ErrUserAlreadyExists when the email is taken
	Create(ctx context.Context, user *models.User) error

	// UpdateName changes the display name of an existing user
	UpdateName(ctx context.Context, email, name string) error

	// UpdatePassword replaces the password hash of an existing user
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// Metrics is the subset of metrics.ServiceMetrics used by storage
type Metrics interface {
	RecordDatabaseQuery(operation, status string, duration time.Duration)
	RecordRedisCommand(command, status string, duration time.Duration)
}
