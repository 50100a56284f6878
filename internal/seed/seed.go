// Package seed loads favorite fixtures from YAML files into a favorite store.
package seed

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/shard-legends/cocktails-service/internal/models"
	"github.com/shard-legends/cocktails-service/internal/storage"
)

// Drink is a drink snapshot as written in a seed file
type Drink struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Thumb string `yaml:"thumb"`
}

func (d Drink) cached() models.CachedDrink {
	return models.CachedDrink{ID: d.ID, Name: d.Name, Thumb: d.Thumb}
}

// UserFavorites lists the drinks one user has favorited, in order
type UserFavorites struct {
	Email  string  `yaml:"email"`
	Drinks []Drink `yaml:"drinks"`
}

// File is one seed file. Drinks are only cached; Favorites are cached and marked.
type File struct {
	Drinks    []Drink         `yaml:"drinks"`
	Favorites []UserFavorites `yaml:"favorites"`
}

// Stats counts what a load did
type Stats struct {
	Files           int
	DrinksCached    int
	FavoritesMarked int
	Failed          int
}

// Parse decodes a seed file
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "yaml parse")
	}
	return &f, nil
}

// ReadFile reads and decodes the seed file at path
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return Parse(data)
}

// Collect returns every .yaml and .yml file below dir
func Collect(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && (strings.HasSuffix(d.Name(), ".yaml") || strings.HasSuffix(d.Name(), ".yml")) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", dir)
	}
	return files, nil
}

// Loader writes seed files into a favorite store
type Loader struct {
	store  storage.FavoriteStore
	logger *zap.Logger
}

// NewLoader creates a loader for store
func NewLoader(store storage.FavoriteStore, logger *zap.Logger) *Loader {
	return &Loader{store: store, logger: logger}
}

// Apply caches every drink of f and marks the favorites. A bad entry is
// counted as failed and the rest of the file is still applied.
func (l *Loader) Apply(ctx context.Context, f *File, stats *Stats) {
	for _, d := range f.Drinks {
		if l.cache(ctx, d, stats) {
			stats.DrinksCached++
		}
	}

	for _, user := range f.Favorites {
		if user.Email == "" {
			l.logger.Warn("Skipping favorites without email", zap.Int("drinks", len(user.Drinks)))
			stats.Failed += len(user.Drinks)
			continue
		}
		for _, d := range user.Drinks {
			if !l.cache(ctx, d, stats) {
				continue
			}
			stats.DrinksCached++
			if err := l.store.MarkFavorite(ctx, user.Email, d.ID); err != nil {
				l.logger.Error("Failed to mark favorite",
					zap.String("user_email", user.Email),
					zap.String("drink_id", d.ID),
					zap.Error(err))
				stats.Failed++
				continue
			}
			stats.FavoritesMarked++
		}
	}
}

func (l *Loader) cache(ctx context.Context, d Drink, stats *Stats) bool {
	if d.ID == "" || d.Name == "" {
		l.logger.Warn("Skipping drink without id or name", zap.String("drink_id", d.ID))
		stats.Failed++
		return false
	}
	if err := l.store.CacheDrink(ctx, d.cached()); err != nil {
		l.logger.Error("Failed to cache drink", zap.String("drink_id", d.ID), zap.Error(err))
		stats.Failed++
		return false
	}
	return true
}

// LoadFiles reads and applies every path. Unreadable files are counted as failed.
func (l *Loader) LoadFiles(ctx context.Context, paths []string) *Stats {
	stats := &Stats{}
	for _, path := range paths {
		f, err := ReadFile(path)
		if err != nil {
			l.logger.Error("Failed to read seed file", zap.String("file", path), zap.Error(err))
			stats.Failed++
			continue
		}
		stats.Files++
		l.Apply(ctx, f, stats)
	}
	return stats
}
