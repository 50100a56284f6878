package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	dberrors "github.com/shard-legends/cocktails-service/internal/errors"
	"github.com/shard-legends/cocktails-service/internal/models"
)

type memoryMark struct {
	seq       uint64
	createdAt time.Time
}

// MemoryFavoriteStorage implements FavoriteStore in process memory.
// Used with storage.driver=memory and in tests.
type MemoryFavoriteStorage struct {
	mu     sync.Mutex
	drinks map[string]models.CachedDrink
	marks  map[string]map[string]memoryMark
	seq    uint64
}

// NewMemoryFavoriteStorage creates an empty in-memory favorite store
func NewMemoryFavoriteStorage() *MemoryFavoriteStorage {
	return &MemoryFavoriteStorage{
		drinks: make(map[string]models.CachedDrink),
		marks:  make(map[string]map[string]memoryMark),
	}
}

func (s *MemoryFavoriteStorage) CacheDrink(_ context.Context, drink models.CachedDrink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drinks[drink.ID] = drink
	return nil
}

// MarkFavorite rejects drinks that were never cached, like the foreign key of the Postgres store
func (s *MemoryFavoriteStorage) MarkFavorite(_ context.Context, userEmail, drinkID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drinks[drinkID]; !ok {
		return &dberrors.ReferenceError{
			Operation:  "mark_favorite",
			Constraint: "favorite_marks_drink_id_fkey",
			Message:    "invalid reference during mark_favorite: drink " + drinkID + " is not cached",
		}
	}
	s.markLocked(userEmail, drinkID)
	return nil
}

func (s *MemoryFavoriteStorage) markLocked(userEmail, drinkID string) {
	userMarks, ok := s.marks[userEmail]
	if !ok {
		userMarks = make(map[string]memoryMark)
		s.marks[userEmail] = userMarks
	}
	if _, exists := userMarks[drinkID]; exists {
		return
	}
	s.seq++
	userMarks[drinkID] = memoryMark{seq: s.seq, createdAt: time.Now()}
}

func (s *MemoryFavoriteStorage) UnmarkFavorite(_ context.Context, userEmail, drinkID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.marks[userEmail], drinkID)
	return nil
}

func (s *MemoryFavoriteStorage) FindFavorite(_ context.Context, userEmail, drinkID string) (*models.CachedDrink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.marks[userEmail][drinkID]; !ok {
		return nil, nil
	}
	drink, ok := s.drinks[drinkID]
	if !ok {
		return nil, nil
	}
	return &drink, nil
}

func (s *MemoryFavoriteStorage) ListFavorites(_ context.Context, userEmail string) ([]models.CachedDrink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type entry struct {
		seq   uint64
		drink models.CachedDrink
	}
	entries := make([]entry, 0, len(s.marks[userEmail]))
	for id, mark := range s.marks[userEmail] {
		drink, ok := s.drinks[id]
		if !ok {
			continue
		}
		entries = append(entries, entry{seq: mark.seq, drink: drink})
	}
	if len(entries) == 0 {
		return nil, nil
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	drinks := make([]models.CachedDrink, len(entries))
	for i, e := range entries {
		drinks[i] = e.drink
	}
	return drinks, nil
}

func (s *MemoryFavoriteStorage) GetCachedDrink(_ context.Context, drinkID string) (*models.CachedDrink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drink, ok := s.drinks[drinkID]
	if !ok {
		return nil, nil
	}
	return &drink, nil
}

func (s *MemoryFavoriteStorage) ToggleFavorite(_ context.Context, userEmail string, drink models.CachedDrink) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.marks[userEmail][drink.ID]; ok {
		delete(s.marks[userEmail], drink.ID)
		return false, nil
	}
	s.drinks[drink.ID] = drink
	s.markLocked(userEmail, drink.ID)
	return true, nil
}
