// Package favorites keeps the user's bookmarked dashboards. The list lives
// in memory and is written back as a whole to persistent storage after
// every change, once it has been loaded.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/areaportal/internal/client/models"
	"github.com/dmitrijs2005/areaportal/internal/common"
	"github.com/dmitrijs2005/areaportal/internal/logging"
)

// Storage is the key/value persistence used by the store.
// *tokenstore.Store implements it.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type Store struct {
	storage Storage
	log     logging.Logger
	now     func() time.Time

	mu     sync.Mutex
	items  []models.Favorite
	loaded bool
}

type Option func(*Store)

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock sets the source of AddedAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(storage Storage, opts ...Option) *Store {
	s := &Store{storage: storage, log: logging.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted list once; later calls do nothing. A corrupt
// entry is logged and replaced by an empty list. Changes made before Load
// stay in memory and are overwritten by the loaded list.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return nil
	}

	raw, ok, err := s.storage.Get(ctx, common.FavoritesKey)
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	var items []models.Favorite
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			s.log.Warn(ctx, "discarding unreadable favorites", "error", err)
			items = nil
		}
	}

	s.items = dedupe(items)
	s.loaded = true
	return nil
}

func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Toggle adds the dashboard when absent and removes it when present. It
// reports whether the dashboard is a favorite afterwards. The in-memory
// change stands even if persisting it fails.
func (s *Store) Toggle(ctx context.Context, id, name, areaSlug string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(id); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
		return false, s.persist(ctx)
	}

	s.items = append(s.items, models.Favorite{ID: id, Name: name, AreaSlug: areaSlug, AddedAt: s.now()})
	return true, s.persist(ctx)
}

func (s *Store) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index(id) >= 0
}

// Remove drops id; removing an absent id is a no-op and writes nothing.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.items = slices.Delete(s.items, i, i+1)
	return s.persist(ctx)
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.persist(ctx)
}

// List returns the favorites in insertion order.
func (s *Store) List() []models.Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.items, func(f models.Favorite) bool { return f.ID == id })
}

// persist runs under mu.
func (s *Store) persist(ctx context.Context) error {
	if !s.loaded {
		return nil
	}

	items := s.items
	if items == nil {
		items = []models.Favorite{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := s.storage.Set(ctx, common.FavoritesKey, string(raw)); err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	return nil
}

// dedupe keeps the first occurrence of every id.
func dedupe(items []models.Favorite) []models.Favorite {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, f := range items {
		if _, ok := seen[f.ID]; ok {
			continue
		}
		seen[f.ID] = struct{}{}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
