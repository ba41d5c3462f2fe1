// Package tokenstore is the persistent key/value store for session state:
// the bearer token, the cached user and the favorites list. It is backed by
// the SQLite storage table, so every process pointing at the same database
// file sees the same values. Changes are published to subscribers, and Watch
// turns writes made by other processes into events as well.
package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/areaportal/internal/client/models"
	"github.com/dmitrijs2005/areaportal/internal/client/repositories/storage"
	"github.com/dmitrijs2005/areaportal/internal/common"
	"github.com/dmitrijs2005/areaportal/internal/dbx"
	"github.com/dmitrijs2005/areaportal/internal/logging"
)

// DB is what the store needs from the database: plain queries plus
// transactions. *sql.DB satisfies it.
type DB interface {
	dbx.DBTX
	dbx.Beginner
}

// Event describes a change of one key. Deleted is set when the key was
// removed; External when the write came from another process. Origin is the
// tag the writer put on its context with WithOrigin.
type Event struct {
	Key      string
	Old      string
	New      string
	Deleted  bool
	External bool
	Origin   string
}

type originKey struct{}

// WithOrigin tags writes made with ctx, so a subscriber can recognise its
// own changes.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originKey{}, origin)
}

func originFrom(ctx context.Context) string {
	o, _ := ctx.Value(originKey{}).(string)
	return o
}

type Store struct {
	db      DB
	repo    storage.Repository
	newRepo func(dbx.DBTX) storage.Repository
	log     logging.Logger
	now     func() time.Time

	// mu orders local writes against the watcher's poll, so the watcher
	// never reports a local write as external.
	mu     sync.Mutex
	seen   map[string]string
	seeded bool

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

type Option func(*Store)

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock replaces time.Now for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(db DB, opts ...Option) *Store {
	s := &Store{
		db:      db,
		newRepo: func(q dbx.DBTX) storage.Repository { return storage.NewSQLiteRepository(q) },
		log:     logging.Nop(),
		now:     time.Now,
		seen:    make(map[string]string),
		subs:    make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.repo = s.newRepo(db)
	return s
}

// Get returns the value under key and whether it exists.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	b, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", false, err
	}
	if b == nil {
		return "", false, nil
	}
	return string(b), true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	ev, err := s.write(ctx, func(ctx context.Context, repo storage.Repository) ([]Event, error) {
		e, err := s.setKey(ctx, repo, key, value)
		if err != nil {
			return nil, err
		}
		return []Event{e}, nil
	})
	if err != nil {
		return err
	}
	s.publish(ev)
	return nil
}

// Clear removes key. Clearing a missing key is not an error and publishes
// nothing.
func (s *Store) Clear(ctx context.Context, key string) error {
	ev, err := s.write(ctx, func(ctx context.Context, repo storage.Repository) ([]Event, error) {
		e, ok, err := s.deleteKey(ctx, repo, key)
		if err != nil || !ok {
			return nil, err
		}
		return []Event{e}, nil
	})
	if err != nil {
		return err
	}
	s.publish(ev)
	return nil
}

// Token returns the current bearer token, or "" when there is none or the
// stored one is an expired JWT. It makes the store a client.TokenSource.
func (s *Store) Token(ctx context.Context) (string, error) {
	t, ok, err := s.Get(ctx, common.TokenKey)
	if err != nil || !ok {
		return "", err
	}
	if Expired(t, s.now()) {
		return "", nil
	}
	return t, nil
}

// TokenExpired reports whether token is a JWT past its exp claim.
func (s *Store) TokenExpired(token string) bool {
	return Expired(token, s.now())
}

// SaveSession stores the token and the cached user in one transaction.
func (s *Store) SaveSession(ctx context.Context, token string, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode cached user: %w", err)
	}

	evs, err := s.writeTx(ctx, func(ctx context.Context, repo storage.Repository) ([]Event, error) {
		te, err := s.setKey(ctx, repo, common.TokenKey, token)
		if err != nil {
			return nil, err
		}
		ue, err := s.setKey(ctx, repo, common.UserKey, string(raw))
		if err != nil {
			return nil, err
		}
		return []Event{te, ue}, nil
	})
	if err != nil {
		return err
	}
	s.publish(evs)
	return nil
}

// ClearSession removes the token and the cached user in one transaction.
func (s *Store) ClearSession(ctx context.Context) error {
	evs, err := s.writeTx(ctx, func(ctx context.Context, repo storage.Repository) ([]Event, error) {
		var out []Event
		for _, key := range []string{common.TokenKey, common.UserKey} {
			e, ok, err := s.deleteKey(ctx, repo, key)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, e)
			}
		}
		return out, nil
	})
	if err != nil {
		return err
	}
	s.publish(evs)
	return nil
}

// CachedUser returns the last user saved with SaveSession, or nil.
func (s *Store) CachedUser(ctx context.Context) (*models.User, error) {
	raw, ok, err := s.Get(ctx, common.UserKey)
	if err != nil || !ok {
		return nil, err
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode cached user: %w", err)
	}
	return &u, nil
}

// Subscribe registers fn for every change event. Callbacks run on the
// writer's goroutine, outside the store's locks. The returned func
// unsubscribes and may be called more than once.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) publish(evs []Event) {
	if len(evs) == 0 {
		return
	}

	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, e := range evs {
		for _, fn := range fns {
			fn(e)
		}
	}
}

func (s *Store) write(ctx context.Context, fn func(context.Context, storage.Repository) ([]Event, error)) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, s.repo)
}

func (s *Store) writeTx(ctx context.Context, fn func(context.Context, storage.Repository) ([]Event, error)) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// seen is only updated once the transaction commits
	snapshot := make(map[string]string, len(s.seen))
	for k, v := range s.seen {
		snapshot[k] = v
	}

	var evs []Event
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		evs, err = fn(ctx, s.newRepo(tx))
		return err
	})
	if err != nil {
		s.seen = snapshot
		return nil, err
	}
	return evs, nil
}

// setKey and deleteKey run under mu.
func (s *Store) setKey(ctx context.Context, repo storage.Repository, key, value string) (Event, error) {
	old, err := repo.Get(ctx, key)
	if err != nil {
		return Event{}, err
	}
	if err := repo.Set(ctx, key, []byte(value)); err != nil {
		return Event{}, err
	}
	s.seen[key] = value
	return Event{Key: key, Old: string(old), New: value, Origin: originFrom(ctx)}, nil
}

func (s *Store) deleteKey(ctx context.Context, repo storage.Repository, key string) (Event, bool, error) {
	old, err := repo.Get(ctx, key)
	if err != nil {
		return Event{}, false, err
	}
	if old == nil {
		delete(s.seen, key)
		return Event{}, false, nil
	}
	if err := repo.Delete(ctx, key); err != nil {
		return Event{}, false, err
	}
	delete(s.seen, key)
	return Event{Key: key, Old: string(old), Deleted: true, Origin: originFrom(ctx)}, true, nil
}
