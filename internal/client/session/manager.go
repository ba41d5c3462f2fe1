// Package session owns the client's authentication state: who is logged in,
// whether the initial session load is still running, and the transitions
// between those states (load, login, logout, token removal by another
// process). Observers such as route guards subscribe to state changes.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/areaportal/internal/client/models"
	"github.com/dmitrijs2005/areaportal/internal/client/navigation"
	"github.com/dmitrijs2005/areaportal/internal/client/services"
	"github.com/dmitrijs2005/areaportal/internal/client/tokenstore"
	"github.com/dmitrijs2005/areaportal/internal/common"
	"github.com/dmitrijs2005/areaportal/internal/logging"
	"github.com/google/uuid"
)

var (
	// ErrClosed is returned by Login after Close.
	ErrClosed = errors.New("session manager is closed")
	// ErrSuperseded is returned by Login when a logout or another login
	// finished first.
	ErrSuperseded = errors.New("session changed while signing in")
)

// TokenStore is the persistence the manager needs. *tokenstore.Store
// implements it.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	TokenExpired(token string) bool
	SaveSession(ctx context.Context, token string, user *models.User) error
	ClearSession(ctx context.Context) error
	Subscribe(fn func(tokenstore.Event)) func()
}

// Paths are the pages the manager navigates to.
type Paths struct {
	Home  string
	Login string
}

type Manager struct {
	auth  services.AuthService
	store TokenStore
	nav   navigation.Navigator
	log   logging.Logger
	paths Paths

	// origin tags the manager's own storage writes so its storage listener
	// can skip them.
	origin string

	// mu covers the in-memory state and the token/user persistence done by
	// the manager, so readers never see one without the other.
	mu      sync.Mutex
	user    *models.User
	loading bool
	reqID   uint64
	closed  bool

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int

	unsubscribeStore func()
	closeOnce        sync.Once
}

// New builds a manager in the initial state: loading, nobody logged in. Call
// LoadSession to resolve it.
func New(auth services.AuthService, store TokenStore, nav navigation.Navigator, log logging.Logger, paths Paths) *Manager {
	if log == nil {
		log = logging.Nop()
	}
	if paths.Home == "" {
		paths.Home = "/"
	}
	if paths.Login == "" {
		paths.Login = "/login"
	}

	m := &Manager{
		auth:    auth,
		store:   store,
		nav:     nav,
		log:     log,
		paths:   paths,
		origin:  "session-" + uuid.NewString(),
		loading: true,
		subs:    make(map[int]func()),
	}
	m.unsubscribeStore = store.Subscribe(m.onStorageEvent)
	return m
}

func (m *Manager) own(ctx context.Context) context.Context {
	return tokenstore.WithOrigin(ctx, m.origin)
}

// LoadSession resolves the stored token into a user. It never fails: any
// problem ends in the logged-out state. Results of a load that was
// overtaken by a newer load, a login or a logout are dropped.
func (m *Manager) LoadSession(ctx context.Context) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.reqID++
	id := m.reqID

	token, ok, err := m.store.Get(ctx, common.TokenKey)
	if err != nil {
		m.log.Error(ctx, "failed to read session token", "error", err)
	}
	if err != nil || !ok || token == "" {
		m.user = nil
		m.loading = false
		m.mu.Unlock()
		m.notify()
		return
	}

	if m.store.TokenExpired(token) {
		m.log.Info(ctx, "stored token expired, clearing session")
		if err := m.store.ClearSession(m.own(ctx)); err != nil {
			m.log.Error(ctx, "failed to clear expired session", "error", err)
		}
		m.user = nil
		m.loading = false
		m.mu.Unlock()
		m.notify()
		return
	}

	m.loading = true
	m.mu.Unlock()
	m.notify()

	user, err := m.auth.FetchCurrentUser(ctx, token)
	if err == nil && user == nil {
		err = fmt.Errorf("%w: no current user", common.ErrMalformedResponse)
	}
	if err != nil {
		m.failLoad(ctx, id, token, err)
		return
	}

	m.mu.Lock()
	if m.stale(id) {
		m.mu.Unlock()
		m.log.Debug(ctx, "discarding stale session load", "request", id)
		return
	}
	m.user = user.Clone()
	m.loading = false
	if err := m.store.SaveSession(m.own(ctx), token, user); err != nil {
		m.log.Warn(ctx, "failed to refresh cached user", "error", err)
	}
	m.mu.Unlock()

	m.log.Info(ctx, "session loaded", "user", user.Email, "role", user.Role.String())
	m.notify()
}

// failLoad revokes the token that failed, not whatever is stored by the time
// the call goes out: a login may have replaced it meanwhile.
func (m *Manager) failLoad(ctx context.Context, id uint64, token string, cause error) {
	m.mu.Lock()
	stale := m.stale(id)
	m.mu.Unlock()
	if stale {
		m.log.Debug(ctx, "discarding stale session load failure", "request", id)
		return
	}

	m.log.Warn(ctx, "session load failed, logging out", "error", cause)
	if err := m.auth.RevokeToken(ctx, token); err != nil {
		m.log.Debug(ctx, "remote logout after failed load", "error", err)
	}

	m.mu.Lock()
	if m.stale(id) {
		m.mu.Unlock()
		return
	}
	if err := m.store.ClearSession(m.own(ctx)); err != nil {
		m.log.Error(ctx, "failed to clear session", "error", err)
	}
	m.user = nil
	m.loading = false
	m.mu.Unlock()
	m.notify()
}

// stale must be called with mu held.
func (m *Manager) stale(id uint64) bool {
	return m.closed || id != m.reqID
}

// RefreshUser reloads the user behind the current token.
func (m *Manager) RefreshUser(ctx context.Context) {
	m.LoadSession(ctx)
}

// Login authenticates, persists the token with the user and navigates home.
// The returned error is display-ready.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	m.reqID++
	id := m.reqID
	m.mu.Unlock()

	token, user, err := m.auth.Login(ctx, email, password)

	m.mu.Lock()
	if m.stale(id) {
		m.mu.Unlock()
		return nil, ErrSuperseded
	}
	if err == nil && user == nil {
		err = fmt.Errorf("%w: login returned no user", common.ErrMalformedResponse)
	}
	if err == nil {
		err = m.store.SaveSession(m.own(ctx), token, user)
	}
	if err != nil {
		if cerr := m.store.ClearSession(m.own(ctx)); cerr != nil {
			m.log.Error(ctx, "failed to clear session", "error", cerr)
		}
		m.user = nil
		m.loading = false
		m.mu.Unlock()
		m.notify()

		m.log.Info(ctx, "login failed", "email", email, "error", err)
		return nil, displayError(err)
	}
	m.user = user.Clone()
	m.loading = false
	m.mu.Unlock()
	m.notify()

	m.log.Info(ctx, "logged in", "user", user.Email, "role", user.Role.String())
	m.nav.Navigate(m.paths.Home)
	return user.Clone(), nil
}

// Logout tells the server (best effort), then always clears the local
// session and navigates to the login page. Only a local storage failure is
// returned.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.reqID++
	m.mu.Unlock()

	if err := m.auth.Logout(ctx); err != nil {
		m.log.Warn(ctx, "remote logout failed", "error", err)
	}

	m.mu.Lock()
	m.reqID++
	err := m.store.ClearSession(m.own(ctx))
	m.user = nil
	m.loading = false
	m.mu.Unlock()
	m.notify()

	m.nav.Navigate(m.paths.Login)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// onStorageEvent drops the user when the token is removed or replaced
// through anyone but this manager. Polling can merge a logout and a login
// elsewhere into one change, so a replaced token counts as a removal. A
// token written where there was none does not log this process in.
func (m *Manager) onStorageEvent(e tokenstore.Event) {
	if e.Key != common.TokenKey || e.Origin == m.origin {
		return
	}
	if !e.Deleted && (e.Old == "" || e.Old == e.New) {
		return
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	changed := m.user != nil || m.loading
	m.reqID++
	m.user = nil
	m.loading = false
	m.mu.Unlock()

	m.log.Info(context.Background(), "session token removed", "external", e.External, "replaced", !e.Deleted)
	if changed {
		m.notify()
	}
}

// Snapshot reads user, loading and authenticated together. Authenticated is
// computed now: a user is known and a live token is stored.
func (m *Manager) Snapshot(ctx context.Context) models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := models.Session{User: m.user.Clone(), Loading: m.loading}
	if s.User != nil {
		token, ok, err := m.store.Get(ctx, common.TokenKey)
		s.Authenticated = err == nil && ok && token != "" && !m.store.TokenExpired(token)
	}
	return s
}

func (m *Manager) User() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user.Clone()
}

func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

func (m *Manager) Authenticated(ctx context.Context) bool {
	return m.Snapshot(ctx).Authenticated
}

// Subscribe registers fn to run after every state change. Callbacks run
// outside the manager's locks and may read the manager.
func (m *Manager) Subscribe(fn func()) func() {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subMu.Lock()
			delete(m.subs, id)
			m.subMu.Unlock()
		})
	}
}

func (m *Manager) notify() {
	m.subMu.Lock()
	fns := make([]func(), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Close detaches the manager from storage and drops late results of any
// request still in flight. It is safe to call more than once.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		m.closed = true
		m.reqID++
		m.mu.Unlock()

		m.unsubscribeStore()

		m.subMu.Lock()
		m.subs = make(map[int]func())
		m.subMu.Unlock()
	})
}

// displayError keeps a server-supplied message and replaces anything else
// with the generic text for its class. The cause stays reachable through
// errors.Is.
func displayError(err error) error {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return &common.APIError{Status: apiErr.Status, Message: apiErr.Message, Err: err}
	}
	return &common.APIError{Message: common.UserMessage(err), Err: err}
}
