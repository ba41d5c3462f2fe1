package guard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/areaportal/internal/client/models"
	"github.com/dmitrijs2005/areaportal/internal/client/navigation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession is a settable models.Session with change notification.
type fakeSession struct {
	mu   sync.Mutex
	s    models.Session
	subs map[int]func()
	next int
}

func newFakeSession(s models.Session) *fakeSession {
	return &fakeSession{s: s, subs: make(map[int]func())}
}

func (f *fakeSession) Snapshot(context.Context) models.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.s
}

func (f *fakeSession) Subscribe(fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	f.subs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

func (f *fakeSession) set(s models.Session) {
	f.mu.Lock()
	f.s = s
	fns := make([]func(), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (f *fakeSession) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

type navRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (n *navRecorder) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *navRecorder) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

var _ navigation.Navigator = (*navRecorder)(nil)

func authed(role models.Role) models.Session {
	return models.Session{User: &models.User{ID: "1", Role: role}, Authenticated: true}
}

func TestDecide(t *testing.T) {
	admin := models.RoleAdmin

	tests := []struct {
		name string
		s    models.Session
		o    Options
		want Decision
	}{
		{"loading", models.Session{Loading: true}, Options{}, Decision{State: Pending}},
		{"loading with user", models.Session{Loading: true, User: &models.User{}, Authenticated: true}, Options{}, Decision{State: Pending}},
		{"anonymous", models.Session{}, Options{}, Decision{State: Denied, Redirect: "/login"}},
		{"user without token", models.Session{User: &models.User{Role: models.RoleAdmin}}, Options{}, Decision{State: Denied, Redirect: "/login"}},
		{"any authenticated", authed(models.RoleViewer), Options{}, Decision{State: Granted}},
		{"role matches", authed(models.RoleAdmin), Options{RequiredRole: &admin}, Decision{State: Granted}},
		{"role mismatch", authed(models.RoleUser), Options{RequiredRole: &admin}, Decision{State: Denied, Redirect: "/unauthorized"}},
		{"unknown role", authed(models.RoleUnknown), RequireRole(models.RoleUnknown), Decision{State: Denied, Redirect: "/unauthorized"}},
		{"permission granted", authed(models.RoleEditor), Options{RequiredPermission: models.PermEditDashboards}, Decision{State: Granted}},
		{"permission missing", authed(models.RoleViewer), Options{RequiredPermission: models.PermManageFavorites}, Decision{State: Denied, Redirect: "/unauthorized"}},
		{"custom paths", models.Session{}, Options{LoginPath: "/signin"}, Decision{State: Denied, Redirect: "/signin"}},
		{"custom unauthorized", authed(models.RoleUser), Options{RequiredRole: &admin, UnauthorizedPath: "/403"}, Decision{State: Denied, Redirect: "/403"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.s, tt.o))
		})
	}
}

func TestGuard_AdminPageForUserRedirectsToUnauthorized(t *testing.T) {
	sess := newFakeSession(authed(models.RoleUser))
	nav := &navRecorder{}
	g := New(sess, nav, RequireRole(models.RoleAdmin))

	d := g.Mount(context.Background())
	defer g.Unmount()

	assert.Equal(t, Denied, d.State)
	assert.Equal(t, []string{"/unauthorized"}, nav.all())
}

func TestGuard_AdminPageForAdmin(t *testing.T) {
	sess := newFakeSession(authed(models.RoleAdmin))
	nav := &navRecorder{}
	g := New(sess, nav, RequireRole(models.RoleAdmin))

	assert.Equal(t, Granted, g.Mount(context.Background()).State)
	assert.Empty(t, nav.all())
}

func TestGuard_PendingThenGranted(t *testing.T) {
	sess := newFakeSession(models.Session{Loading: true})
	nav := &navRecorder{}
	g := New(sess, nav, Options{})
	ctx := context.Background()

	assert.Equal(t, Pending, g.Mount(ctx).State)
	assert.Empty(t, nav.all(), "no redirect while loading")

	done := make(chan Decision, 1)
	go func() {
		d, err := g.Await(ctx)
		assert.NoError(t, err)
		done <- d
	}()

	sess.set(authed(models.RoleUser))

	select {
	case d := <-done:
		assert.Equal(t, Granted, d.State)
	case <-time.After(time.Second):
		t.Fatal("Await did not return")
	}
	assert.Empty(t, nav.all())
}

func TestGuard_RedirectOnEveryTransitionIntoDenied(t *testing.T) {
	sess := newFakeSession(authed(models.RoleUser))
	nav := &navRecorder{}
	g := New(sess, nav, Options{})
	g.Mount(context.Background())
	defer g.Unmount()

	sess.set(models.Session{})
	sess.set(models.Session{})
	sess.set(authed(models.RoleUser))
	sess.set(models.Session{})

	assert.Equal(t, []string{"/login", "/login"}, nav.all())
	assert.Equal(t, Denied, g.State())
}

// eagerSession notifies a new subscriber straight away, as a session change
// racing with Mount would.
type eagerSession struct{ *fakeSession }

func (e eagerSession) Subscribe(fn func()) func() {
	unsubscribe := e.fakeSession.Subscribe(fn)
	fn()
	return unsubscribe
}

func TestGuard_NotificationDuringMountRedirectsOnce(t *testing.T) {
	sess := eagerSession{newFakeSession(models.Session{})}
	nav := &navRecorder{}
	g := New(sess, nav, Options{})

	d := g.Mount(context.Background())

	assert.Equal(t, Denied, d.State)
	assert.Equal(t, []string{DefaultLoginPath}, nav.all())
}

func TestGuard_Unmount(t *testing.T) {
	sess := newFakeSession(authed(models.RoleUser))
	nav := &navRecorder{}
	g := New(sess, nav, Options{})
	g.Mount(context.Background())
	require.Equal(t, 1, sess.subscribers())

	g.Unmount()
	g.Unmount()
	assert.Zero(t, sess.subscribers())

	sess.set(models.Session{})
	assert.Empty(t, nav.all())
}

func TestGuard_AwaitHonoursContext(t *testing.T) {
	sess := newFakeSession(models.Session{Loading: true})
	g := New(sess, &navRecorder{}, Options{})
	g.Mount(context.Background())
	defer g.Unmount()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	d, err := g.Await(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, Pending, d.State)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "denied", Denied.String())
	assert.Equal(t, "granted", Granted.String())
}
