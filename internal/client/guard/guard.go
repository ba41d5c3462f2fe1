// Package guard decides whether a page may be shown for the current
// session. A Guard waits while the session is loading, then either grants
// access or sends the user to the login or unauthorized page.
package guard

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/areaportal/internal/client/models"
	"github.com/dmitrijs2005/areaportal/internal/client/navigation"
)

const (
	DefaultLoginPath        = "/login"
	DefaultUnauthorizedPath = "/unauthorized"
)

type State int

const (
	Pending State = iota
	Denied
	Granted
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Denied:
		return "denied"
	case Granted:
		return "granted"
	}
	return "unknown"
}

// Options configure a Guard. The zero value lets any authenticated user in.
type Options struct {
	RequiredRole       *models.Role
	RequiredPermission models.Permission
	LoginPath          string
	UnauthorizedPath   string
}

// RequireRole is shorthand for Options with only RequiredRole set.
func RequireRole(r models.Role) Options {
	return Options{RequiredRole: &r}
}

func (o Options) withDefaults() Options {
	if o.LoginPath == "" {
		o.LoginPath = DefaultLoginPath
	}
	if o.UnauthorizedPath == "" {
		o.UnauthorizedPath = DefaultUnauthorizedPath
	}
	return o
}

// Decision is the outcome of evaluating a session against Options. Redirect
// is set only for Denied.
type Decision struct {
	State    State
	Redirect string
}

// Decide evaluates s against o. It has no side effects.
func Decide(s models.Session, o Options) Decision {
	o = o.withDefaults()

	if s.Loading {
		return Decision{State: Pending}
	}
	if !s.Authenticated || s.User == nil {
		return Decision{State: Denied, Redirect: o.LoginPath}
	}
	if o.RequiredRole != nil && !s.User.Role.Satisfies(*o.RequiredRole) {
		return Decision{State: Denied, Redirect: o.UnauthorizedPath}
	}
	if o.RequiredPermission != "" && !s.User.Can(o.RequiredPermission) {
		return Decision{State: Denied, Redirect: o.UnauthorizedPath}
	}
	return Decision{State: Granted}
}

// Session is what a Guard reads. *session.Manager implements it.
type Session interface {
	Snapshot(ctx context.Context) models.Session
	Subscribe(fn func()) func()
}

// Guard tracks the access decision for one mounted page.
type Guard struct {
	session Session
	nav     navigation.Navigator
	opts    Options

	// evalMu keeps snapshot-and-apply atomic across concurrent notifications.
	evalMu sync.Mutex

	mu          sync.Mutex
	decision    Decision
	evaluated   bool
	mounted     bool
	unsubscribe func()
	changed     chan struct{}
}

func New(session Session, nav navigation.Navigator, opts Options) *Guard {
	return &Guard{
		session: session,
		nav:     nav,
		opts:    opts.withDefaults(),
		changed: make(chan struct{}),
	}
}

// Mount evaluates the session and keeps re-evaluating it on every change
// until Unmount. Mounting twice is a no-op.
func (g *Guard) Mount(ctx context.Context) Decision {
	g.mu.Lock()
	if g.mounted {
		d := g.decision
		g.mu.Unlock()
		return d
	}
	g.mounted = true
	g.mu.Unlock()

	unsubscribe := g.session.Subscribe(func() { g.evaluate(ctx) })

	g.mu.Lock()
	g.unsubscribe = unsubscribe
	g.mu.Unlock()

	return g.evaluate(ctx)
}

// evaluate applies a fresh decision. A redirect is issued on every
// transition into Denied, and on the first evaluation when it is Denied. A
// notification that lands before Mount's own evaluation counts as the first
// one.
func (g *Guard) evaluate(ctx context.Context) Decision {
	g.evalMu.Lock()
	d := Decide(g.session.Snapshot(ctx), g.opts)

	g.mu.Lock()
	if !g.mounted {
		g.mu.Unlock()
		g.evalMu.Unlock()
		return d
	}
	prev, first := g.decision, !g.evaluated
	g.decision = d
	g.evaluated = true
	redirect := d.State == Denied && (first || prev.State != Denied || prev.Redirect != d.Redirect)
	if first || prev != d {
		close(g.changed)
		g.changed = make(chan struct{})
	}
	g.mu.Unlock()
	g.evalMu.Unlock()

	if redirect {
		g.nav.Navigate(d.Redirect)
	}
	return d
}

// Decision returns the latest decision.
func (g *Guard) Decision() Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.decision
}

func (g *Guard) State() State {
	return g.Decision().State
}

// Await blocks until the decision is no longer Pending or ctx is done.
func (g *Guard) Await(ctx context.Context) (Decision, error) {
	for {
		g.mu.Lock()
		d, ch := g.decision, g.changed
		mounted := g.mounted
		g.mu.Unlock()

		if mounted && d.State != Pending {
			return d, nil
		}
		select {
		case <-ctx.Done():
			return d, ctx.Err()
		case <-ch:
		}
	}
}

// Unmount stops watching the session. Safe to call more than once.
func (g *Guard) Unmount() {
	g.mu.Lock()
	unsubscribe := g.unsubscribe
	g.unsubscribe = nil
	g.mounted = false
	g.evaluated = false
	g.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}
