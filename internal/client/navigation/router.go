// Package navigation tracks which page of the client is current. It is the
// target of the "navigate" side effects of login, logout and route guards.
package navigation

import "sync"

const defaultHistoryLimit = 50

// Navigator moves the client to another page.
type Navigator interface {
	Navigate(path string)
}

// Router keeps the current path and a bounded history of earlier ones.
type Router struct {
	mu      sync.Mutex
	current string
	history []string
	limit   int

	listeners map[int]func(from, to string)
	nextID    int
}

// NewRouter starts at initial. limit <= 0 means the default history size.
func NewRouter(initial string, limit int) *Router {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return &Router{current: initial, limit: limit, listeners: make(map[int]func(from, to string))}
}

// Navigate switches to path. Navigating to the current path is a no-op.
func (r *Router) Navigate(path string) {
	r.mu.Lock()
	if path == r.current {
		r.mu.Unlock()
		return
	}
	from := r.current
	r.history = append(r.history, from)
	if len(r.history) > r.limit {
		r.history = r.history[len(r.history)-r.limit:]
	}
	r.current = path
	fns := r.snapshotListeners()
	r.mu.Unlock()

	for _, fn := range fns {
		fn(from, path)
	}
}

// Back returns to the previous path, if any.
func (r *Router) Back() bool {
	r.mu.Lock()
	if len(r.history) == 0 {
		r.mu.Unlock()
		return false
	}
	from := r.current
	r.current = r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	to := r.current
	fns := r.snapshotListeners()
	r.mu.Unlock()

	for _, fn := range fns {
		fn(from, to)
	}
	return true
}

func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

// OnChange registers fn for every path change and returns a func removing it.
func (r *Router) OnChange(fn func(from, to string)) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

func (r *Router) snapshotListeners() []func(from, to string) {
	fns := make([]func(from, to string), 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	return fns
}
