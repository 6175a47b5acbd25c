package session

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// WriterNotifier prints the notice to w, typically stderr of the CLI.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Notify(_ context.Context, title, message string) error {
	_, err := fmt.Fprintf(n.W, "\n*** %s ***\n%s\n\n", title, message)
	return err
}

// RouteTracker is a Navigator that remembers the current route and the
// history of replacements.
type RouteTracker struct {
	mu      sync.Mutex
	current string
	history []string
}

func NewRouteTracker(initial string) *RouteTracker {
	return &RouteTracker{current: initial}
}

func (t *RouteTracker) Replace(_ context.Context, route string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = route
	t.history = append(t.history, route)
	return nil
}

// Push records a normal navigation.
func (t *RouteTracker) Push(route string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = route
}

func (t *RouteTracker) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

func (t *RouteTracker) Replacements() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.history...)
}
