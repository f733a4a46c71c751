package enumerator

import (
	"iter"
	"sync"
)

// Enumerator yields items one at a time until exhausted or closed.
// An Enumerator is not safe for concurrent use by multiple goroutines,
// but Close may be called from any goroutine.
type Enumerator[T any] interface {
	// Next returns the next item, or false once the enumerator is exhausted
	// or closed.
	Next() (T, bool)
	// Close disposes of the enumerator. It is idempotent.
	Close()
}

// State is the lifecycle position of an enumerator
type State int

const (
	Active State = iota
	Exhausted
	Disposed
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Exhausted:
		return "exhausted"
	case Disposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Guard couples a release action (typically a read unlock) to an
// enumerator. Release runs the action exactly once; a nil Guard is inert.
type Guard struct {
	once    sync.Once
	release func()
}

// NewGuard returns a guard that will call release once
func NewGuard(release func()) *Guard {
	return &Guard{release: release}
}

// Release runs the release action if it has not run yet
func (g *Guard) Release() {
	if g == nil {
		return
	}
	g.once.Do(func() {
		if g.release != nil {
			g.release()
		}
	})
}

// cursor walks a slice while its guard is held
type cursor[T any] struct {
	mu    sync.Mutex
	items []T
	pos   int
	state State
	guard *Guard
}

// FromSlice enumerates items in order. The slice must not change while the
// enumerator is active; guard is what keeps writers out.
func FromSlice[T any](items []T, guard *Guard) Enumerator[T] {
	return &cursor[T]{items: items, guard: guard}
}

func (c *cursor[T]) Next() (T, bool) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Active {
		return zero, false
	}
	if c.pos >= len(c.items) {
		c.finish(Exhausted)
		return zero, false
	}
	item := c.items[c.pos]
	c.pos++
	return item, true
}

func (c *cursor[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Active {
		c.finish(Disposed)
	}
}

// finish moves to a terminal state; c.mu must be held
func (c *cursor[T]) finish(s State) {
	c.state = s
	c.items = nil
	c.guard.Release()
}

func (c *cursor[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

type filter[T any] struct {
	base Enumerator[T]
	keep func(T) bool
}

// Filter yields only the items of base for which keep returns true.
// Closing the filter closes base.
func Filter[T any](base Enumerator[T], keep func(T) bool) Enumerator[T] {
	return &filter[T]{base: base, keep: keep}
}

func (f *filter[T]) Next() (T, bool) {
	for {
		item, ok := f.base.Next()
		if !ok {
			return item, false
		}
		if f.keep(item) {
			return item, true
		}
	}
}

func (f *filter[T]) Close() {
	f.base.Close()
}

type empty[T any] struct{}

// Empty returns an enumerator with no items that holds nothing
func Empty[T any]() Enumerator[T] {
	return empty[T]{}
}

func (empty[T]) Next() (T, bool) {
	var zero T
	return zero, false
}

func (empty[T]) Close() {}

// single yields one precomputed item
type single[T any] struct {
	mu      sync.Mutex
	item    T
	state   State
	yielded bool
	guard   *Guard
	dispose func(T)
}

// Single yields v once and then reports exhaustion. The guard is released
// on exhaustion or Close, whichever comes first. dispose, if set, runs on
// Close only, so the item stays valid for a caller that drained the
// enumerator but has not closed it yet.
func Single[T any](v T, guard *Guard, dispose func(T)) Enumerator[T] {
	return &single[T]{item: v, guard: guard, dispose: dispose}
}

func (s *single[T]) Next() (T, bool) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Active {
		return zero, false
	}
	if s.yielded {
		s.state = Exhausted
		s.guard.Release()
		return zero, false
	}
	s.yielded = true
	return s.item, true
}

func (s *single[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Disposed {
		return
	}
	s.state = Disposed
	s.guard.Release()
	if s.dispose != nil {
		s.dispose(s.item)
		s.dispose = nil
	}
}

func (s *single[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// All adapts e to a range-over-func sequence. The enumerator is closed when
// the loop finishes for any reason. A nil e yields nothing.
func All[T any](e Enumerator[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		if e == nil {
			return
		}
		defer e.Close()
		for {
			item, ok := e.Next()
			if !ok || !yield(item) {
				return
			}
		}
	}
}

// Collect drains e into a slice and closes it
func Collect[T any](e Enumerator[T]) []T {
	var out []T
	for item := range All(e) {
		out = append(out, item)
	}
	return out
}
