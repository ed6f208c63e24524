package uistate

import (
	"context"
	"sync"
)

// Observable is the read-only view of a Container handed to the display layer.
type Observable[T any] interface {
	Value() State[T]
	Subscribe(ctx context.Context) <-chan State[T]
}

// Container holds the current State of one feed. Writers call Set; readers
// observe through Value or Subscribe. Subscribers get the latest value only:
// a slow reader skips intermediate states and never blocks Set.
type Container[T any] struct {
	mu    sync.RWMutex
	value State[T]
	subs  map[chan State[T]]struct{}
}

var _ Observable[int] = (*Container[int])(nil)

// NewContainer returns a container initialised to Loading.
func NewContainer[T any]() *Container[T] {
	return &Container[T]{
		value: Loading[T](),
		subs:  make(map[chan State[T]]struct{}),
	}
}

// Value returns the current state.
func (c *Container[T]) Value() State[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set replaces the current state and notifies subscribers.
func (c *Container[T]) Set(s State[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = s
	for ch := range c.subs {
		offer(ch, s)
	}
}

// Subscribe streams the current state followed by every change until ctx ends,
// after which the channel is closed.
func (c *Container[T]) Subscribe(ctx context.Context) <-chan State[T] {
	ch := make(chan State[T], 1)

	c.mu.Lock()
	ch <- c.value
	c.subs[ch] = struct{}{}
	c.mu.Unlock()

	go func() {
		<-ctx.Done()
		c.mu.Lock()
		delete(c.subs, ch)
		close(ch)
		c.mu.Unlock()
	}()
	return ch
}

// offer replaces any undelivered value in ch with s. Callers hold c.mu, so no
// other sender races with it.
func offer[T any](ch chan State[T], s State[T]) {
	select {
	case ch <- s:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- s
}
