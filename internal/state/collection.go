package state

import (
	"context"
	"sync"
)

// Collection is an ordered list of T with a single owner. Reads return
// copies; writes commit in memory first and are then mirrored whole.
type Collection[T any] struct {
	mu     sync.Mutex
	key    string
	items  []T
	mirror *Mirror
}

// LoadCollection restores key from the mirror, falling back to defaults()
// when the blob is missing or malformed.
func LoadCollection[T any](ctx context.Context, m *Mirror, key string, defaults func() []T) (*Collection[T], error) {
	var items []T
	ok, err := m.load(ctx, key, &items)
	if err != nil {
		return nil, err
	}
	if !ok {
		items = nil
		if defaults != nil {
			items = defaults()
		}
	}
	return &Collection[T]{key: key, items: items, mirror: m}, nil
}

// Key returns the blob key backing the collection.
func (c *Collection[T]) Key() string {
	return c.key
}

// Items returns a snapshot of the collection.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Len returns the number of items.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Find returns the first item matching pred.
func (c *Collection[T]) Find(pred func(T) bool) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Update applies fn to a copy of the items and commits the result. A mirror
// failure is returned but the in-memory commit stands; the next successful
// save rewrites the whole blob.
func (c *Collection[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := fn(append([]T(nil), c.items...))
	if err != nil {
		return err
	}
	c.items = next
	return c.mirror.save(ctx, c.key, c.items)
}

// UpdateInMemory applies fn without mirroring. Used by logout, which drops
// the live cart but leaves the stored blob as it was.
func (c *Collection[T]) UpdateInMemory(fn func([]T) []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = fn(append([]T(nil), c.items...))
}

// Flush rewrites the blob from memory.
func (c *Collection[T]) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mirror.save(ctx, c.key, c.items)
}
