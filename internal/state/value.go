package state

import (
	"context"
	"sync"
)

// Value is a single persisted value of type T.
type Value[T any] struct {
	mu     sync.Mutex
	key    string
	value  T
	mirror *Mirror
}

// LoadValue restores key, falling back to def when absent or malformed.
func LoadValue[T any](ctx context.Context, m *Mirror, key string, def T) (*Value[T], error) {
	var v T
	ok, err := m.load(ctx, key, &v)
	if err != nil {
		return nil, err
	}
	if !ok {
		v = def
	}
	return &Value[T]{key: key, value: v, mirror: m}, nil
}

func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

// Set commits next in memory and mirrors it.
func (v *Value[T]) Set(ctx context.Context, next T) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.value = next
	return v.mirror.save(ctx, v.key, v.value)
}

// Flush rewrites the blob from memory.
func (v *Value[T]) Flush(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mirror.save(ctx, v.key, v.value)
}
