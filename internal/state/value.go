// Package state holds published values that session consumers observe.
package state

import "sync"

// Value is a concurrency-safe value with change subscribers.
// The zero value holds the zero T and has no subscribers.
type Value[T any] struct {
	mu          sync.Mutex
	value       T
	version     uint64
	nextID      uint64
	subscribers map[uint64]func(T)
}

// NewValue creates a Value holding initial
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{value: initial}
}

// Get returns the current value
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

// Version returns how many times Set was called
func (v *Value[T]) Version() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.version
}

// Set stores val and notifies subscribers outside the lock
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	v.value = val
	v.version++
	subs := make([]func(T), 0, len(v.subscribers))
	for _, fn := range v.subscribers {
		subs = append(subs, fn)
	}
	v.mu.Unlock()

	for _, fn := range subs {
		fn(val)
	}
}

// Subscribe registers fn for future Set calls and returns a func that removes it
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.subscribers == nil {
		v.subscribers = make(map[uint64]func(T))
	}
	id := v.nextID
	v.nextID++
	v.subscribers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subscribers, id)
			v.mu.Unlock()
		})
	}
}
