// Package registry provides a thread-safe generic registry for process-wide singletons
// such as Mongo collections, databases and notification senders.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"delivery_marketplace/internal/common"
)

// Registry maps names to items of type T.
//
// Example:
//
//	cols := NewRegistry[*mongo.Collection]()
//	_, _ = cols.Register("order_flows", db.Collection("order_flows"))
//	if col, ok := cols.Get("order_flows"); ok {
//	    ...
//	}
type Registry[T any] struct {
	items map[string]T
	mu    sync.RWMutex
}

// NewRegistry returns an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		items: make(map[string]T),
	}
}

// Register stores item under name, overwriting any previous value.
// isNew is false when an existing item was replaced.
func (r *Registry[T]) Register(name string, item T) (isNew bool, err error) {
	if name == "" {
		return false, fmt.Errorf("name cannot be empty: %w", common.ErrRequiredField)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.items[name]
	r.items[name] = item
	return !exists, nil
}

// Get returns the item and whether it exists.
func (r *Registry[T]) Get(name string) (item T, exists bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, exists = r.items[name]
	return item, exists
}

// MustGet returns the item or panics. Only for wiring at startup.
func (r *Registry[T]) MustGet(name string) T {
	item, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("registry: %q is not registered", name))
	}
	return item
}

// GetOrCreate returns the existing item or stores the one built by creator.
func (r *Registry[T]) GetOrCreate(name string, creator func() (T, error)) (item T, err error) {
	if name == "" {
		return item, fmt.Errorf("name cannot be empty: %w", common.ErrRequiredField)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[name]; ok {
		return existing, nil
	}

	newItem, err := creator()
	if err != nil {
		return item, fmt.Errorf("failed to create item: %w", err)
	}
	r.items[name] = newItem
	return newItem, nil
}

// Names returns the registered names in sorted order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.items))
	for k := range r.items {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Clear removes name, calling cleanup first when given.
func (r *Registry[T]) Clear(name string, cleanup func(T) error) (deleted bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.items[name]
	if !exists {
		return false, nil
	}
	if cleanup != nil {
		if err := cleanup(item); err != nil {
			return false, fmt.Errorf("cleanup %s: %w", name, err)
		}
	}
	delete(r.items, name)
	return true, nil
}

// ClearAll removes every item. The first cleanup error stops the sweep.
func (r *Registry[T]) ClearAll(cleanup func(T) error) (count int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, item := range r.items {
		if cleanup != nil {
			if err := cleanup(item); err != nil {
				return count, fmt.Errorf("cleanup %s: %w", name, err)
			}
		}
		delete(r.items, name)
		count++
	}
	return count, nil
}
