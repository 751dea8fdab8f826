package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is an in-process Cache with a background sweep of expired items.
type MemoryCache struct {
	items    map[string]memoryItem
	mu       sync.RWMutex
	stopChan chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewMemoryCache starts a sweep every cleanup interval.
func NewMemoryCache(cleanup time.Duration) *MemoryCache {
	c := &MemoryCache{
		items:    make(map[string]memoryItem),
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
	if cleanup > 0 {
		go c.cleanupLoop(cleanup)
	}
	return c
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || (!item.expiresAt.IsZero() && c.now().After(item.expiresAt)) {
		return false, nil
	}
	if err := json.Unmarshal(item.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set implements Cache. A ttl <= 0 never expires.
func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	item := memoryItem{data: data}
	if ttl > 0 {
		item.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = item
	c.mu.Unlock()
	return nil
}

// Delete implements Cache.
func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

// DeletePrefix implements Cache.
func (c *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
	return nil
}

// Close stops the sweep goroutine.
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stopChan) })
	return nil
}

func (c *MemoryCache) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := c.now()
			c.mu.Lock()
			for k, item := range c.items {
				if !item.expiresAt.IsZero() && now.After(item.expiresAt) {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		case <-c.stopChan:
			return
		}
	}
}
