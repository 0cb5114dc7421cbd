package cache

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const defaultTTL = 30 * time.Minute

// MemoryCache implements an in-memory cache bounded by total byte size
type MemoryCache struct {
	mu          sync.RWMutex
	items       map[string]*cacheItem
	maxBytes    int64
	currentSize int64
	stats       CacheStats
	now         func() time.Time
	stopCh      chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

type cacheItem struct {
	value    []byte
	expiry   time.Time
	size     int64
	storedAt time.Time
}

// NewMemoryCache creates a new in-memory cache; maxSizeMB <= 0 means unbounded
func NewMemoryCache(maxSizeMB int64) *MemoryCache {
	return NewMemoryCacheWithInterval(maxSizeMB, time.Minute)
}

// NewMemoryCacheWithInterval creates a cache that sweeps expired items every interval
func NewMemoryCacheWithInterval(maxSizeMB int64, interval time.Duration) *MemoryCache {
	mc := &MemoryCache{
		items:    make(map[string]*cacheItem),
		maxBytes: maxSizeMB * 1024 * 1024,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}

	mc.wg.Add(1)
	go mc.cleanupExpired(interval)

	return mc
}

// Get retrieves a value from the cache
func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	mc.mu.RLock()
	item, exists := mc.items[key]
	mc.mu.RUnlock()

	if !exists {
		atomic.AddInt64(&mc.stats.Misses, 1)
		return nil, false
	}

	if !mc.now().Before(item.expiry) {
		mc.deleteIfSame(key, item)
		atomic.AddInt64(&mc.stats.Misses, 1)
		return nil, false
	}

	atomic.AddInt64(&mc.stats.Hits, 1)
	return item.value, true
}

// Set stores a value in the cache with a TTL
func (mc *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	now := mc.now()
	item := &cacheItem{
		value:    value,
		expiry:   now.Add(ttl),
		size:     int64(len(key) + len(value)),
		storedAt: now,
	}

	mc.mu.Lock()
	if old, exists := mc.items[key]; exists {
		delete(mc.items, key)
		mc.currentSize -= old.size
	}
	mc.makeRoomLocked(item.size)
	mc.items[key] = item
	mc.currentSize += item.size
	mc.mu.Unlock()

	atomic.AddInt64(&mc.stats.Sets, 1)
	return nil
}

// Delete removes a value from the cache
func (mc *MemoryCache) Delete(ctx context.Context, key string) error {
	mc.mu.Lock()
	if item, exists := mc.items[key]; exists {
		delete(mc.items, key)
		mc.currentSize -= item.size
		atomic.AddInt64(&mc.stats.Deletes, 1)
	}
	mc.mu.Unlock()
	return nil
}

// Keys lists live keys starting with prefix in sorted order
func (mc *MemoryCache) Keys(ctx context.Context, prefix string) []string {
	now := mc.now()
	mc.mu.RLock()
	keys := make([]string, 0, len(mc.items))
	for key, item := range mc.items {
		if strings.HasPrefix(key, prefix) && now.Before(item.expiry) {
			keys = append(keys, key)
		}
	}
	mc.mu.RUnlock()

	sort.Strings(keys)
	return keys
}

// Stats returns cache statistics
func (mc *MemoryCache) Stats() CacheStats {
	mc.mu.RLock()
	size := mc.currentSize
	entries := int64(len(mc.items))
	mc.mu.RUnlock()

	return CacheStats{
		Hits:      atomic.LoadInt64(&mc.stats.Hits),
		Misses:    atomic.LoadInt64(&mc.stats.Misses),
		Sets:      atomic.LoadInt64(&mc.stats.Sets),
		Deletes:   atomic.LoadInt64(&mc.stats.Deletes),
		Evictions: atomic.LoadInt64(&mc.stats.Evictions),
		Entries:   entries,
		Size:      size,
		MaxSize:   mc.maxBytes,
	}
}

// Stop shuts down the cleanup goroutine; safe to call more than once
func (mc *MemoryCache) Stop() {
	mc.stopOnce.Do(func() { close(mc.stopCh) })
	mc.wg.Wait()
}

func (mc *MemoryCache) cleanupExpired(interval time.Duration) {
	defer mc.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mc.mu.Lock()
			mc.removeExpiredLocked()
			mc.mu.Unlock()
		case <-mc.stopCh:
			return
		}
	}
}

// deleteIfSame drops key only if it still maps to item
func (mc *MemoryCache) deleteIfSame(key string, item *cacheItem) {
	mc.mu.Lock()
	if current, ok := mc.items[key]; ok && current == item {
		delete(mc.items, key)
		mc.currentSize -= item.size
		atomic.AddInt64(&mc.stats.Evictions, 1)
	}
	mc.mu.Unlock()
}

func (mc *MemoryCache) removeExpiredLocked() {
	now := mc.now()
	for key, item := range mc.items {
		if !now.Before(item.expiry) {
			delete(mc.items, key)
			mc.currentSize -= item.size
			atomic.AddInt64(&mc.stats.Evictions, 1)
		}
	}
}

// makeRoomLocked evicts expired items, then the oldest ones, until sizeNeeded fits
func (mc *MemoryCache) makeRoomLocked(sizeNeeded int64) {
	if mc.maxBytes <= 0 || mc.currentSize+sizeNeeded <= mc.maxBytes {
		return
	}

	mc.removeExpiredLocked()
	if mc.currentSize+sizeNeeded <= mc.maxBytes {
		return
	}

	keys := make([]string, 0, len(mc.items))
	for key := range mc.items {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return mc.items[keys[i]].storedAt.Before(mc.items[keys[j]].storedAt)
	})

	for _, key := range keys {
		if mc.currentSize+sizeNeeded <= mc.maxBytes {
			break
		}
		mc.currentSize -= mc.items[key].size
		delete(mc.items, key)
		atomic.AddInt64(&mc.stats.Evictions, 1)
	}
}
