// Package cache provides a bounded, TTL-based memo store for upstream
// responses. The store is an explicit constructed object with an injected
// clock; it is the only state shared across requests.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/KenTen-21/WeatherApp/pkg/metrics"
)

// Store provides read/write access to memoized values.
type Store interface {
	// Get returns the cached value for key, or false when absent or expired.
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores value under key with the store's TTL.
	Set(ctx context.Context, key string, value interface{})

	// Len returns the current number of live entries.
	Len(ctx context.Context) int
}

// entry is one cached value with its expiry instant.
type entry struct {
	key       string
	value     interface{}
	expiresAt time.Time
}

// Memo implements Store with time-based expiry and least-recently-used
// capacity eviction. Concurrent misses for the same key are not coalesced;
// both callers fetch upstream and the last write wins.
type Memo struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List // front = most recently used
	capacity int
	ttl      time.Duration
	clock    func() time.Time
}

// NewMemo creates a memo store with configuration options.
func NewMemo(opts ...Option) *Memo {
	m := &Memo{
		items:    make(map[string]*list.Element),
		order:    list.New(),
		capacity: 256,
		ttl:      10 * time.Minute,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the live value for key. Expired entries are evicted on read;
// hits refresh the entry's LRU position, not its TTL.
func (m *Memo) Get(_ context.Context, key string) (interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.items[key]
	if !ok {
		metrics.RecordCacheMiss()
		return nil, false
	}
	e := el.Value.(*entry)
	if m.clock().After(e.expiresAt) {
		m.remove(el)
		metrics.RecordCacheMiss()
		return nil, false
	}
	m.order.MoveToFront(el)
	metrics.RecordCacheHit()
	return e.value, true
}

// Set stores value under key, evicting the least recently used entry when
// the capacity bound is exceeded.
func (m *Memo) Set(_ context.Context, key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	expires := m.clock().Add(m.ttl)
	if el, ok := m.items[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.expiresAt = expires
		m.order.MoveToFront(el)
		return
	}

	el := m.order.PushFront(&entry{key: key, value: value, expiresAt: expires})
	m.items[key] = el

	for m.order.Len() > m.capacity {
		oldest := m.order.Back()
		if oldest == nil {
			break
		}
		m.remove(oldest)
		metrics.RecordCacheEviction()
	}
	metrics.UpdateCacheSize(len(m.items))
}

// Len returns the number of entries, including any not yet expired-on-read.
func (m *Memo) Len(_ context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// remove must be called with m.mu held.
func (m *Memo) remove(el *list.Element) {
	e := el.Value.(*entry)
	delete(m.items, e.key)
	m.order.Remove(el)
	metrics.UpdateCacheSize(len(m.items))
}

var _ Store = (*Memo)(nil)
