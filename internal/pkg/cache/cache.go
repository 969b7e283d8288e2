// Package cache provides typed, TTL-bounded read caches for the tracker service.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL bounds how stale a cached read can be
const DefaultTTL = 5 * time.Minute

// Bucket is a keyed cache whose entries all share one TTL and can be cleared together.
// It is safe for concurrent use.
type Bucket[T any] struct {
	name  string
	ttl   time.Duration
	items *gocache.Cache
}

// NewBucket creates a bucket. A non-positive ttl falls back to DefaultTTL.
func NewBucket[T any](name string, ttl time.Duration) *Bucket[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Bucket[T]{
		name:  name,
		ttl:   ttl,
		items: gocache.New(ttl, 2*ttl),
	}
}

// Name returns the bucket name used in logs
func (b *Bucket[T]) Name() string {
	return b.name
}

// Get returns the unexpired entry for key
func (b *Bucket[T]) Get(key string) (T, bool) {
	var zero T
	v, ok := b.items.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Set stores value under key for the bucket TTL
func (b *Bucket[T]) Set(key string, value T) {
	b.items.Set(key, value, gocache.DefaultExpiration)
}

// Flush drops every entry in the bucket
func (b *Bucket[T]) Flush() {
	b.items.Flush()
}
