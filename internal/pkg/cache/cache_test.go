package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBucket(t *testing.T) {
	b := NewBucket[int]("metrics", time.Minute)

	_, ok := b.Get("Student")
	assert.False(t, ok)

	b.Set("Student", 3)
	b.Set("Mentor", 7)

	v, ok := b.Get("Student")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	b.Flush()
	_, ok = b.Get("Student")
	assert.False(t, ok)
	_, ok = b.Get("Mentor")
	assert.False(t, ok)
	assert.Equal(t, "metrics", b.Name())
}

func TestBucketExpiry(t *testing.T) {
	b := NewBucket[string]("profiles", 20*time.Millisecond)
	b.Set("a@example.com", "alice")

	assert.Eventually(t, func() bool {
		_, ok := b.Get("a@example.com")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestNewBucketDefaultTTL(t *testing.T) {
	b := NewBucket[int]("x", 0)
	assert.Equal(t, DefaultTTL, b.ttl)
}
