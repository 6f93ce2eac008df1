package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhaustsAndReportsWait(t *testing.T) {
	bucket := NewTokenBucket(3, 1, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, _ := bucket.Allow()
		assert.True(t, allowed, "burst request %d should pass", i)
	}

	allowed, wait := bucket.Allow()
	assert.False(t, allowed)
	assert.Greater(t, wait, time.Duration(0))
	assert.LessOrEqual(t, wait, time.Minute)
}

func TestTokenBucketRefills(t *testing.T) {
	bucket := NewTokenBucket(1, 1, 10*time.Millisecond)

	allowed, _ := bucket.Allow()
	assert.True(t, allowed)
	allowed, _ = bucket.Allow()
	assert.False(t, allowed)

	time.Sleep(15 * time.Millisecond)

	allowed, _ = bucket.Allow()
	assert.True(t, allowed, "bucket should refill after the interval")
}

func TestRateLimiterIsolatesUsersAndActions(t *testing.T) {
	rl := NewRateLimiter()

	// Drain alice's send_message bucket
	for i := 0; i < 10; i++ {
		allowed, _ := rl.Allow("alice", "send_message")
		assert.True(t, allowed)
	}
	allowed, _ := rl.Allow("alice", "send_message")
	assert.False(t, allowed)

	// Other actions and other users are unaffected
	allowed, _ = rl.Allow("alice", "typing")
	assert.True(t, allowed)
	allowed, _ = rl.Allow("bob", "send_message")
	assert.True(t, allowed)
}

func TestGetStatus(t *testing.T) {
	rl := NewRateLimiter()

	tokens, max := rl.GetStatus("alice", "send_message")
	assert.Zero(t, tokens)
	assert.Zero(t, max, "no bucket exists before the first request")

	rl.Allow("alice", "send_message")

	tokens, max = rl.GetStatus("alice", "send_message")
	assert.Equal(t, 9, tokens)
	assert.Equal(t, 10, max)
}

func TestCleanupDropsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter()
	rl.Allow("alice", "send_message")

	rl.buckets["alice:send_message"].lastRefill = time.Now().Add(-2 * time.Hour)
	rl.Cleanup()

	_, max := rl.GetStatus("alice", "send_message")
	assert.Zero(t, max)
}
