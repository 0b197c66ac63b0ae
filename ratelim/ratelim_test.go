package ratelim

import (
	"testing"
	"time"
)

func TestGetLimiterReusesBucketForActiveIP(t *testing.T) {
	rl := NewRateLimiter()

	first := rl.getLimiter("10.0.0.1:1234")
	second := rl.getLimiter("10.0.0.1:1234")
	if first != second {
		t.Fatal("bucket was recreated for an active ip")
	}
}

func TestSweepKeepsRecentlySeenIPs(t *testing.T) {
	rl := NewRateLimiter()
	rl.getLimiter("10.0.0.1:1234")
	rl.getLimiter("10.0.0.2:1234")

	// Backdate one entry past the idle window.
	rl.mu.Lock()
	rl.visitors["10.0.0.2:1234"].lastSeen = time.Now().Add(-idleEvictAfter - time.Minute)
	rl.mu.Unlock()

	rl.sweep(time.Now().Add(-idleEvictAfter))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.visitors["10.0.0.1:1234"]; !ok {
		t.Fatal("recently seen ip was evicted")
	}
	if _, ok := rl.visitors["10.0.0.2:1234"]; ok {
		t.Fatal("idle ip was not evicted")
	}
}
