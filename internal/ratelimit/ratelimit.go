// Package ratelimit implements the per-user token-bucket check from
// spec.md §4.5: quota 10 events/second, burst 10.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// Quota is the sustained refill rate, in events per second.
	Quota = 10.0
	// Burst is the maximum number of tokens a bucket can hold.
	Burst = 10.0
)

// ceilToSecond rounds d up to the next whole second, never down to zero
// for a positive duration (unlike Duration.Truncate).
func ceilToSecond(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	if r := d % time.Second; r != 0 {
		d += time.Second - r
	}
	return d
}

// Bucket is a single token bucket.
type Bucket struct {
	mu        sync.Mutex
	tokens    float64
	lastCheck time.Time
	now       func() time.Time
}

// NewBucket returns a full bucket (ready for a burst of Burst events).
func NewBucket() *Bucket {
	return &Bucket{tokens: Burst, lastCheck: time.Now(), now: time.Now}
}

// Check consumes one token if available. On success it returns (true, 0).
// On failure it returns (false, remaining) where remaining is the time
// until enough tokens accumulate for the next event, rounded up to whole
// seconds per spec.md so that waiting exactly remaining and retrying
// always succeeds (a plain floor-truncation can round a sub-second deficit
// down to zero, which it should not report as "ready now").
func (b *Bucket) Check() (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	elapsed := now.Sub(b.lastCheck).Seconds()
	b.lastCheck = now

	b.tokens += elapsed * Quota
	if b.tokens > Burst {
		b.tokens = Burst
	}

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true, 0
	}

	deficit := 1.0 - b.tokens
	remaining := time.Duration(deficit / Quota * float64(time.Second))
	return false, ceilToSecond(remaining)
}

// Limiter owns one Bucket per user id.
type Limiter struct {
	mu      sync.Mutex
	buckets map[int]*Bucket
}

// NewLimiter returns an empty per-user rate limiter.
func NewLimiter() *Limiter {
	return &Limiter{buckets: make(map[int]*Bucket)}
}

// Check runs the token-bucket check for userID, creating a fresh full
// bucket on first use.
func (l *Limiter) Check(userID int) (bool, time.Duration) {
	l.mu.Lock()
	b, ok := l.buckets[userID]
	if !ok {
		b = NewBucket()
		l.buckets[userID] = b
	}
	l.mu.Unlock()
	return b.Check()
}

// Remove drops the bucket for userID (called from Room.Leave).
func (l *Limiter) Remove(userID int) {
	l.mu.Lock()
	delete(l.buckets, userID)
	l.mu.Unlock()
}

// Len reports the number of tracked users (test/debug aid).
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
