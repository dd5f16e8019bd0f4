package ratelimit

import (
    "sync"
    "time"
)

type bucket struct {
    tokens     float64
    capacity   float64
    refillRate float64 // tokens per second
    last       time.Time
}

// Limiter is a per-key token bucket. Buckets are created lazily on
// first use with the capacity the caller supplies.
type Limiter struct {
    mu      sync.Mutex
    buckets map[string]*bucket
}

func New() *Limiter { return &Limiter{buckets: make(map[string]*bucket)} }

// Allow consumes one token for key if available.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
    now := time.Now()

    l.mu.Lock()
    defer l.mu.Unlock()

    b, ok := l.buckets[key]
    if !ok {
        b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
        l.buckets[key] = b
    }

    if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
        b.tokens += elapsed * b.refillRate
        if b.tokens > b.capacity {
            b.tokens = b.capacity
        }
        b.last = now
    }

    if b.tokens < 1 {
        return false
    }
    b.tokens--
    return true
}

// Prune drops buckets idle longer than maxIdle so symbol churn does not
// grow the map without bound.
func (l *Limiter) Prune(maxIdle time.Duration) {
    cutoff := time.Now().Add(-maxIdle)
    l.mu.Lock()
    defer l.mu.Unlock()
    for key, b := range l.buckets {
        if b.last.Before(cutoff) {
            delete(l.buckets, key)
        }
    }
}
