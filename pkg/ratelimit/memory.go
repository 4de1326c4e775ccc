package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const sweepEvery = 1024

// InMemoryRateLimiter keeps one token bucket per key. Limits are not shared
// between replicas.
type InMemoryRateLimiter struct {
	requests int
	window   time.Duration

	mu       sync.Mutex
	limiters map[string]*keyedLimiter
	ops      uint64
}

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewInMemoryRateLimiter(requests int, window time.Duration) *InMemoryRateLimiter {
	return &InMemoryRateLimiter{
		requests: requests,
		window:   window,
		limiters: make(map[string]*keyedLimiter),
	}
}

func (r *InMemoryRateLimiter) GetLimitDetails() (int, time.Duration) {
	return r.requests, r.window
}

func (r *InMemoryRateLimiter) IsLimited(key string) (bool, error) {
	if key == "" {
		key = "__empty__"
	}

	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	k, ok := r.limiters[key]
	if !ok {
		k = &keyedLimiter{
			limiter: rate.NewLimiter(rate.Limit(float64(r.requests)/r.window.Seconds()), r.requests),
		}
		r.limiters[key] = k
	}
	k.lastSeen = now

	r.ops++
	if r.ops%sweepEvery == 0 {
		r.sweep(now.Add(-2 * r.window))
	}

	return !k.limiter.AllowN(now, 1), nil
}

// sweep drops buckets idle since cutoff. Callers hold mu.
func (r *InMemoryRateLimiter) sweep(cutoff time.Time) {
	for key, k := range r.limiters {
		if k.lastSeen.Before(cutoff) {
			delete(r.limiters, key)
		}
	}
}

func (r *InMemoryRateLimiter) Close() error {
	return nil
}
