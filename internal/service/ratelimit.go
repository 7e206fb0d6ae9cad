package service

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterSweepInterval = 5 * time.Minute
	limiterIdleTTL       = 10 * time.Minute
)

// RateLimiter is an in-memory per-key rate limiter backed by x/time/rate.
// It is safe for concurrent use. Idle keys are swept in the background until
// Stop is called.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*keyedLimiter
	limit    rate.Limit
	burst    int

	done     chan struct{}
	stopOnce sync.Once
}

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter that allows burst events per key at once,
// refilling at rps events per second. A zero rps never refills.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*keyedLimiter),
		limit:    rate.Limit(rps),
		burst:    burst,
		done:     make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// Allow reports whether the given key is allowed to proceed under the rate limit.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	kl, ok := rl.limiters[key]
	if !ok {
		kl = &keyedLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = kl
	}
	kl.lastSeen = time.Now()
	rl.mu.Unlock()

	return kl.limiter.Allow()
}

// Stop shuts down the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.done)
	})
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case now := <-ticker.C:
			rl.sweep(now.Add(-limiterIdleTTL))
		}
	}
}

func (rl *RateLimiter) sweep(cutoff time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, kl := range rl.limiters {
		if kl.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
}
