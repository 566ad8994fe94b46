package limiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DynamicRateLimiter is a token bucket whose refill interval and burst
// can be changed while it is in use.
type DynamicRateLimiter struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	interval time.Duration
	burst    int
}

// NewDynamicRateLimiter allows burst events at once and then one event
// per interval. A non-positive interval disables limiting.
func NewDynamicRateLimiter(interval time.Duration, burst int) *DynamicRateLimiter {
	return &DynamicRateLimiter{
		limiter:  rate.NewLimiter(limitOf(interval), burst),
		interval: interval,
		burst:    burst,
	}
}

func (drl *DynamicRateLimiter) Allow() bool {
	return drl.limiter.Allow()
}

// Update replaces the refill interval and burst size.
func (drl *DynamicRateLimiter) Update(interval time.Duration, burst int) {
	drl.mu.Lock()
	defer drl.mu.Unlock()

	drl.interval, drl.burst = interval, burst
	drl.limiter.SetLimit(limitOf(interval))
	drl.limiter.SetBurst(burst)
}

// Settings returns the current refill interval and burst size.
func (drl *DynamicRateLimiter) Settings() (time.Duration, int) {
	drl.mu.Lock()
	defer drl.mu.Unlock()
	return drl.interval, drl.burst
}

func limitOf(interval time.Duration) rate.Limit {
	if interval <= 0 {
		return rate.Inf
	}
	return rate.Every(interval)
}
