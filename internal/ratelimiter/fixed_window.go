package ratelimiter

import (
	"sync"
	"time"
)

// Limiter gates requests per client key, typically the caller's IP.
type Limiter interface {
	Allow(key string) (bool, time.Duration)
}

type Config struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}

// FixedWindowRateLimiter counts requests per key inside a fixed window.
// Counters reset together when the window rolls over, so a burst right at
// the boundary can briefly see up to double the limit.
type FixedWindowRateLimiter struct {
	sync.RWMutex
	clients map[string]int
	limit   int
	window  time.Duration
}

func NewFixedWindowLimiter(limit int, window time.Duration) *FixedWindowRateLimiter {
	rl := &FixedWindowRateLimiter{
		clients: make(map[string]int),
		limit:   limit,
		window:  window,
	}
	go rl.cleanup()
	return rl
}

func (rl *FixedWindowRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	for range ticker.C {
		rl.Lock()
		rl.clients = make(map[string]int)
		rl.Unlock()
	}
}

// Allow reports whether the key may proceed; when refused it also returns
// how long the caller should wait before retrying.
func (rl *FixedWindowRateLimiter) Allow(key string) (bool, time.Duration) {
	rl.RLock()
	count := rl.clients[key]
	rl.RUnlock()

	if count < rl.limit {
		rl.Lock()
		rl.clients[key]++
		rl.Unlock()
		return true, 0
	}

	return false, rl.window
}
