package ratelimit

import (
	"context"
	"sync"
	"time"
)

type visitor struct {
	count  int64
	window time.Time
}

// MemoryLimiter keeps per-key counters in process memory. A background
// goroutine drops visitors whose window has ended until Close is called.
type MemoryLimiter struct {
	visitors map[string]*visitor
	mutex    sync.Mutex
	limit    int
	window   time.Duration
	now      func() time.Time

	stop      chan struct{}
	closeOnce sync.Once
}

// NewMemoryLimiter creates a limiter allowing limit hits per window.
// cleanup <= 0 defaults to window.
func NewMemoryLimiter(limit int, window, cleanup time.Duration) *MemoryLimiter {
	if cleanup <= 0 {
		cleanup = window
	}
	rl := &MemoryLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	go rl.cleanupExpiredVisitors(cleanup)
	return rl
}

func (rl *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	v, exists := rl.visitors[key]

	// Reset counter if window has passed
	if !exists || now.Sub(v.window) >= rl.window {
		v = &visitor{window: now}
		rl.visitors[key] = v
	}
	v.count++

	return result(v.count, rl.limit, v.window.Add(rl.window).Sub(now)), nil
}

// Close stops the cleanup goroutine.
func (rl *MemoryLimiter) Close() error {
	rl.closeOnce.Do(func() { close(rl.stop) })
	return nil
}

func (rl *MemoryLimiter) cleanupExpiredVisitors(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *MemoryLimiter) sweep() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for key, v := range rl.visitors {
		if now.Sub(v.window) >= rl.window {
			delete(rl.visitors, key)
		}
	}
}
