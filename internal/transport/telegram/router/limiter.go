package router

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterIdleTTL = 30 * time.Minute

// chatLimiter keeps one token bucket per chat.
type chatLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	now     func() time.Time
	buckets map[int64]*bucket
	sweepAt time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newChatLimiter(perSec float64, burst int) *chatLimiter {
	l := &chatLimiter{now: time.Now, buckets: map[int64]*bucket{}}
	l.set(perSec, burst)
	return l
}

func (l *chatLimiter) set(perSec float64, burst int) {
	lim := rate.Inf
	if perSec > 0 {
		lim = rate.Limit(perSec)
	}
	if burst <= 0 {
		burst = 1
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limit, l.burst = lim, burst
	for _, b := range l.buckets {
		b.lim.SetLimit(lim)
		b.lim.SetBurst(burst)
	}
}

func (l *chatLimiter) Allow(chatID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	b, ok := l.buckets[chatID]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[chatID] = b
	}
	b.seen = now
	l.sweep(now)
	return b.lim.AllowN(now, 1)
}

// sweep drops buckets idle for limiterIdleTTL. Caller holds mu.
func (l *chatLimiter) sweep(now time.Time) {
	if now.Before(l.sweepAt) {
		return
	}
	l.sweepAt = now.Add(limiterIdleTTL / 2)
	for id, b := range l.buckets {
		if now.Sub(b.seen) > limiterIdleTTL {
			delete(l.buckets, id)
		}
	}
}
