package httpserver

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// limiterIdleEvict is how long an IP may stay quiet before its bucket is
// dropped. An evicted client starts over with a full burst, which is what a
// full refill would have given it anyway.
const limiterIdleEvict = time.Hour

// ipRateLimiter rate limits requests per client IP using token buckets.
// Buckets are created lazily the first time an IP is seen and evicted after
// limiterIdleEvict of silence, so the map does not grow with client churn.
type ipRateLimiter struct {
	clock clockwork.Clock
	rate  rate.Limit
	burst int

	mu        sync.Mutex
	buckets   map[string]*ipBucket
	lastPrune time.Time
}

type ipBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPRateLimiter(reqPerMinute float64) *ipRateLimiter {
	return newIPRateLimiterWithClock(reqPerMinute, clockwork.NewRealClock())
}

func newIPRateLimiterWithClock(reqPerMinute float64, clock clockwork.Clock) *ipRateLimiter {
	burst := int(reqPerMinute / 6) // 10 seconds worth
	if burst < 1 {
		burst = 1
	}
	return &ipRateLimiter{
		clock:     clock,
		rate:      rate.Limit(reqPerMinute / 60), // convert per-minute to per-second
		burst:     burst,
		buckets:   make(map[string]*ipBucket),
		lastPrune: clock.Now(),
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	if now.Sub(l.lastPrune) >= limiterIdleEvict {
		l.pruneLocked(now)
	}
	b, ok := l.buckets[ip]
	if !ok {
		b = &ipBucket{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	return b.limiter.Allow()
}

// retryAfter estimates when the next request from ip will be allowed.
func (l *ipRateLimiter) retryAfter(ip string) time.Duration {
	l.mu.Lock()
	b, ok := l.buckets[ip]
	l.mu.Unlock()
	if !ok {
		return 0
	}
	reservation := b.limiter.Reserve()
	delay := reservation.Delay()
	reservation.Cancel()
	return delay
}

func (l *ipRateLimiter) pruneLocked(now time.Time) {
	for ip, b := range l.buckets {
		if now.Sub(b.lastSeen) >= limiterIdleEvict {
			delete(l.buckets, ip)
		}
	}
	l.lastPrune = now
}

// Middleware returns a chi-compatible middleware that rate limits by IP.
func (l *ipRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr // chi RealIP middleware has already normalised this
		if !l.allow(ip) {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(l.retryAfter(ip).Seconds())+1))
			http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
