package caravansite

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// SubmitLimiter caps public lead-form submissions per client IP with a
// token bucket. Stale per-IP buckets are cleaned up in the background.
type SubmitLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitorBucket
	limit    rate.Limit
	burst    int
	stop     chan struct{}
}

type visitorBucket struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewSubmitLimiter allows perMinute submissions per IP with the given burst.
func NewSubmitLimiter(perMinute, burst int) *SubmitLimiter {
	l := &SubmitLimiter{
		visitors: make(map[string]*visitorBucket),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		stop:     make(chan struct{}),
	}
	go l.cleanupLoop(5 * time.Minute)
	return l
}

// Stop ends the background cleanup goroutine.
func (l *SubmitLimiter) Stop() {
	close(l.stop)
}

// Allow reports whether the IP may submit now.
func (l *SubmitLimiter) Allow(ip string) bool {
	l.mu.Lock()
	b, ok := l.visitors[ip]
	if !ok {
		b = &visitorBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = b
	}
	b.lastAccess = time.Now()
	l.mu.Unlock()
	return b.limiter.Allow()
}

// Middleware returns an Echo middleware rejecting over-limit submissions
// with 429 and a Retry-After hint.
func (l *SubmitLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				c.Response().Header().Set("Retry-After", "60")
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "Too many requests. Please try again later.",
				})
			}
			return next(c)
		}
	}
}

func (l *SubmitLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-2 * interval)
			l.mu.Lock()
			for ip, b := range l.visitors {
				if b.lastAccess.Before(cutoff) {
					delete(l.visitors, ip)
				}
			}
			l.mu.Unlock()
		case <-l.stop:
			return
		}
	}
}
