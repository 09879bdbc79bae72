package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/maypok86/otter/v2"
	"golang.org/x/time/rate"
)

const maxTrackedClients = 10_000

type rateLimiter interface {
	Allow(client string) bool
}

// clientLimiter keeps one token bucket per client address. Buckets for idle
// clients are evicted once more than maxTrackedClients are tracked.
type clientLimiter struct {
	limit   rate.Limit
	burst   int
	buckets *otter.Cache[string, *rate.Limiter]
}

func newClientLimiter(ratePerSecond float64, burst int) rateLimiter {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}

	return &clientLimiter{
		limit: rate.Limit(ratePerSecond),
		burst: burst,
		buckets: otter.Must(&otter.Options[string, *rate.Limiter]{
			MaximumSize: maxTrackedClients,
		}),
	}
}

func (l *clientLimiter) Allow(client string) bool {
	if l == nil || l.buckets == nil {
		return true
	}
	bucket, ok := l.buckets.GetIfPresent(client)
	if !ok {
		bucket, _ = l.buckets.SetIfAbsent(client, rate.NewLimiter(l.limit, l.burst))
	}
	return bucket.Allow()
}

func (l *clientLimiter) retryAfterSeconds() int {
	if l == nil || l.limit <= 0 {
		return 1
	}
	return max(1, int(1/float64(l.limit)+0.5))
}

func rateLimitMiddleware(limiter rateLimiter, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limiter.Allow(clientKey(r)) {
			next.ServeHTTP(w, r)
			return
		}
		retryAfter := 1
		if cl, ok := limiter.(*clientLimiter); ok {
			retryAfter = cl.retryAfterSeconds()
		}
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		writeError(w, http.StatusTooManyRequests, "Too many requests", "rate limit exceeded, please retry shortly")
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
