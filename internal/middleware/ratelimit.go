package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	MsgTooManyRequests = "too many requests"

	bucketTTL = 10 * time.Minute
)

// KeyFunc names the bucket a request is counted against.
type KeyFunc func(r *http.Request) string

// ClientRouteKey buckets requests by client IP, method and path, so failed
// logins from one address do not use up its register attempts.
func ClientRouteKey(r *http.Request) string {
	return clientIP(r) + " " + r.Method + " " + r.URL.Path
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type bucketSet struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
}

func newBucketSet(rps float64, burst int) *bucketSet {
	return &bucketSet{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

// reserve takes one token from key's bucket. It returns zero when the
// request may proceed, otherwise how long the caller should wait.
func (s *bucketSet) reserve(key string, now time.Time) time.Duration {
	s.mu.Lock()
	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.buckets[key] = b
	}
	b.lastSeen = now
	s.mu.Unlock()

	res := b.limiter.ReserveN(now, 1)
	if !res.OK() {
		return bucketTTL
	}
	delay := res.DelayFrom(now)
	if delay > 0 {
		// Rejected requests must not queue up future tokens.
		res.CancelAt(now)
	}
	return delay
}

func (s *bucketSet) prune(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, b := range s.buckets {
		if now.Sub(b.lastSeen) > bucketTTL {
			delete(s.buckets, key)
		}
	}
}

func (s *bucketSet) janitor() {
	ticker := time.NewTicker(bucketTTL)
	defer ticker.Stop()
	for now := range ticker.C {
		s.prune(now)
	}
}

// RateLimit returns middleware that allows rps requests per second, with
// bursts of up to burst, per client IP and route.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	return RateLimitBy(rps, burst, ClientRouteKey)
}

// RateLimitBy is RateLimit with a caller-chosen bucket key. Rejected
// requests get 429 with a Retry-After header in whole seconds.
func RateLimitBy(rps float64, burst int, key KeyFunc) func(http.Handler) http.Handler {
	set := newBucketSet(rps, burst)
	go set.janitor()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if wait := set.reserve(key(r), time.Now()); wait > 0 {
				seconds := int(math.Ceil(wait.Seconds()))
				slog.WarnContext(r.Context(), "rate limited", "path", r.URL.Path, "remote", clientIP(r), "retry_after", seconds)
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				writeJSONError(w, http.StatusTooManyRequests, MsgTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
