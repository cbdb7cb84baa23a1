package middleware

import (
	"net/http"
	"sync"
	"time"

	"deskhive/pkg/logger"
)

// ActorExtractor pulls the rate-limit key out of a request. Mutating
// DeskHive calls carry the acting party in the X-Actor header.
type ActorExtractor func(r *http.Request) string

func DefaultActorExtractor(r *http.Request) string {
	return r.Header.Get("X-Actor")
}

type ActorRateLimiter struct {
	mu        sync.Mutex
	requests  map[string][]time.Time
	limit     int
	window    time.Duration
	extractor ActorExtractor
	log       *logger.Logger
	stopCh    chan struct{}
}

func NewActorRateLimiter(limit int, window time.Duration, extractor ActorExtractor, log *logger.Logger) *ActorRateLimiter {
	if extractor == nil {
		extractor = DefaultActorExtractor
	}

	limiter := &ActorRateLimiter{
		requests:  make(map[string][]time.Time),
		limit:     limit,
		window:    window,
		extractor: extractor,
		log:       log,
		stopCh:    make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *ActorRateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for actor, timestamps := range rl.requests {
				if len(timestamps) == 0 || time.Since(timestamps[len(timestamps)-1]) > rl.window {
					delete(rl.requests, actor)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *ActorRateLimiter) Stop() {
	close(rl.stopCh)
}

// Allow records the request and reports whether it is within the limit.
// Requests without an actor are never limited.
func (rl *ActorRateLimiter) Allow(actor string) bool {
	if actor == "" {
		return true
	}

	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := rl.requests[actor][:0:0]
	for _, ts := range rl.requests[actor] {
		if now.Sub(ts) < rl.window {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[actor] = valid
		return false
	}

	rl.requests[actor] = append(valid, now)
	return true
}

func ActorRateLimit(limiter *ActorRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := limiter.extractor(r)

			if !limiter.Allow(actor) {
				limiter.log.Warn("Rate limit exceeded",
					"request_id", RequestID(r.Context()),
					"actor", actor,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Rate limit exceeded, try again later"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
