package dispatch

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the RateLimit layer.
type RateLimitConfig struct {
	Rate            float64                  // requests per second
	Burst           int                      // max burst
	KeyFunc         func(p *Parts) string    // default: remote host
	OnLimit         func(p *Parts) *Response // default: 429 problem response
	CleanupInterval time.Duration            // how often to prune idle limiters (default: 1m)
	MaxIdle         time.Duration            // remove limiters idle longer than this (default: 5m)
}

// RateLimit returns a layer that applies per-key token bucket limiting.
// Limited dispatches short-circuit below the layer, so binders never run
// for them.
func RateLimit(cfg RateLimitConfig) Layer {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(p *Parts) string {
			return clientHost(p.RemoteAddr)
		}
	}
	if cfg.OnLimit == nil {
		cfg.OnLimit = func(_ *Parts) *Response {
			return problemResponse(&ProblemDetail{
				Type:   "about:blank",
				Title:  http.StatusText(http.StatusTooManyRequests),
				Status: http.StatusTooManyRequests,
			})
		}
	}

	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	maxIdle := cfg.MaxIdle
	if maxIdle <= 0 {
		maxIdle = 5 * time.Minute
	}

	var (
		mu          sync.Mutex
		limiters    = make(map[string]*limiterEntry)
		lastCleanup time.Time
	)

	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, r *Request, s *State) *Response {
			p := r.Parts()
			key := cfg.KeyFunc(p)

			mu.Lock()
			now := time.Now()

			// Lazy cleanup of expired limiters.
			if now.Sub(lastCleanup) >= cleanupInterval {
				for k, e := range limiters {
					if now.Sub(e.lastSeen) > maxIdle {
						delete(limiters, k)
					}
				}
				lastCleanup = now
			}

			entry, ok := limiters[key]
			if !ok {
				entry = &limiterEntry{
					limiter: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst),
				}
				limiters[key] = entry
			}
			entry.lastSeen = now
			mu.Unlock()

			if !entry.limiter.Allow() {
				resp := cfg.OnLimit(p)
				if resp.Header == nil {
					resp.Header = http.Header{}
				}
				if resp.Header.Get("Retry-After") == "" {
					resp.Header.Set("Retry-After", strconv.FormatFloat(1/cfg.Rate, 'f', 0, 64))
				}
				return resp
			}

			return next.Call(ctx, r, s)
		})
	}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}
