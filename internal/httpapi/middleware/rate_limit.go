// Package middleware holds the HTTP middleware for the thin demonstration
// API surface: inbound per-IP rate limiting, protecting this process's own
// endpoints (a different concern from internal/ratelimit's outbound EDGAR
// limiter).
package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"
)

// RateLimiter tracks per-IP request counts with periodic cleanup so
// long-lived processes don't leak memory on ephemeral visitors.
type RateLimiter struct {
	requestsPerSecond int
	visitors          map[string]*visitor
	mu                sync.Mutex
	done              chan struct{}
}

type visitor struct {
	lastSeen time.Time
	count    int
}

// NewRateLimiter creates a rate limiter with a background cleanup loop.
// Call Stop, or use RateLimitWithContext, to release it.
func NewRateLimiter(requestsPerSecond int) *RateLimiter {
	rl := &RateLimiter{
		requestsPerSecond: requestsPerSecond,
		visitors:          make(map[string]*visitor),
		done:              make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if time.Since(v.lastSeen) > time.Minute {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop shuts down the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.done)
}

// Middleware enforces requestsPerSecond per remote IP.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip = host
		}

		rl.mu.Lock()
		v, exists := rl.visitors[ip]
		if !exists {
			rl.visitors[ip] = &visitor{lastSeen: time.Now(), count: 1}
			rl.mu.Unlock()
			next.ServeHTTP(w, r)
			return
		}

		if time.Since(v.lastSeen) > time.Second {
			v.count = 1
			v.lastSeen = time.Now()
			rl.mu.Unlock()
			next.ServeHTTP(w, r)
			return
		}

		v.count++

		if v.count > rl.requestsPerSecond {
			rl.mu.Unlock()
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		rl.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// RateLimitWithContext returns middleware that stops its cleanup goroutine
// when ctx is cancelled.
func RateLimitWithContext(ctx context.Context, requestsPerSecond int) func(http.Handler) http.Handler {
	rl := NewRateLimiter(requestsPerSecond)
	go func() {
		<-ctx.Done()
		rl.Stop()
	}()
	return rl.Middleware
}
