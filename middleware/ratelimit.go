// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// LoginLimiter throttles login and verification attempts per client IP.
// The limiter map lives only in process memory; client IPs are never
// persisted or attached to ballots.
type LoginLimiter struct {
	mu       sync.Mutex
	visitors map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewLoginLimiter allows limit events per second with the given burst,
// per client IP.
func NewLoginLimiter(limit rate.Limit, burst int) *LoginLimiter {
	return &LoginLimiter{
		visitors: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

// Wrap rejects over-limit requests with 429 before they reach the handler.
func (l *LoginLimiter) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !l.limiterFor(GetClientIP(r)).Allow() {
			ErrorResponse(w, http.StatusTooManyRequests, "Too many attempts. Please try again later.")
			return
		}
		next(w, r)
	}
}

func (l *LoginLimiter) limiterFor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.visitors[ip]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.visitors[ip] = limiter
	}
	return limiter
}
