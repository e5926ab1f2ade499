package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// callerWindow tracks scan triggers from one client IP
type callerWindow struct {
	Count   int
	FirstAt time.Time
}

// RateLimiter bounds how often expensive operations may be triggered
// per client IP within a sliding window.
type RateLimiter struct {
	mu        sync.Mutex
	windows   map[string]*callerWindow
	maxCalls  int
	window    time.Duration
	lastSweep time.Time
}

// NewRateLimiter creates a new rate limiter allowing maxCalls per window.
func NewRateLimiter(maxCalls int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		windows:   make(map[string]*callerWindow),
		maxCalls:  maxCalls,
		window:    window,
		lastSweep: time.Now(),
	}
}

// Allow reports whether ip may trigger another call, and how long until
// the window resets when it may not.
func (rl *RateLimiter) Allow(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.sweepLocked(now)

	w, exists := rl.windows[ip]
	if !exists || now.Sub(w.FirstAt) > rl.window {
		rl.windows[ip] = &callerWindow{Count: 1, FirstAt: now}
		return true, 0
	}

	if w.Count >= rl.maxCalls {
		return false, rl.window - now.Sub(w.FirstAt)
	}
	w.Count++
	return true, 0
}

// sweepLocked drops expired windows; runs at most once per window period.
func (rl *RateLimiter) sweepLocked(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	for ip, w := range rl.windows {
		if now.Sub(w.FirstAt) > rl.window {
			delete(rl.windows, ip)
		}
	}
	rl.lastSweep = now
}

// ScanRateLimitMiddleware bounds batch scan triggers per client. Scans
// walk the whole universe, so unthrottled triggers can pile up DB load.
func ScanRateLimitMiddleware(maxCalls int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(maxCalls, window)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		allowed, retryAfter := limiter.Allow(c.ClientIP())
		if !allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "scan already triggered recently, try again later",
				"retry_after": int(retryAfter.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
