package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quoteflow/backend/internal/interfaces/http/dto"
)

// RateLimiter is a fixed-window per-client request limiter
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	limit   int
	window  time.Duration
}

type clientWindow struct {
	remaining int
	resetAt   time.Time
}

// NewRateLimiter creates a rate limiter allowing limit requests per
// window per client key
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
	}
	go rl.cleanup()
	return rl
}

// cleanup evicts idle client windows periodically
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, cw := range rl.clients {
			if now.Sub(cw.resetAt) > rl.window {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow reports whether a request from the given key is within limits
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cw, ok := rl.clients[key]
	if !ok || now.After(cw.resetAt) {
		rl.clients[key] = &clientWindow{
			remaining: rl.limit - 1,
			resetAt:   now.Add(rl.window),
		}
		return true
	}
	if cw.remaining <= 0 {
		return false
	}
	cw.remaining--
	return true
}

// RateLimit returns a middleware limiting requests per client IP
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	rl := NewRateLimiter(limit, window)
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			requestID := c.GetString(RequestIDContextKey)
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeRateLimited, "Too many requests", requestID))
			return
		}
		c.Next()
	}
}
