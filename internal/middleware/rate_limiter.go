package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/dmbruno/Ananda/internal/apierror"

	"github.com/gin-gonic/gin"
)

// rateLimiter is a fixed-window per-IP counter. Windows reset lazily and a
// background sweep drops idle entries.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string]*windowCount
}

type windowCount struct {
	count int
	reset time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string]*windowCount),
	}
	go rl.purge()
	return rl
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	wc, ok := rl.clients[ip]
	if !ok || now.After(wc.reset) {
		rl.clients[ip] = &windowCount{count: 1, reset: now.Add(rl.window)}
		return true
	}
	if wc.count >= rl.limit {
		return false
	}
	wc.count++
	return true
}

func (rl *rateLimiter) purge() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, wc := range rl.clients {
			if now.After(wc.reset) {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit returns a per-IP fixed-window limiter middleware.
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	rl := newRateLimiter(limit, window)
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes, intente mas tarde"))
			return
		}
		c.Next()
	}
}

// LoginRateLimit is the stricter limiter for the credentials endpoint.
func LoginRateLimit() gin.HandlerFunc {
	return RateLimit(20, time.Minute)
}
