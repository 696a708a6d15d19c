package httpserver

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 3 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter grants each client IP perMinute requests per minute with a
// burst of the same size.
type rateLimiter struct {
	perMinute int
	now       func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
}

func newRateLimiter(perMinute int, now func() time.Time) *rateLimiter {
	return &rateLimiter{
		perMinute: perMinute,
		now:       now,
		clients:   make(map[string]*clientLimiter),
		lastSweep: now(),
	}
}

func (l *rateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for k, cl := range l.clients {
			if now.Sub(cl.lastSeen) > limiterIdleTTL {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	cl, ok := l.clients[key]
	if !ok {
		every := rate.Every(time.Minute / time.Duration(l.perMinute))
		cl = &clientLimiter{limiter: rate.NewLimiter(every, l.perMinute)}
		l.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

func (l *rateLimiter) middleware() gin.HandlerFunc {
	limit := strconv.Itoa(l.perMinute)
	return func(c *gin.Context) {
		c.Header("X-RateLimit-Limit", limit)
		if !l.allow(c.ClientIP()) {
			c.Header("Retry-After", "60")
			routeError(c, http.StatusTooManyRequests, "Too many requests, please try again later.", false)
			return
		}
		c.Next()
	}
}
