package middlewares

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostelcare/utils"
	"golang.org/x/time/rate"
)

var errTooManyAttempts = errors.New("Too many attempts, please wait a moment")

// idle visitors are forgotten after this long
const visitorTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-client-IP token bucket.
type RateLimiter struct {
	limit rate.Limit
	burst int
	ips   map[string]*visitor
	mu    sync.Mutex
	now   func() time.Time
}

// NewRateLimiter allows perMinute requests per IP, refilled evenly, with the
// whole minute's allowance available as a burst.
func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		limit: rate.Every(time.Minute / time.Duration(perMinute)),
		burst: perMinute,
		ips:   make(map[string]*visitor),
		now:   time.Now,
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for k, v := range rl.ips {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(rl.ips, k)
		}
	}

	v, exists := rl.ips[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.ips[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			utils.RespondError(c, http.StatusTooManyRequests, errTooManyAttempts)
			c.Abort()
			return
		}
		c.Next()
	}
}
