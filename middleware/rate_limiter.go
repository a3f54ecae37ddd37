package middleware

import (
	"net/http"
	"sync"
	"time"

	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	maxTrackedClients = 10000
	idleClientTTL     = 10 * time.Minute
)

// rateLimiterStore keeps one token bucket per client IP. Idle clients age out of the LRU.
type rateLimiterStore struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	perMin   int
}

func newRateLimiterStore(perMin int) *rateLimiterStore {
	if perMin <= 0 {
		perMin = 200
	}
	return &rateLimiterStore{
		limiters: expirable.NewLRU[string, *rate.Limiter](maxTrackedClients, nil, idleClientTTL),
		perMin:   perMin,
	}
}

// getLimiter returns the client's bucket and renews its idle TTL.
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := s.limiters.Peek(ip)
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin)
	}
	s.limiters.Add(ip, limiter)
	return limiter
}

// RateLimitMiddleware limits requests per client IP to perMin requests per minute.
func RateLimitMiddleware(perMin int) gin.HandlerFunc {
	store := newRateLimiterStore(perMin)
	return func(c *gin.Context) {
		ip := getClientIP(c)
		if !store.getLimiter(ip).Allow() {
			zap.L().Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, utils.ErrorResponse{
				ErrorCode: "RATE_LIMITED",
				Message:   "Rate limit exceeded. Try again later.",
			})
			return
		}
		c.Next()
	}
}
