package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"smp-portal/backend/pkg/redis"
	"smp-portal/backend/pkg/response"
)

// RateLimit limits requests per client IP and route over a Redis counter
// window. A nil client or a Redis error lets the request through; incident
// reporting must never be blocked by a limiter outage.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, 10004, "too many requests")
			c.Abort()
			return
		}

		c.Next()
	}
}
