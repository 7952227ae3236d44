// api/middleware/rate_limiter.go

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/teamaccess/api/db"
	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
	"github.com/dev-mohitbeniwal/teamaccess/api/util"
)

// RateLimiter allows limit requests per window for each caller, keyed by actor id once
// authenticated and by client ip before that.
func RateLimiter(client redis.Cmdable, limit int, per time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if actor, ok := util.GetActorFromContext(c); ok {
			key = "user:" + actor.ID
		}

		allowed, err := db.RateLimit(c.Request.Context(), client, key, limit, per)
		if err != nil {
			// Redis being down should not take the API with it.
			logger.Error("Rate limiting failed", zap.Error(err), zap.String("key", key))
			c.Next()
			return
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Duration", per.String())

		if !allowed {
			logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.Int("limit", limit),
				zap.Duration("per", per))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}

		c.Next()
	}
}
