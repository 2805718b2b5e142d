package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Venkatnagaram/mentor-apis-working/internal/models"
	appErrors "github.com/Venkatnagaram/mentor-apis-working/pkg/errors"
	"github.com/Venkatnagaram/mentor-apis-working/pkg/response"
)

// RateLimit throttles requests per authenticated user (falling back to the
// client IP) over a fixed window kept in Redis. The counter lives entirely in
// Redis so every API replica shares the same budget.
func RateLimit(client *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || limit <= 0 {
			c.Next()
			return
		}

		subject := c.ClientIP()
		if value, exists := c.Get(ContextUserKey); exists {
			if claims, ok := value.(*models.JWTClaims); ok && claims.UserID != "" {
				subject = claims.UserID
			}
		}
		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), subject)

		count, err := client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			// Redis being down must not take bookings with it.
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(c.Request.Context(), key, window)
		}

		if count > int64(limit) {
			ttl, _ := client.TTL(c.Request.Context(), key).Result()
			if ttl > 0 {
				c.Header("Retry-After", fmt.Sprintf("%d", int(ttl.Seconds())+1))
			}
			response.Error(c, appErrors.Clone(appErrors.ErrRateLimited, "rate limit exceeded, retry later"))
			c.Abort()
			return
		}

		c.Next()
	}
}
