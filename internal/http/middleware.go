package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v9"

	"questline.io/questline/internal/cache"
	"questline.io/questline/pkg/log"
)

// rateLimit caps public API requests per client IP per minute. Limiter
// outages fail open: the API stays up when redis is down.
func rateLimit(perMinute int) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		res, err := cache.RateLimiter.Allow(ctx.Request.Context(),
			"api:"+ctx.ClientIP(), redis_rate.PerMinute(perMinute))
		if err != nil {
			log.Errorf("rate limiter:%v", err)
			ctx.Next()
			return
		}
		if res.Allowed == 0 {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Too many requests",
			})
			return
		}
		ctx.Next()
	}
}
