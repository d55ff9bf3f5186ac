package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/StudyHub/utils/ratelimit"
)

var (
	globalLimiter ratelimit.Limiter
	globalQPS     int
	limitOnce     sync.Once
)

// InitGlobalLimiter 初始化全局限流器
// limiter 为 nil 时（例如 Redis 不可用）限流被禁用
func InitGlobalLimiter(limiter ratelimit.Limiter, qps int64) {
	limitOnce.Do(func() {
		globalLimiter = limiter
		globalQPS = int(qps)
	})
}

// RateLimitMiddleware 全局限流中间件，按秒计数
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if globalLimiter != nil {
			allowed, err := globalLimiter.Allow(c.Request.Context(), "global", globalQPS, time.Second)
			if err != nil || !allowed {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error": "Too Many Requests - Server is busy, please try again later",
				})
				return
			}
		}
		c.Next()
	}
}
