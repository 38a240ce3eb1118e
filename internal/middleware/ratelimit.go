package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// SyncRateLimit 限制同步端点的触发频率
//
// 同步是重操作（拉取 Graph + 全量重建派生产物），
// 用全局令牌桶保护；超出额度时调用 reject 写出响应，
// 响应格式由调用方决定，中间件本身不感知响应结构
func SyncRateLimit(rps float64, burst int, reject gin.HandlerFunc) gin.HandlerFunc {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			reject(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
