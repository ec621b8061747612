package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger 请求日志中间件，与各组件的 [前缀] 日志格式保持一致
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if len(c.Errors) > 0 {
			log.Printf("[HTTP] %d %s %s %s %v | %s",
				status, c.Request.Method, path, c.ClientIP(), latency,
				c.Errors.ByType(gin.ErrorTypePrivate).String())
			return
		}

		log.Printf("[HTTP] %d %s %s %s %v",
			status, c.Request.Method, path, c.ClientIP(), latency)
	}
}
