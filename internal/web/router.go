package web

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// SetupRouter 设置路由
func SetupRouter(mode string, lobby *LobbyHandler, tokens *TokenService) *gin.Engine {
	gin.SetMode(mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger())

	v1 := r.Group("/api/v1")
	{
		v1.POST("/games", lobby.Create)
		v1.GET("/games", lobby.List)
		v1.POST("/games/:name/join", lobby.Join)
		v1.GET("/results", lobby.Results)

		// 需要玩家 token 的接口
		authenticated := v1.Group("")
		authenticated.Use(JWTAuth(tokens))
		{
			authenticated.GET("/games/:name", lobby.View)
			authenticated.DELETE("/games/:name", lobby.Delete)
		}
	}

	return r
}

// RequestLogger 请求日志中间件
func RequestLogger() gin.HandlerFunc {
	logger := slog.Default().With("component", "HTTP")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Debug("Request handled",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"clientIp", c.ClientIP())
	}
}
