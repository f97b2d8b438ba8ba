// Package middleware 提供 gin 中间件：会话认证、角色、日志、指标、追踪、限流、熔断与错误兜底.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/log"
)

// NotFoundMessage 未匹配任何路由时返回的信息.
const NotFoundMessage = "You cannot be here :( ."

// ErrorMiddleware 兜底处理：handler 通过 c.Error 记录但未写响应的错误统一返回 500.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		l := log.Logger()
		l.Error().Str("path", c.Request.URL.Path).Str("errors", c.Errors.String()).Msg("request failed")

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error, please try again."})
		}
	}
}

// NoRouteHandler 未匹配路由.
func NoRouteHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": NotFoundMessage})
}
