package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/handle"
)

// RegisterAuthRoutes 注册认证路由.
func RegisterAuthRoutes(g *gin.RouterGroup, h *handle.Handlers) {
	authRoutes := g.Group("/auth")
	{
		authRoutes.POST("/register", h.Register)
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/logout", h.Logout)
		authRoutes.GET("/me", h.Me)
	}
}
