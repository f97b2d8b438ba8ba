// Package router 管理路由配置，把 handle 中的处理器绑定到 /api/v1 路由组.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/handle"
	"github.com/yeisme/filevault/pkg/middleware"
	"github.com/yeisme/filevault/pkg/scheduler"
)

// APIPrefix 接口前缀.
const APIPrefix = "/api/v1"

// Options 路由依赖.
type Options struct {
	Auth      configs.AuthConfig
	RateLimit configs.RateLimitConfig
	Sessions  middleware.SessionResolver
	Scheduler *scheduler.Scheduler
}

// Register 注册全部接口路由与未匹配路由处理.
//
//	/api/v1/auth/*        认证
//	/api/v1/files/*       文件
//	/api/v1/folders/*     文件夹
//	/api/v1/health/*      健康检查
//	/api/v1/admin/*       管理（ADMIN）
func Register(r *gin.Engine, h *handle.Handlers, opts Options) {
	v1 := r.Group(APIPrefix)
	// 限流在认证之后，按用户限流时可以读取身份
	v1.Use(
		middleware.AuthMiddleware(opts.Auth, opts.Sessions),
		middleware.RateLimitMiddleware(opts.RateLimit),
	)

	RegisterAuthRoutes(v1, h)
	RegisterFilesRoutes(v1, h)
	RegisterFoldersRoutes(v1, h)
	RegisterHealthCheckRoute(v1)
	RegisterAdminRoutes(v1, h, opts.Scheduler)

	r.NoRoute(middleware.NoRouteHandler)
}
