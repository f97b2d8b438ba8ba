package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/handle"
	"github.com/yeisme/filevault/pkg/internal/model"
	"github.com/yeisme/filevault/pkg/middleware"
	"github.com/yeisme/filevault/pkg/scheduler"
)

// RegisterAdminRoutes 注册管理路由，仅 ADMIN 可访问.
func RegisterAdminRoutes(g *gin.RouterGroup, h *handle.Handlers, sched *scheduler.Scheduler) {
	admin := g.Group("/admin", middleware.RequireMinRole(model.RoleAdmin))
	{
		admin.GET("/orphans", h.ListOrphans)
		admin.POST("/orphans/sweep", h.SweepOrphans)
	}

	RegisterSchedulerRoutes(admin, sched)
}

// RegisterSchedulerRoutes 注册调度器相关路由.
func RegisterSchedulerRoutes(g *gin.RouterGroup, sched *scheduler.Scheduler) {
	schedRoutes := g.Group("/scheduler", middleware.SchedulerMiddleware(sched))
	{
		schedRoutes.GET("/jobs", handle.SchedulerJobs)
		schedRoutes.POST("/jobs/:name/run", handle.SchedulerRunJob)
		schedRoutes.DELETE("/jobs/:name", handle.SchedulerRemoveJob)
	}
}
