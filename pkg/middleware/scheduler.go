package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/scheduler"
)

const schedulerKey = "fv.scheduler"

// SchedulerUnavailableMessage 调度器未启用时的响应.
const SchedulerUnavailableMessage = "Scheduler is not running."

// SchedulerMiddleware 为管理接口提供调度器，未启用时直接返回 503.
func SchedulerMiddleware(sched *scheduler.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sched == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": SchedulerUnavailableMessage})
			return
		}

		c.Set(schedulerKey, sched)
		c.Next()
	}
}

// GetScheduler 读取 SchedulerMiddleware 注入的调度器.
func GetScheduler(c *gin.Context) (*scheduler.Scheduler, bool) {
	v, ok := c.Get(schedulerKey)
	if !ok {
		return nil, false
	}

	sched, ok := v.(*scheduler.Scheduler)

	return sched, ok
}
