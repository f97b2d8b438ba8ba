package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/types"
	"github.com/yeisme/filevault/pkg/middleware"
	"github.com/yeisme/filevault/pkg/scheduler"
)

// SchedulerJobs 返回所有调度器任务信息.
//
//	@Summary	定时任务列表
//	@Tags		管理
//	@Produce	json
//	@Success	200	{object}	map[string][]scheduler.JobInfo
//	@Router		/api/v1/admin/scheduler/jobs [get]
func SchedulerJobs(c *gin.Context) {
	sched, ok := middleware.GetScheduler(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"jobs": []scheduler.JobInfo{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": sched.GetJobInfos()})
}

// SchedulerRunJob 立即执行指定任务.
//
//	@Summary	立即执行任务
//	@Tags		管理
//	@Param		name	path		string	true	"任务名称"
//	@Success	202		{object}	types.MessageResponse
//	@Failure	404		{object}	types.ErrorResponse
//	@Router		/api/v1/admin/scheduler/jobs/{name}/run [post]
func SchedulerRunJob(c *gin.Context) {
	if err := withScheduler(c, func(s *scheduler.Scheduler) error { return s.RunNow(c.Param("name")) }); err != nil {
		schedulerError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, types.MessageResponse{Message: "job triggered"})
}

// SchedulerRemoveJob 根据名称删除任务.
//
//	@Summary	删除任务
//	@Tags		管理
//	@Param		name	path		string	true	"任务名称"
//	@Success	200		{object}	types.MessageResponse
//	@Failure	404		{object}	types.ErrorResponse
//	@Router		/api/v1/admin/scheduler/jobs/{name} [delete]
func SchedulerRemoveJob(c *gin.Context) {
	if err := withScheduler(c, func(s *scheduler.Scheduler) error { return s.RemoveJobByName(c.Param("name")) }); err != nil {
		schedulerError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.MessageResponse{Message: "job removed"})
}

func withScheduler(c *gin.Context, fn func(s *scheduler.Scheduler) error) error {
	sched, ok := middleware.GetScheduler(c)
	if !ok {
		return scheduler.ErrJobNotFound
	}

	return fn(sched)
}

func schedulerError(c *gin.Context, err error) {
	if errors.Is(err, scheduler.ErrJobNotFound) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
}
