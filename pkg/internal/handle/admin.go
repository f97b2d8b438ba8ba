package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/types"
	"github.com/yeisme/filevault/pkg/rule"
)

const defaultOrphanLimit = 100

// ListOrphans 列出待清理的孤儿对象.
//
//	@Summary	孤儿对象
//	@Tags		管理
//	@Produce	json
//	@Param		limit	query		int	false	"数量上限"
//	@Success	200		{object}	types.OrphanListResponse
//	@Router		/api/v1/admin/orphans [get]
func (h *Handlers) ListOrphans(c *gin.Context) {
	var q types.OrphanQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err, nil)

		return
	}

	if err := rule.ValidateStruct(&q); err != nil {
		badRequest(c, err, nil)

		return
	}

	if q.Limit == 0 {
		q.Limit = defaultOrphanLimit
	}

	orphans, err := h.Sweeper.List(c.Request.Context(), q.Limit)
	if err != nil {
		fail(c, "list orphans", err, MsgDuplicate)

		return
	}

	c.JSON(http.StatusOK, types.OrphanListResponse{Orphans: orphans})
}

// SweepOrphans 立即执行一轮孤儿清理.
//
//	@Summary	清理孤儿对象
//	@Tags		管理
//	@Produce	json
//	@Success	200	{object}	service.SweepResult
//	@Router		/api/v1/admin/orphans/sweep [post]
func (h *Handlers) SweepOrphans(c *gin.Context) {
	result, err := h.Sweeper.Sweep(c.Request.Context())
	if err != nil {
		fail(c, "sweep orphans", err, MsgDuplicate)

		return
	}

	c.JSON(http.StatusOK, result)
}
