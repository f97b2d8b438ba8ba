// Package api 把 HTTP 接口挂载到 gin 引擎.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/handle"
	"github.com/yeisme/filevault/pkg/internal/router"
)

// RegisterGroup 注册 /api/v1 路由组到传入的 gin 引擎.
func RegisterGroup(e *gin.Engine, h *handle.Handlers, opts router.Options) *gin.Engine {
	router.Register(e, h, opts)

	return e
}
