// Package handle 提供 HTTP 请求处理器，把引擎结果映射为状态码与响应体.
package handle

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/filevault/pkg/configs"
	fvctx "github.com/yeisme/filevault/pkg/context"
	"github.com/yeisme/filevault/pkg/internal/service"
	"github.com/yeisme/filevault/pkg/internal/types"
	"github.com/yeisme/filevault/pkg/log"
	"github.com/yeisme/filevault/pkg/middleware"
	"github.com/yeisme/filevault/pkg/rule"
)

// 对外错误信息，NotFound 与 Forbidden 共用同一文本.
const (
	MsgNotFound           = "resource not found or access denied"
	MsgStoreError         = "Database error, please try again."
	MsgDuplicate          = "Duplicate name detected."
	MsgUsernameTaken      = "Username already exists."
	MsgStorageUnavailable = "Storage is unavailable, please try again later."
	MsgInvalidCredentials = "Invalid username or password."
	MsgInvalidRequest     = "Invalid request."
	MsgNoFile             = "No file was uploaded."
	MsgFileTooLarge       = "File is too large."
)

// Handlers 聚合处理器依赖.
type Handlers struct {
	Vault    *service.Vault
	Accounts *service.Accounts
	Sessions *service.SessionManager
	Sweeper  *service.OrphanSweeper
	Auth     configs.AuthConfig
	// MaxUploadBytes 单次上传最大字节数，0 表示不限制
	MaxUploadBytes int64
}

// New 创建处理器集合.
func New(vault *service.Vault, accounts *service.Accounts, sessions *service.SessionManager, sweeper *service.OrphanSweeper, cfg *configs.AppConfig) *Handlers {
	return &Handlers{
		Vault:          vault,
		Accounts:       accounts,
		Sessions:       sessions,
		Sweeper:        sweeper,
		Auth:           cfg.Auth,
		MaxUploadBytes: cfg.Server.GetMaxUploadBytes(),
	}
}

// logger 返回带追踪信息的请求日志.
func logger(c *gin.Context) zerolog.Logger {
	return fvctx.WithTraceContext(c.Request.Context(), log.Component("http"))
}

// identity 读取当前身份，缺失时返回零值，由引擎拒绝.
func identity(c *gin.Context) service.Identity {
	id, _ := middleware.GetIdentity(c)

	return id
}

// parseID 解析路径参数中的正整数 ID.
func parseID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		// 非法 ID 与不存在的资源不做区分
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: MsgNotFound})

		return 0, false
	}

	return uint(n), true
}

// bindJSON 解析并校验请求体，失败时直接写 400.
func bindJSON(c *gin.Context, req any, catalog map[string]string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, err, catalog)

		return false
	}

	if err := rule.ValidateStruct(req); err != nil {
		badRequest(c, err, catalog)

		return false
	}

	return true
}

func badRequest(c *gin.Context, err error, catalog map[string]string) {
	fields := rule.Messages(err, catalog)
	msg := MsgInvalidRequest

	if len(fields) > 0 {
		msg = fields[0].Msg
	}

	l := logger(c)
	l.Debug().Err(err).Str("path", c.FullPath()).Msg("invalid request")
	c.JSON(http.StatusBadRequest, types.ValidationResponse{Error: msg, Fields: fields})
}

// fail 把引擎错误映射为 HTTP 响应.
func fail(c *gin.Context, op string, err error, duplicateMsg string) {
	l := logger(c)

	var (
		status int
		msg    string
	)

	var storeErr *service.StoreError

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status, msg = http.StatusBadRequest, MsgInvalidRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, MsgInvalidCredentials
	case errors.As(err, &storeErr) && storeErr.Duplicate():
		status, msg = http.StatusConflict, duplicateMsg
	default:
		switch service.OutcomeOf(err) {
		case service.OutcomeNotFound, service.OutcomeForbidden:
			status, msg = http.StatusNotFound, MsgNotFound
		case service.OutcomeStorageUnavailable:
			status, msg = http.StatusServiceUnavailable, MsgStorageUnavailable
		default:
			status, msg = http.StatusInternalServerError, MsgStoreError
		}
	}

	ev := l.Warn()
	if status >= http.StatusInternalServerError {
		ev = l.Error()
	}

	ev.Err(err).Str("op", op).Int("status", status).Msg("request failed")
	c.JSON(status, types.ErrorResponse{Error: msg})
}
