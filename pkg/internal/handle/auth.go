package handle

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/model"
	"github.com/yeisme/filevault/pkg/internal/service"
	"github.com/yeisme/filevault/pkg/internal/types"
	"github.com/yeisme/filevault/pkg/middleware"
)

func userResponse(u *model.User) types.UserResponse {
	return types.UserResponse{ID: u.ID, Username: u.Username, Role: u.Role}
}

// Register 注册用户.
//
//	@Summary	注册
//	@Tags		认证
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.RegisterRequest	true	"注册参数"
//	@Success	201		{object}	types.UserResponse
//	@Failure	400		{object}	types.ValidationResponse
//	@Router		/api/v1/auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req, types.RegisterMessages) {
		return
	}

	user, err := h.Accounts.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Admin:    req.Admin && h.Auth.AllowAdminSignup,
	})
	if err != nil {
		if service.IsDuplicate(err) {
			// 注册重名与表单校验错误同样返回 400
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: MsgUsernameTaken})

			return
		}

		fail(c, "register", err, MsgUsernameTaken)

		return
	}

	c.JSON(http.StatusCreated, userResponse(user))
}

// Login 校验密码并签发会话.
//
//	@Summary	登录
//	@Tags		认证
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.LoginRequest	true	"登录参数"
//	@Success	200		{object}	types.LoginResponse
//	@Failure	401		{object}	types.ErrorResponse
//	@Router		/api/v1/auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req types.LoginRequest
	if !bindJSON(c, &req, types.LoginMessages) {
		return
	}

	user, err := h.Accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, "login", err, "")

		return
	}

	token, sess, err := h.Sessions.Issue(c.Request.Context(), user)
	if err != nil {
		fail(c, "issue session", err, "")

		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Auth.CookieName, token, int(h.Sessions.TTL()/time.Second), "/", "", h.Auth.CookieSecure, true)

	c.JSON(http.StatusOK, types.LoginResponse{
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
		User:      userResponse(user),
	})
}

// Logout 注销当前会话.
//
//	@Summary	注销
//	@Tags		认证
//	@Success	200	{object}	types.MessageResponse
//	@Router		/api/v1/auth/logout [post]
func (h *Handlers) Logout(c *gin.Context) {
	if token := middleware.SessionToken(c, h.Auth.CookieName); token != "" {
		if err := h.Sessions.Revoke(c.Request.Context(), token); err != nil {
			l := logger(c)
			l.Warn().Err(err).Msg("revoke session failed")
		}
	}

	c.SetCookie(h.Auth.CookieName, "", -1, "/", "", h.Auth.CookieSecure, true)
	c.JSON(http.StatusOK, types.MessageResponse{Message: "logged out"})
}

// Me 返回当前身份.
//
//	@Summary	当前用户
//	@Tags		认证
//	@Produce	json
//	@Success	200	{object}	types.UserResponse
//	@Router		/api/v1/auth/me [get]
func (h *Handlers) Me(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusForbidden, types.ErrorResponse{Error: middleware.AccessDeniedMessage})

		return
	}

	c.JSON(http.StatusOK, types.UserResponse{ID: id.UserID, Username: id.Username, Role: id.Role})
}
