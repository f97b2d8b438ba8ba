package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/configs"
	fvctx "github.com/yeisme/filevault/pkg/context"
	"github.com/yeisme/filevault/pkg/internal/service"
	"github.com/yeisme/filevault/pkg/log"
)

// AccessDeniedMessage 未登录访问受保护资源时返回的信息.
const AccessDeniedMessage = "You don't have access to this page"

const identityKey = "identity"

// SessionResolver 将会话令牌解析为身份.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (service.Identity, error)
}

// AuthMiddleware 从 Cookie 或 Authorization: Bearer 中读取会话令牌并解析身份.
//   - 跳过 SkipPaths 中的路径前缀
//   - 解析成功后身份写入 gin.Context 与 request.Context
//   - 令牌缺失或无效返回 403.
func AuthMiddleware(conf configs.AuthConfig, sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !conf.Enabled || isSkippedPath(c.Request.URL.Path, conf.SkipPaths) {
			c.Next()
			return
		}

		token := SessionToken(c, conf.CookieName)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": AccessDeniedMessage})
			return
		}

		id, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			l := log.Logger()
			l.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("session rejected")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": AccessDeniedMessage})

			return
		}

		SetIdentity(c, id)
		c.Next()
	}
}

// SessionToken 读取请求中的会话令牌，优先 Authorization 头.
func SessionToken(c *gin.Context, cookieName string) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}

	if cookieName == "" {
		return ""
	}

	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}

	return token
}

// SetIdentity 写入当前请求身份.
func SetIdentity(c *gin.Context, id service.Identity) {
	c.Set(identityKey, id)
	c.Request = c.Request.WithContext(fvctx.WithIdentity(c.Request.Context(), id))
}

// GetIdentity 获取当前请求身份.
func GetIdentity(c *gin.Context) (service.Identity, bool) {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(service.Identity); ok && id.Valid() {
			return id, true
		}
	}

	return fvctx.GetIdentity(c.Request.Context())
}

func isSkippedPath(path string, skips []string) bool {
	if path == "" || len(skips) == 0 {
		return false
	}

	for _, p := range skips {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
