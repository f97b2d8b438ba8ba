package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/model"
)

// roleRank 角色权限等级，数值越大权限越高.
var roleRank = map[model.Role]int{
	model.RoleUser:  1,
	model.RoleAdmin: 2,
}

// GetRole 返回当前请求角色，未登录时为空.
func GetRole(c *gin.Context) model.Role {
	if id, ok := GetIdentity(c); ok {
		return id.Role
	}

	return ""
}

// RequireMinRole 要求最小角色，不满足则返回 403.
func RequireMinRole(minRole model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if roleRank[GetRole(c)] < roleRank[minRole] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": AccessDeniedMessage})
			return
		}

		c.Next()
	}
}
