package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultSessionTTL      = 7 * 24 * time.Hour // 会话有效期，与浏览器 Cookie 过期时间一致
	DefaultSessionCookie   = "fv_session"       // 会话 Cookie 名称
	DefaultSessionIssuer   = "filevault"        // 令牌签发者
	DefaultSessionSecret   = "change-me-in-production"
	DefaultBcryptCost      = 10 // 密码哈希强度
	DefaultAllowAdminField = true
)

// AuthConfig 会话认证配置.
type AuthConfig struct {
	Enabled      bool          `mapstructure:"enabled"`                            // 开启认证校验
	SkipPaths    []string      `mapstructure:"skip_paths"`                         // 跳过认证的路径前缀（如 /metrics、/api/v1/health）
	CookieName   string        `mapstructure:"cookie_name"   rule:"required"`      // 会话 Cookie 名称
	CookieSecure bool          `mapstructure:"cookie_secure"`                      // 仅 HTTPS 发送 Cookie
	SessionTTL   time.Duration `mapstructure:"session_ttl"   rule:"min=1m"`        // 会话有效期
	Secret       string        `mapstructure:"secret"        rule:"required,min=8"` // 令牌签名密钥
	Issuer       string        `mapstructure:"issuer"        rule:"required"`
	BcryptCost   int           `mapstructure:"bcrypt_cost"   rule:"min=4,max=31"`
	// AllowAdminSignup 允许注册时通过 admin 字段申请管理员角色.
	AllowAdminSignup bool `mapstructure:"allow_admin_signup"`
}

func (c *AuthConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.skip_paths", []string{
		"/metrics",
		"/api/v1/health",
		"/api/v1/auth/register",
		"/api/v1/auth/login",
		"/swagger",
	})
	v.SetDefault("auth.cookie_name", DefaultSessionCookie)
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("auth.session_ttl", DefaultSessionTTL)
	v.SetDefault("auth.secret", DefaultSessionSecret)
	v.SetDefault("auth.issuer", DefaultSessionIssuer)
	v.SetDefault("auth.bcrypt_cost", DefaultBcryptCost)
	v.SetDefault("auth.allow_admin_signup", DefaultAllowAdminField)
}
