package configs

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultPort           = 8080      // 监听端口
	DefaultHost           = "0.0.0.0" // 监听地址
	DefaultReloadConfig   = false     // 是否启用配置热重载
	DefaultDebug          = false     // 是否启用调试模式
	DefaultTimeout        = 30        // 超时时间，单位秒
	DefaultMaxUploadMB    = 64        // 单次上传最大尺寸（MB）
	DefaultGzip           = true      // 是否启用响应压缩
	DefaultShutdownPeriod = 10        // 优雅关闭等待时间，单位秒
)

type (
	// ServerConfig 服务器配置.
	ServerConfig struct {
		Port         int      `mapstructure:"port"            rule:"min=1,max=65535"`
		Host         string   `mapstructure:"host"            rule:"ip"`
		ReloadConfig bool     `mapstructure:"reload_config"`
		Debug        bool     `mapstructure:"debug"`
		Timeout      int      `mapstructure:"timeout"         rule:"min=1,max=300"`
		MaxUploadMB  int64    `mapstructure:"max_upload_mb"   rule:"min=1"`
		Gzip         bool     `mapstructure:"gzip"`
		AllowOrigins []string `mapstructure:"allow_origins"`
		Shutdown     int      `mapstructure:"shutdown_period" rule:"min=0"`
	}
)

// GetTimeoutDuration 返回超时时间作为time.Duration.
func (s *ServerConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// GetShutdownPeriod 返回优雅关闭的等待时间.
func (s *ServerConfig) GetShutdownPeriod() time.Duration {
	return time.Duration(s.Shutdown) * time.Second
}

// GetMaxUploadBytes 返回单次上传允许的最大字节数.
func (s *ServerConfig) GetMaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}

// Addr 返回监听地址.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// setDefaults 设置服务器配置的默认值.
func (s *ServerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.reload_config", DefaultReloadConfig)
	v.SetDefault("server.debug", DefaultDebug)
	v.SetDefault("server.timeout", DefaultTimeout)
	v.SetDefault("server.max_upload_mb", DefaultMaxUploadMB)
	v.SetDefault("server.gzip", DefaultGzip)
	v.SetDefault("server.allow_origins", []string{"*"})
	v.SetDefault("server.shutdown_period", DefaultShutdownPeriod)
}
