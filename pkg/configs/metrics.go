package configs

import (
	"github.com/spf13/viper"
)

// MetricsConfig Metrics相关配置.
//
// Example:
//
//	if configs.GetConfig().Metrics.Enabled {
//		metrics.InitMetrics()
//	}
type MetricsConfig struct {
	Enabled        bool              `mapstructure:"enabled"`         // 是否启用Metrics
	Namespace      string            `mapstructure:"namespace"`       // 指标命名空间前缀
	Path           string            `mapstructure:"path"`            // 暴露路径
	RuntimeMetrics bool              `mapstructure:"runtime_metrics"` // 是否收集 Go 运行时与进程指标
	Pprof          bool              `mapstructure:"pprof"`           // 是否挂载 /debug/pprof
	DBRefresh      uint32            `mapstructure:"db_refresh"`      // gorm 连接池指标刷新间隔（秒）
	Labels         map[string]string `mapstructure:"labels"`          // 默认常量标签
}

// setDefaults 设置Metrics配置的默认值.
func (c *MetricsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", AppName)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.runtime_metrics", true)
	v.SetDefault("metrics.pprof", false)
	v.SetDefault("metrics.db_refresh", 15)
	v.SetDefault("metrics.labels", map[string]string{})
}
