package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultBlobTimeout        = 30 * time.Second // 单次对象存储调用超时
	DefaultCleanupConcurrency = 8                // 级联删除时并发删除对象的上限
	DefaultOrphanSweepCron    = "*/15 * * * *"   // 孤儿对象重试清理周期
	DefaultOrphanBatch        = 100              // 每轮清理的最大记录数
	DefaultOrphanMaxAttempts  = 10               // 超过该次数后不再自动重试
)

// VaultConfig 文件库引擎配置.
type VaultConfig struct {
	BlobTimeout        time.Duration `mapstructure:"blob_timeout"        rule:"min=1s"`
	CleanupConcurrency int           `mapstructure:"cleanup_concurrency" rule:"min=1,max=256"`
	// AsyncCleanup 为 true 时删除文件夹立即返回，对象删除在后台完成.
	AsyncCleanup bool `mapstructure:"async_cleanup"`
	// BlobBreaker 对象存储调用熔断器.
	BlobBreaker       CircuitBreakerConfig `mapstructure:"blob_breaker"`
	OrphanSweepCron   string               `mapstructure:"orphan_sweep_cron"   rule:"required"`
	OrphanBatch       int                  `mapstructure:"orphan_batch"        rule:"min=1"`
	OrphanMaxAttempts int                  `mapstructure:"orphan_max_attempts" rule:"min=1"`
}

// GetBlobTimeout 返回对象存储调用超时.
func (c *VaultConfig) GetBlobTimeout() time.Duration {
	return c.BlobTimeout
}

func (c *VaultConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("vault.blob_timeout", DefaultBlobTimeout)
	v.SetDefault("vault.cleanup_concurrency", DefaultCleanupConcurrency)
	v.SetDefault("vault.async_cleanup", false)
	v.SetDefault("vault.blob_breaker.enabled", true)
	v.SetDefault("vault.blob_breaker.failure_rate", DefaultCBFailureRate)
	v.SetDefault("vault.blob_breaker.min_requests", DefaultCBMinRequests)
	v.SetDefault("vault.blob_breaker.interval_seconds", DefaultCBIntervalSeconds)
	v.SetDefault("vault.blob_breaker.timeout_seconds", DefaultCBTimeoutSeconds)
	v.SetDefault("vault.blob_breaker.max_requests_in_half", DefaultCBMaxRequestsInHalf)
	v.SetDefault("vault.orphan_sweep_cron", DefaultOrphanSweepCron)
	v.SetDefault("vault.orphan_batch", DefaultOrphanBatch)
	v.SetDefault("vault.orphan_max_attempts", DefaultOrphanMaxAttempts)
}
