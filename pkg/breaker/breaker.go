// Package breaker 按配置构建 gobreaker 熔断器，HTTP 中间件与对象存储调用共用.
package breaker

import (
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/yeisme/filevault/pkg/configs"
)

// New 创建熔断器：统计窗口内请求数达到 MinRequests 且失败比例不低于 FailureRate 时打开.
func New(name string, cfg configs.CircuitBreakerConfig, logger *zerolog.Logger) *gobreaker.CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequestsInHalf,
		Interval:    cfg.Interval(),
		Timeout:     cfg.Timeout(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests || counts.Requests == 0 {
				return false
			}

			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRate
		},
	}

	if logger != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		}
	}

	return gobreaker.NewCircuitBreaker(settings)
}

// IsOpen 错误是否来自熔断器拒绝（打开或半开超额）.
func IsOpen(err error) bool {
	return err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests
}
