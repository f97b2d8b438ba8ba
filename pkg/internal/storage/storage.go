// Package storage 聚合数据库、对象存储、KV 与消息队列客户端的生命周期.
//
// Example:
//
//	mgr, err := storage.Init(ctx, configs.GetConfig(), storage.Options{Registry: metrics.GetRegistry()})
//	if err != nil {
//		// 处理错误
//	}
//	defer mgr.Close()
//
//	store := db.NewStore(mgr.DB)
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yeisme/filevault/pkg/configs"
	dbc "github.com/yeisme/filevault/pkg/internal/storage/db"
	kvc "github.com/yeisme/filevault/pkg/internal/storage/kv"
	mqc "github.com/yeisme/filevault/pkg/internal/storage/mq"
	s3c "github.com/yeisme/filevault/pkg/internal/storage/s3"
	nlog "github.com/yeisme/filevault/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	DB *dbc.Client
	S3 *s3c.Client
	KV kvc.KVStore
	MQ *mqc.Client
}

// Options 初始化选项.
type Options struct {
	// Registry 用于 gorm 与 watermill 的 Prometheus 指标，nil 表示不注册.
	Registry prometheus.Registerer
	// SkipS3 跳过对象存储初始化，用于只操作元数据的命令行工具.
	SkipS3 bool
	// SkipMQ 跳过消息队列初始化.
	SkipMQ bool
}

// Init 按配置初始化全部存储，任一失败时关闭已打开的资源.
func Init(ctx context.Context, cfg *configs.AppConfig, opts Options) (*Manager, error) {
	m := &Manager{}

	var err error

	m.DB, err = dbc.New(ctx, &cfg.DB, dbc.Options{
		Metrics:        cfg.Metrics.Enabled && opts.Registry != nil,
		MetricsRefresh: cfg.Metrics.DBRefresh,
		Debug:          cfg.Server.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}

	if !opts.SkipS3 {
		if m.S3, err = s3c.New(ctx, &cfg.S3); err != nil {
			_ = m.Close()

			return nil, fmt.Errorf("init s3: %w", err)
		}
	}

	if m.KV, err = kvc.New(ctx, &cfg.KV); err != nil {
		_ = m.Close()

		return nil, fmt.Errorf("init kv: %w", err)
	}

	if !opts.SkipMQ {
		if m.MQ, err = mqc.New(ctx, &cfg.MQ, mqc.Options{Registry: opts.Registry}); err != nil {
			_ = m.Close()

			return nil, fmt.Errorf("init mq: %w", err)
		}
	}

	nlog.Logger().Info().
		Str("db", cfg.DB.GetDBType()).
		Str("kv", cfg.KV.GetKVType()).
		Str("mq", string(cfg.MQ.GetMQType())).
		Msg("storage manager initialized")

	return m, nil
}

// Close 关闭全部资源.
func (m *Manager) Close() error {
	var errs []error

	if m.MQ != nil {
		errs = append(errs, m.MQ.Close())
	}

	if m.KV != nil {
		errs = append(errs, m.KV.Close())
	}

	if m.S3 != nil {
		errs = append(errs, m.S3.Close())
	}

	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}

	return errors.Join(errs...)
}
