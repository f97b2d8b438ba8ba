package app

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/yeisme/filevault/pkg/cache"
	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/service"
	"github.com/yeisme/filevault/pkg/internal/storage"
	dbc "github.com/yeisme/filevault/pkg/internal/storage/db"
	"github.com/yeisme/filevault/pkg/log"
	"github.com/yeisme/filevault/pkg/queue"
)

// SessionPrefix 会话缓存键前缀.
const SessionPrefix = "fv:"

// Core 文件库的业务组件，HTTP 服务与命令行共用.
type Core struct {
	Manager  *storage.Manager
	Store    *dbc.Store
	Vault    *service.Vault
	Accounts *service.Accounts
	Sessions *service.SessionManager
	Sweeper  *service.OrphanSweeper
}

// BuildCore 初始化存储并组装引擎、账户、会话与孤儿清理器.
func BuildCore(ctx context.Context, cfg *configs.AppConfig, opts storage.Options) (*Core, error) {
	mgr, err := storage.Init(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}

	if mgr.S3 == nil {
		_ = mgr.Close()

		return nil, errors.New("object storage is required")
	}

	store := dbc.NewStore(mgr.DB)
	logger := log.Component("vault")

	vaultOpts := []service.VaultOption{
		service.WithOrphanStore(store),
		service.WithLogger(logger),
	}

	if pub := eventPublisher(mgr, cfg.Events); pub != nil {
		vaultOpts = append(vaultOpts, service.WithEventPublisher(pub))
	}

	sweeperLogger := log.Component("orphan-sweeper")

	return &Core{
		Manager:  mgr,
		Store:    store,
		Vault:    service.NewVaultFromConfig(store, mgr.S3, cfg.Vault, vaultOpts...),
		Accounts: service.NewAccounts(store, cfg.Auth.BcryptCost),
		Sessions: service.NewSessionManager(cache.NewCache(mgr.KV, cache.WithPrefix(SessionPrefix)), cfg.Auth),
		Sweeper: service.NewOrphanSweeper(store, mgr.S3, service.SweeperOptions{
			Batch:       cfg.Vault.OrphanBatch,
			MaxAttempts: cfg.Vault.OrphanMaxAttempts,
			BlobTimeout: cfg.Vault.BlobTimeout,
			Breaker:     cfg.Vault.BlobBreaker,
			Logger:      &sweeperLogger,
		}),
	}, nil
}

// eventPublisher 按配置过滤主题，未启用 MQ 或事件关闭时返回 nil.
func eventPublisher(mgr *storage.Manager, cfg configs.EventsConfig) message.Publisher {
	if mgr.MQ == nil {
		return nil
	}

	topics := queue.EnabledTopics(cfg)
	if len(topics) == 0 {
		return nil
	}

	return queue.NewFilterPublisher(mgr.MQ, topics...)
}

// Close 等待后台清理结束后关闭存储.
func (c *Core) Close() error {
	c.Vault.Wait()

	return c.Manager.Close()
}
