package service

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/yeisme/filevault/pkg/breaker"
	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/model"
	nlog "github.com/yeisme/filevault/pkg/log"
	"github.com/yeisme/filevault/pkg/metrics"
	"github.com/yeisme/filevault/pkg/queue"
)

// Vault 所有权与级联引擎.
// 每个操作都以显式传入的 Identity 为准，所有按用户限定的读写都交给 MetadataStore 在一条语句内完成.
type Vault struct {
	meta    MetadataStore
	blob    *guardedBlob
	orphans OrphanStore
	pub     message.Publisher
	logger  zerolog.Logger

	breakerCfg  *configs.CircuitBreakerConfig
	concurrency int
	async       bool

	wg sync.WaitGroup
}

// VaultOption 配置 Vault.
type VaultOption func(*Vault)

// WithBlobTimeout 设置单次对象存储调用超时.
func WithBlobTimeout(d time.Duration) VaultOption {
	return func(v *Vault) {
		if d > 0 {
			v.blob.timeout = d
		}
	}
}

// WithCleanupConcurrency 设置级联删除时并发删除对象的上限.
func WithCleanupConcurrency(n int) VaultOption {
	return func(v *Vault) {
		if n > 0 {
			v.concurrency = n
		}
	}
}

// WithOrphanStore 记录清理失败的对象，供后台重试.
func WithOrphanStore(o OrphanStore) VaultOption {
	return func(v *Vault) { v.orphans = o }
}

// WithEventPublisher 发布领域事件.
func WithEventPublisher(pub message.Publisher) VaultOption {
	return func(v *Vault) { v.pub = pub }
}

// WithCircuitBreaker 为对象存储调用加上熔断器，cfg.Enabled 为 false 时不生效.
func WithCircuitBreaker(cfg configs.CircuitBreakerConfig) VaultOption {
	return func(v *Vault) {
		if cfg.Enabled {
			v.breakerCfg = &cfg
		}
	}
}

// WithAsyncCleanup 删除文件夹后在后台删除对象.
func WithAsyncCleanup(async bool) VaultOption {
	return func(v *Vault) { v.async = async }
}

// WithLogger 设置 logger.
func WithLogger(l zerolog.Logger) VaultOption {
	return func(v *Vault) { v.logger = l }
}

// NewVault 创建引擎.
func NewVault(meta MetadataStore, blob BlobStore, opts ...VaultOption) *Vault {
	v := &Vault{
		meta:        meta,
		blob:        &guardedBlob{store: blob, timeout: configs.DefaultBlobTimeout},
		logger:      nlog.Component("vault"),
		concurrency: configs.DefaultCleanupConcurrency,
	}

	for _, opt := range opts {
		opt(v)
	}

	if v.breakerCfg != nil {
		v.blob.cb = breaker.New("blob-store", *v.breakerCfg, &v.logger)
	}

	return v
}

// NewVaultFromConfig 按 VaultConfig 创建引擎，extra 中的选项后应用.
func NewVaultFromConfig(meta MetadataStore, blob BlobStore, cfg configs.VaultConfig, extra ...VaultOption) *Vault {
	opts := []VaultOption{
		WithBlobTimeout(cfg.GetBlobTimeout()),
		WithCleanupConcurrency(cfg.CleanupConcurrency),
		WithCircuitBreaker(cfg.BlobBreaker),
		WithAsyncCleanup(cfg.AsyncCleanup),
	}

	return NewVault(meta, blob, append(opts, extra...)...)
}

// Wait 等待后台清理完成.
func (v *Vault) Wait() {
	v.wg.Wait()
}

func (v *Vault) authorize(id Identity) error {
	if !id.Valid() {
		return ErrForbidden
	}

	return nil
}

func (v *Vault) observe(op string, err error) {
	metrics.VaultOperations.WithLabelValues(op, OutcomeOf(err).String()).Inc()
}

// publishEvent 发布失败只记录日志.
func publishEvent[T any](ctx context.Context, v *Vault, topic string, payload T) {
	if v.pub == nil {
		return
	}

	opts := []queue.HeaderOption{queue.WithProducer(configs.AppName)}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		opts = append(opts, queue.WithTraceID(sc.TraceID().String()))
	}

	if err := queue.Publish(v.pub, topic, payload, opts...); err != nil {
		v.logger.Warn().Err(err).Str("topic", topic).Msg("failed to publish event")
	}
}

// recordOrphans 记录清理失败的对象并告警.
func (v *Vault) recordOrphans(ctx context.Context, ownerID uint, reason string, failures []BlobFailure) {
	orphans := make([]model.OrphanBlob, 0, len(failures))

	for _, f := range failures {
		v.logger.Warn().
			Uint("owner_id", ownerID).
			Uint("file_id", f.FileID).
			Str("stored_id", f.StoredID).
			Str("reason", reason).
			Str("error", f.Error).
			Msg("blob cleanup failed")
		metrics.BlobCleanupFailures.WithLabelValues(reason).Inc()

		orphans = append(orphans, model.OrphanBlob{
			StoredID:  f.StoredID,
			OwnerID:   ownerID,
			FileID:    f.FileID,
			Reason:    reason,
			LastError: f.Error,
		})

		publishEvent(ctx, v, queue.TopicBlobOrphaned, queue.BlobOrphanedPayload{
			StoredID: f.StoredID,
			OwnerID:  ownerID,
			FileID:   f.FileID,
			Reason:   reason,
			Error:    f.Error,
		})
	}

	if v.orphans == nil {
		return
	}

	if err := v.orphans.RecordOrphans(ctx, orphans); err != nil {
		v.logger.Error().Err(err).Int("count", len(orphans)).Msg("failed to record orphan blobs")
	}
}
