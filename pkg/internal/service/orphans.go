package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/yeisme/filevault/pkg/breaker"
	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/model"
	nlog "github.com/yeisme/filevault/pkg/log"
	"github.com/yeisme/filevault/pkg/metrics"
)

// SweeperOptions 孤儿清理参数.
type SweeperOptions struct {
	Batch       int
	MaxAttempts int
	BlobTimeout time.Duration
	Breaker     configs.CircuitBreakerConfig
	Logger      *zerolog.Logger
}

// SweepResult 一轮清理的结果.
type SweepResult struct {
	Scanned  int `json:"scanned"`
	Resolved int `json:"resolved"`
	Failed   int `json:"failed"`
}

// OrphanSweeper 重试删除清理失败的对象.
type OrphanSweeper struct {
	store       OrphanStore
	blob        *guardedBlob
	batch       int
	maxAttempts int
	logger      zerolog.Logger
}

// NewOrphanSweeper 创建清理器.
func NewOrphanSweeper(store OrphanStore, blob BlobStore, opts SweeperOptions) *OrphanSweeper {
	s := &OrphanSweeper{
		store:       store,
		blob:        &guardedBlob{store: blob, timeout: opts.BlobTimeout},
		batch:       opts.Batch,
		maxAttempts: opts.MaxAttempts,
	}

	if s.blob.timeout <= 0 {
		s.blob.timeout = configs.DefaultBlobTimeout
	}

	if s.batch <= 0 {
		s.batch = configs.DefaultOrphanBatch
	}

	if s.maxAttempts <= 0 {
		s.maxAttempts = configs.DefaultOrphanMaxAttempts
	}

	if opts.Logger != nil {
		s.logger = *opts.Logger
	} else {
		s.logger = nlog.Component("orphan-sweeper")
	}

	if opts.Breaker.Enabled {
		s.blob.cb = breaker.New("orphan-sweeper", opts.Breaker, &s.logger)
	}

	return s
}

// Sweep 执行一轮清理.
func (s *OrphanSweeper) Sweep(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	orphans, err := s.store.PendingOrphans(ctx, s.batch, s.maxAttempts)
	if err != nil {
		return result, storeErr("load orphans", err)
	}

	result.Scanned = len(orphans)

	for _, o := range orphans {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := s.blob.delete(ctx, o.StoredID); err != nil {
			result.Failed++

			if merr := s.store.MarkOrphanAttempt(ctx, o.ID, err.Error()); merr != nil {
				s.logger.Error().Err(merr).Uint("orphan_id", o.ID).Msg("failed to record sweep attempt")
			}

			continue
		}

		if err := s.store.ResolveOrphan(ctx, o.ID); err != nil {
			s.logger.Error().Err(err).Uint("orphan_id", o.ID).Msg("failed to resolve orphan")

			continue
		}

		result.Resolved++
	}

	if pending, err := s.store.CountPendingOrphans(ctx, s.maxAttempts); err == nil {
		metrics.OrphansPending.Set(float64(pending))
	}

	s.logger.Info().
		Int("scanned", result.Scanned).
		Int("resolved", result.Resolved).
		Int("failed", result.Failed).
		Msg("orphan sweep finished")

	return result, nil
}

// List 列出孤儿记录.
func (s *OrphanSweeper) List(ctx context.Context, limit int) ([]model.OrphanBlob, error) {
	if limit <= 0 {
		limit = s.batch
	}

	orphans, err := s.store.ListOrphans(ctx, limit)
	if err != nil {
		return nil, storeErr("list orphans", err)
	}

	if orphans == nil {
		orphans = []model.OrphanBlob{}
	}

	return orphans, nil
}
