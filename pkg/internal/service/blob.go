package service

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/yeisme/filevault/pkg/breaker"
	"github.com/yeisme/filevault/pkg/metrics"
)

// guardedBlob 给对象存储调用加上超时、熔断与指标.
type guardedBlob struct {
	store   BlobStore
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
}

func (g *guardedBlob) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()

	var err error
	if g.cb != nil {
		_, err = g.cb.Execute(func() (any, error) {
			return nil, fn(ctx)
		})
	} else {
		err = fn(ctx)
	}

	metrics.BlobDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	result := "ok"

	switch {
	case err == nil:
	case breaker.IsOpen(err):
		result = "rejected"
	default:
		result = "error"
	}

	metrics.BlobOperations.WithLabelValues(op, result).Inc()

	return err
}

func (g *guardedBlob) upload(ctx context.Context, in BlobUpload) (BlobObject, error) {
	var obj BlobObject

	err := g.call(ctx, "upload", func(ctx context.Context) error {
		var err error

		obj, err = g.store.Upload(ctx, in)

		return err
	})

	return obj, err
}

func (g *guardedBlob) delete(ctx context.Context, storedID string) error {
	return g.call(ctx, "delete", func(ctx context.Context) error {
		return g.store.Delete(ctx, storedID)
	})
}
