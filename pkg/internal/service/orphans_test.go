package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/filevault/pkg/internal/model"
	"github.com/yeisme/filevault/pkg/internal/service"
)

func TestOrphanSweep(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	a := f.upload(t, alice, nil, "a.txt")
	b := f.upload(t, alice, nil, "b.txt")

	f.blob.failAll = true

	for _, file := range []*model.File{a, b} {
		_, err := f.vault.DeleteFile(ctx, alice, file.ID)
		require.NoError(t, err)
	}

	require.Equal(t, 2, f.store.orphanCount())

	sweeper := service.NewOrphanSweeper(f.store, f.blob, service.SweeperOptions{
		Batch:       10,
		MaxAttempts: 2,
		BlobTimeout: time.Second,
	})

	// 对象存储仍不可用：记录尝试次数
	res, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.SweepResult{Scanned: 2, Failed: 2}, res)

	// 恢复后只清理 b，a 单独再失败一次后超过上限
	f.blob.failAll = false
	f.blob.failDeletes[a.StoredID] = true

	res, err = sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.SweepResult{Scanned: 2, Resolved: 1, Failed: 1}, res)
	assert.Equal(t, 1, f.blob.objectCount())

	res, err = sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Scanned)

	listed, err := sweeper.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, a.StoredID, listed[0].StoredID)
	assert.Equal(t, 2, listed[0].Attempts)
}
