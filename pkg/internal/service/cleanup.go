package service

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yeisme/filevault/pkg/internal/model"
)

// BlobFailure 一个删除失败的对象.
type BlobFailure struct {
	FileID   uint   `json:"file_id"`
	StoredID string `json:"-"`
	Error    string `json:"error"`
}

// CleanupReport 对象清理结果.
type CleanupReport struct {
	Attempted int           `json:"attempted"`
	Deleted   int           `json:"deleted"`
	Failed    []BlobFailure `json:"failed"`
	// Pending 为 true 表示清理在后台进行，结果只写入孤儿日志
	Pending bool `json:"pending"`
}

// DeleteResult 删除操作结果.
type DeleteResult struct {
	Report CleanupReport `json:"report"`
}

// cleanupBlobs 为每个文件删除一次对象.
// 使用脱离请求取消的上下文，客户端断开不会中断清理.
func (v *Vault) cleanupBlobs(ctx context.Context, ownerID uint, files []model.File, reason string) CleanupReport {
	ctx = context.WithoutCancel(ctx)

	report := CleanupReport{Attempted: len(files), Failed: []BlobFailure{}}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)

	g.SetLimit(v.concurrency)

	for _, f := range files {
		g.Go(func() error {
			err := v.blob.delete(ctx, f.StoredID)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				report.Failed = append(report.Failed, BlobFailure{FileID: f.ID, StoredID: f.StoredID, Error: err.Error()})
			} else {
				report.Deleted++
			}

			return nil
		})
	}

	_ = g.Wait()

	sort.Slice(report.Failed, func(i, j int) bool { return report.Failed[i].FileID < report.Failed[j].FileID })

	if len(report.Failed) > 0 {
		v.recordOrphans(ctx, ownerID, reason, report.Failed)
	}

	return report
}
