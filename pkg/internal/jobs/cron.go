// Package jobs 注册文件库的后台定时任务.
package jobs

import (
	"context"
	"errors"

	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/service"
	"github.com/yeisme/filevault/pkg/scheduler"
)

// RegisterCronJobs 注册孤儿对象清理任务，周期由 vault.orphan_sweep_cron 决定.
func RegisterCronJobs(ctx context.Context, sched *scheduler.Scheduler, sweeper *service.OrphanSweeper, cfg configs.VaultConfig) error {
	if sched == nil {
		return errors.New("scheduler is nil")
	}

	if sweeper == nil {
		return errors.New("orphan sweeper is nil")
	}

	return sched.AddCron(ctx, JobOrphanSweep, cfg.OrphanSweepCron, func(ctx context.Context) error {
		_, err := sweeper.Sweep(ctx)

		return err
	})
}
