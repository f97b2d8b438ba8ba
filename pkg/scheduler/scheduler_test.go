package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/filevault/pkg/scheduler"
)

func TestRunNowRecordsStatus(t *testing.T) {
	sched, err := scheduler.NewScheduler()
	require.NoError(t, err)

	sched.Start()
	defer func() { _ = sched.Shutdown() }()

	var calls atomic.Int32

	require.NoError(t, sched.AddCron(context.Background(), "ok", "0 3 * * *", func(context.Context) error {
		calls.Add(1)

		return nil
	}))
	require.NoError(t, sched.AddCron(context.Background(), "broken", "0 3 * * *", func(context.Context) error {
		return errors.New("boom")
	}))

	require.Error(t, sched.AddCron(context.Background(), "ok", "0 3 * * *", nil))

	require.NoError(t, sched.RunNow("ok"))
	require.NoError(t, sched.RunNow("broken"))

	require.Eventually(t, func() bool {
		info, err := sched.GetJobInfoByName("broken")

		return err == nil && info.Status == scheduler.StatusError
	}, 3*time.Second, 20*time.Millisecond)

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 3*time.Second, 20*time.Millisecond)

	info, err := sched.GetJobInfoByName("ok")
	require.NoError(t, err)
	assert.False(t, info.NextRun.IsZero())

	infos := sched.GetJobInfos()
	require.Len(t, infos, 2)
	assert.Equal(t, "broken", infos[0].Name)
	assert.Equal(t, "boom", infos[0].Error)

	require.NoError(t, sched.RemoveJobByName("broken"))
	assert.ErrorIs(t, sched.RunNow("broken"), scheduler.ErrJobNotFound)
}

func TestInvalidCron(t *testing.T) {
	sched, err := scheduler.NewScheduler()
	require.NoError(t, err)

	defer func() { _ = sched.Shutdown() }()

	assert.Error(t, sched.AddCron(context.Background(), "bad", "not a cron", func(context.Context) error { return nil }))
}
