package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingTask struct {
	calls atomic.Int32
	err   error
}

func (c *countingTask) task(name string) Task {
	return Task{
		Name: name,
		Run: func(ctx context.Context) (int64, error) {
			c.calls.Add(1)
			if c.err != nil {
				return 0, c.err
			}
			return 2, nil
		},
	}
}

func TestCleanupJob_Cleanup(t *testing.T) {
	failing := &countingTask{err: errors.New("boom")}
	healthy := &countingTask{}

	job := NewCleanupJob(time.Hour, time.Second, failing.task("failing"), healthy.task("healthy"))
	job.cleanup()

	assert.Equal(t, int32(1), failing.calls.Load())
	assert.Equal(t, int32(1), healthy.calls.Load(), "a failing task does not stop the rest")
}

func TestCleanupJob_Cleanup_PassesDeadline(t *testing.T) {
	var hasDeadline bool
	job := NewCleanupJob(time.Hour, time.Second, Task{
		Name: "deadline",
		Run: func(ctx context.Context) (int64, error) {
			_, hasDeadline = ctx.Deadline()
			return 0, nil
		},
	})

	job.cleanup()
	assert.True(t, hasDeadline)
}

func TestCleanupJob_StartStop(t *testing.T) {
	task := &countingTask{}
	job := NewCleanupJob(5*time.Millisecond, time.Second, task.task("ticking"))

	job.Start()
	assert.Eventually(t, func() bool { return task.calls.Load() >= 2 }, time.Second, time.Millisecond)
	job.Stop()

	after := task.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, task.calls.Load(), "no sweeps after Stop")
}
