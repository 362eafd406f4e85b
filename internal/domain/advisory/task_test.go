package advisory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskResolves(t *testing.T) {
	release := make(chan struct{})
	var observed int

	task := Go(context.Background(), -1, func(context.Context) (int, error) {
		<-release
		return 42, nil
	}, func(v int, err error) {
		observed = v
	})

	assert.True(t, task.Busy())
	assert.Equal(t, TaskPending, task.State())
	assert.Equal(t, -1, task.Result())

	close(release)
	v, err := task.Wait(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 42, v)
	assert.Equal(t, 42, observed)
	assert.False(t, task.Busy())
	assert.Equal(t, TaskResolved, task.State())
}

func TestTaskFailureYieldsFallback(t *testing.T) {
	task := Go(context.Background(), "fallback", func(context.Context) (string, error) {
		return "partial", errors.New("boom")
	}, nil)

	v, err := task.Wait(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "fallback", v)
	assert.Equal(t, TaskFailed, task.State())
	assert.EqualError(t, task.Err(), "boom")
}

func TestTaskPanicIsFailure(t *testing.T) {
	task := Go(context.Background(), 0, func(context.Context) (int, error) {
		panic("bad")
	}, nil)

	<-task.Done()
	assert.Equal(t, TaskFailed, task.State())
	assert.Equal(t, 0, task.Result())
}

func TestTaskSurvivesCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})

	task := Go(ctx, 0, func(runCtx context.Context) (int, error) {
		<-release
		return 7, runCtx.Err()
	}, nil)

	cancel()
	waitCtx, waitCancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer waitCancel()
	_, err := task.Wait(waitCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	<-task.Done()
	assert.Equal(t, TaskResolved, task.State())
	assert.Equal(t, 7, task.Result())
}
