package workerpool_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/appaccess/pkg/workerpool"
)

func TestPool_RunsQueuedTasksBeforeShutdownReturns(t *testing.T) {
	pool := workerpool.New(2, 100)

	var count atomic.Int64
	for i := 0; i < 50; i++ {
		require.NoError(t, pool.Submit(func() { count.Add(1) }))
	}
	pool.Shutdown()

	assert.Equal(t, int64(50), count.Load())
}

func TestPool_ErrPoolFull(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	pool := workerpool.New(1, 0)

	require.Eventually(t, func() bool {
		return pool.Submit(func() { close(started); <-block }) == nil
	}, time.Second, 5*time.Millisecond)
	<-started

	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolFull)

	close(block)
	pool.Shutdown()
}

func TestPool_ErrPoolClosed(t *testing.T) {
	pool := workerpool.New(1, 1)
	pool.Shutdown()
	pool.Shutdown()

	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolClosed)
}

func TestPool_RecoversPanics(t *testing.T) {
	var recovered atomic.Value
	pool := workerpool.New(1, 2, workerpool.OnPanic(func(r any) { recovered.Store(r) }))

	require.NoError(t, pool.Submit(func() { panic("bad task") }))
	var ran atomic.Bool
	require.NoError(t, pool.Submit(func() { ran.Store(true) }))
	pool.Shutdown()

	assert.Equal(t, "bad task", recovered.Load())
	assert.True(t, ran.Load())
}
