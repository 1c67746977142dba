package modules

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWorker(t *testing.T) {
	t.Parallel()

	m := initNewModule("worker test", nil, nil, nil)

	assert.NoError(t, m.RunWorker("ok", func(ctx context.Context) error { return nil }))
	assert.ErrorIs(t, m.RunWorker("fail", func(ctx context.Context) error { return errTest }), errTest)

	err := m.RunWorker("panic", func(ctx context.Context) error {
		var a []byte
		_ = a[0]
		return nil
	})
	panicked, me := IsPanic(err)
	require.True(t, panicked, "got %v", err)
	assert.Equal(t, "worker", me.TaskType)
	assert.NotEmpty(t, me.StackTrace)
	assert.Equal(t, int32(0), m.workers.Load())
}

func TestServiceWorkerRestarts(t *testing.T) {
	t.Parallel()

	m := initNewModule("service worker test", nil, nil, nil)

	runs := 0
	done := make(chan struct{})
	m.StartServiceWorker("flaky", time.Millisecond, func(ctx context.Context) error {
		runs++
		if runs < 3 {
			return errTest
		}
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("service worker was not restarted")
	}
	assert.Equal(t, 3, runs)

	require.NoError(t, m.stopWithTimeout(time.Second, time.Second))
}

func TestServiceWorkerStopsWithModule(t *testing.T) {
	t.Parallel()

	m := initNewModule("canceled worker test", nil, nil, nil)
	m.StartServiceWorker("blocking", 0, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	require.NoError(t, m.stopWithTimeout(time.Second, time.Second))
	assert.True(t, m.IsStopping())
}
