package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryRunsImmediatelyAndRepeats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		Every(ctx, 5*time.Millisecond, 0, "test", func(context.Context) error {
			if runs.Add(1) == 3 {
				cancel()
			}
			return errors.New("keeps going")
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Every did not return after cancel")
	}
	assert.Equal(t, int32(3), runs.Load())
}

func TestEveryAppliesRunTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sawDeadline atomic.Bool
	Every(ctx, time.Hour, 50*time.Millisecond, "test", func(runCtx context.Context) error {
		_, ok := runCtx.Deadline()
		sawDeadline.Store(ok)
		cancel()
		return nil
	})
	require.True(t, sawDeadline.Load())
}

func TestEveryCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	Every(ctx, time.Millisecond, 0, "test", func(context.Context) error {
		called = true
		return nil
	})
	assert.False(t, called)
}
