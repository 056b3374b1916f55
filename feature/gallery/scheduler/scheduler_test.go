package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"gallery-manager/feature/gallery/reconcile"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingRunner struct {
	runs int64
	err  error
}

func (r *countingRunner) Run(ctx context.Context) (reconcile.Summary, error) {
	atomic.AddInt64(&r.runs, 1)
	return reconcile.Summary{}, r.err
}

func (r *countingRunner) count() int64 {
	return atomic.LoadInt64(&r.runs)
}

func TestScheduler_RunsOnTick(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, time.Minute, zap.NewNop())

	ticks := make(chan time.Time)
	s.newTicker = func(time.Duration) (<-chan time.Time, func()) {
		return ticks, func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	ticks <- time.Now()
	ticks <- time.Now()

	assert.Eventually(t, func() bool { return runner.count() == 2 },
		time.Second, 10*time.Millisecond)
}

func TestScheduler_KeepsRunningAfterFailure(t *testing.T) {
	runner := &countingRunner{err: errors.New("listing failed")}
	s := New(runner, time.Minute, zap.NewNop())

	ticks := make(chan time.Time)
	s.newTicker = func(time.Duration) (<-chan time.Time, func()) {
		return ticks, func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	ticks <- time.Now()
	ticks <- time.Now()

	assert.Eventually(t, func() bool { return runner.count() == 2 },
		time.Second, 10*time.Millisecond)
}

func TestScheduler_DisabledInterval(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, 0, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 0, runner.count())
}
