// Package jobs runs deferred side effects and the periodic cleanup tasks.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"connectibles/internal/observability"
)

// Task is a unit of deferred work.
type Task func(ctx context.Context) error

// Dispatcher runs tasks after the caller has returned. Failures are logged,
// never retried and never reported back to the caller.
type Dispatcher interface {
	Go(name string, task Task)
}

// AsyncDispatcher runs each task on its own goroutine with a detached,
// time-limited context.
type AsyncDispatcher struct {
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsyncDispatcher(timeout time.Duration) *AsyncDispatcher {
	return &AsyncDispatcher{timeout: timeout}
}

func (d *AsyncDispatcher) Go(name string, task Task) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		run(ctx, name, task)
	}()
}

// Wait blocks until in-flight tasks finish or ctx is done.
func (d *AsyncDispatcher) Wait(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Warn().Msg("deferred tasks still running at shutdown")
	}
}

// SyncDispatcher runs tasks inline. Tests use it to observe side effects.
type SyncDispatcher struct{}

func (SyncDispatcher) Go(name string, task Task) {
	run(context.Background(), name, task)
}

func run(ctx context.Context, name string, task Task) {
	defer func() {
		if r := recover(); r != nil {
			observability.IncDeferredTask(name, "panic")
			log.Error().Str("task", name).Interface("panic", r).Msg("deferred task panicked")
		}
	}()
	if err := task(ctx); err != nil {
		observability.IncDeferredTask(name, "error")
		log.Error().Err(err).Str("task", name).Msg("deferred task failed")
		return
	}
	observability.IncDeferredTask(name, "ok")
}
