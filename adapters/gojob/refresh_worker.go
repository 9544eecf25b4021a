package gojob

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-easyjob/core"
)

const defaultIdleDelay = time.Second

// RefreshWorker pulls refresh jobs from a dequeuer and hands them to a
// delivery handler, reporting each run to an optional hook.
type RefreshWorker struct {
	dequeuer  core.JobDequeuer
	handler   core.JobDeliveryHandler
	hook      core.JobWorkerHook
	idleDelay time.Duration
	now       func() time.Time
}

type WorkerOption func(*RefreshWorker)

func WithWorkerHook(hook core.JobWorkerHook) WorkerOption {
	return func(w *RefreshWorker) {
		w.hook = hook
	}
}

// WithIdleDelay sets the pause after an empty or failed dequeue.
func WithIdleDelay(delay time.Duration) WorkerOption {
	return func(w *RefreshWorker) {
		if delay > 0 {
			w.idleDelay = delay
		}
	}
}

func NewRefreshWorker(dequeuer core.JobDequeuer, handler core.JobDeliveryHandler, opts ...WorkerOption) *RefreshWorker {
	w := &RefreshWorker{
		dequeuer:  dequeuer,
		handler:   handler,
		idleDelay: defaultIdleDelay,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// RunOnce processes at most one delivery. It reports false when the
// dequeuer had nothing to hand out.
func (w *RefreshWorker) RunOnce(ctx context.Context) (bool, error) {
	if w == nil || w.dequeuer == nil || w.handler == nil {
		return false, fmt.Errorf("gojob: refresh worker is not configured")
	}
	delivery, err := w.dequeuer.Dequeue(ctx)
	if err != nil {
		return false, err
	}
	if delivery == nil {
		return false, nil
	}

	event := core.JobWorkerEvent{Message: delivery.Message(), StartedAt: w.now()}
	if w.hook != nil {
		w.hook.OnStart(ctx, event)
	}
	err = w.handler.Handle(ctx, delivery)
	event.Duration = w.now().Sub(event.StartedAt)
	event.Err = err
	if w.hook != nil {
		if err != nil {
			w.hook.OnFailure(ctx, event)
		} else {
			w.hook.OnSuccess(ctx, event)
		}
	}
	return true, err
}

// Run loops until ctx is done. Handler errors are reported through the
// hook and do not stop the loop.
func (w *RefreshWorker) Run(ctx context.Context) error {
	if w == nil || w.dequeuer == nil || w.handler == nil {
		return fmt.Errorf("gojob: refresh worker is not configured")
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		processed, err := w.RunOnce(ctx)
		if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return err
		}
		if processed && err == nil {
			continue
		}
		timer := time.NewTimer(w.idleDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
