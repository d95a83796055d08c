// Package async runs work that must outlive the request that started it.
package async

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Group tracks dispatched handlers so that shutdown can wait for them.
// The zero value is ready to use.
type Group struct {
	wg sync.WaitGroup
}

// Dispatch runs handler in a new goroutine with a background context that
// keeps the ctxlog logger of ctx but not its cancellation. Panics and errors
// are logged with the task name and reported to sentry.
func (g *Group) Dispatch(ctx context.Context, task string, handler func(ctx context.Context) error) {
	newCtx := newBackgroundContext(ctx, task)

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				ctxlog.From(newCtx).Error("panic in async handler",
					"recover", r,
					"stack", string(debug.Stack()))
				sentry.CurrentHub().Clone().Recover(r)
			}
		}()

		if err := handler(newCtx); err != nil {
			ctxlog.From(newCtx).Error("error in async handler", "error", err)
			sentry.CurrentHub().Clone().CaptureException(err)
		}
	}()
}

// Wait blocks until every dispatched handler returned or ctx is done
func (g *Group) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return goerr.Wrap(ctx.Err(), "async handlers did not finish")
	}
}

// WaitTimeout is Wait with a deadline of d from now
func (g *Group) WaitTimeout(d time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return g.Wait(ctx)
}

func newBackgroundContext(ctx context.Context, task string) context.Context {
	logger := ctxlog.From(ctx).With("task", task)
	return ctxlog.With(context.Background(), logger)
}
