package async

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/semrel/pkg/utils/errutil"
)

// Runner executes handlers in the background one at a time. Releases mutate the same
// working tree, so two dispatched handlers never overlap.
type Runner struct {
	mu      sync.Mutex
	wg      sync.WaitGroup
	pending atomic.Int64
}

// NewRunner creates a new Runner
func NewRunner() *Runner {
	return &Runner{}
}

// Dispatch executes a handler function asynchronously with proper context and panic recovery
//
// Parameters:
//   - ctx: Original context (values will be preserved, but cancellation won't affect the async handler)
//   - handler: Function to execute asynchronously
//
// Behavior:
//   - Creates a new background context with preserved logger
//   - Waits until previously dispatched handlers have finished
//   - Recovers from panics and logs them
//   - Reports errors returned by handler
func (r *Runner) Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	newCtx := newBackgroundContext(ctx)

	r.wg.Add(1)
	r.pending.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.pending.Add(-1)

		r.mu.Lock()
		defer r.mu.Unlock()

		defer func() {
			if rec := recover(); rec != nil {
				stack := debug.Stack()
				logger := ctxlog.From(newCtx)
				logger.Error("panic in async handler",
					"recover", rec,
					"stack", string(stack))
			}
		}()

		if err := handler(newCtx); err != nil {
			errutil.Handle(newCtx, "error in async handler", err)
		}
	}()
}

// Do runs handler on the calling goroutine, waiting until no dispatched handler is running.
// It shares the lane with Dispatch, so a synchronous run never overlaps a background one.
func (r *Runner) Do(ctx context.Context, handler func(ctx context.Context) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return handler(ctx)
}

// Pending returns the number of dispatched handlers that have not returned yet
func (r *Runner) Pending() int {
	return int(r.pending.Load())
}

// Wait blocks until every dispatched handler has returned
func (r *Runner) Wait() {
	r.wg.Wait()
}

// newBackgroundContext creates a new background context preserving important values
//
// Preserved values:
//   - ctxlog logger
//
// Returns: New context.Background() with preserved values
func newBackgroundContext(ctx context.Context) context.Context {
	newCtx := context.Background()
	newCtx = ctxlog.With(newCtx, ctxlog.From(ctx))
	return newCtx
}
