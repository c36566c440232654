package codec

import (
	"context"

	"github.com/nabbar/arkive/arkerr"
)

// Adapter is the shared callback state the codec library's open/read/write/
// close/seek/skip callbacks consult (spec.md §4.3, §9 "Callback state for
// the codec library"). A callback must check Failed() before doing any
// work, and must call Fail() on the first error it observes; later
// callbacks then short-circuit, implementing first-error-wins (spec.md §7).
type Adapter struct {
	ctx    context.Context
	sticky arkerr.Sticky
}

// NewAdapter creates an Adapter bound to ctx. Cancellation of ctx is
// observed by Failed()/CheckCancel() at every suspension point (spec.md §5).
func NewAdapter(ctx context.Context) *Adapter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Adapter{ctx: ctx}
}

// Failed reports whether a sticky error was recorded, or the context was
// cancelled.
func (a *Adapter) Failed() bool {
	if a.sticky.IsSet() {
		return true
	}
	return a.ctx.Err() != nil
}

// Err returns the first recorded failure: the sticky error if set,
// otherwise a Cancelled error if the context is done, otherwise nil.
func (a *Adapter) Err() error {
	if a.sticky.IsSet() {
		return a.sticky.Err()
	}
	if a.ctx.Err() != nil {
		return arkerr.New(arkerr.KindCancelled, "", a.ctx.Err())
	}
	return nil
}

// Fail records err as the sticky error (first call wins).
func (a *Adapter) Fail(err error) {
	a.sticky.Set(err)
}

// CheckCancel returns a Cancelled error if ctx is done, else nil. Call this
// at every codec read/write block and filesystem I/O suspension point
// (spec.md §5).
func (a *Adapter) CheckCancel() error {
	select {
	case <-a.ctx.Done():
		return arkerr.New(arkerr.KindCancelled, "", a.ctx.Err())
	default:
		return nil
	}
}

// Context returns the bound context.
func (a *Adapter) Context() context.Context {
	return a.ctx
}
