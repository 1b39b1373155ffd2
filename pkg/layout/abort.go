package layout

import (
	"sync/atomic"

	"github.com/matzehuels/raggedblocks/pkg/errors"
)

// ErrAborted is returned by layout entry points when an AbortToken fires.
// It is a normal result, not an invariant violation: the work simply stops at
// the next checkpoint and the partially built state is discarded.
var ErrAborted = errors.New(errors.ErrCodeAborted, "layout aborted")

// AbortToken requests cooperative cancellation of a running layout. The core
// is single-threaded, so the token exists to let an external driver (another
// goroutine, a signal handler) stop long loops: line stacking and outline
// simplification poll it between iterations.
type AbortToken struct {
	aborted atomic.Bool
}

// Abort requests cancellation. Safe to call from any goroutine, repeatedly.
func (t *AbortToken) Abort() {
	if t != nil {
		t.aborted.Store(true)
	}
}

// Aborted reports whether cancellation was requested. A nil token never
// aborts.
func (t *AbortToken) Aborted() bool {
	return t != nil && t.aborted.Load()
}
