package xtesting

import (
	"context"
	"testing"
	"time"
)

// ContextForCleanup returns a context for use in cleanup functions that run
// after the test's own context has been canceled.
//
// The returned context is canceled a few seconds after the test ends.
func ContextForCleanup(t testing.TB) context.Context {
	t.Helper()

	const grace = 3 * time.Second

	ctx, cancel := context.WithCancelCause(context.Background())
	done := make(chan struct{})

	t.Cleanup(func() {
		close(done)
	})

	wait := func() {
		timer := time.NewTimer(grace)
		defer timer.Stop()

		select {
		case <-timer.C:
			cancel(context.DeadlineExceeded)
		case <-done:
			cancel(t.Context().Err())
		}
	}

	if t.Context().Err() == nil {
		t.Cleanup(wait)
	} else {
		go wait()
	}

	return ctx
}
