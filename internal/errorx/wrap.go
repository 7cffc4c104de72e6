package errorx

import (
	"context"
	"errors"
	"fmt"
)

// Wrap adds additional context to an error.
//
// Context cancellation errors are left unchanged.
func Wrap(err *error, format string, args ...any) {
	if err == nil {
		panic("err must not be nil")
	}

	if *err == nil {
		return
	}

	if errors.Is(*err, context.Canceled) || errors.Is(*err, context.DeadlineExceeded) {
		return
	}

	*err = fmt.Errorf(format+": %w", append(args, *err)...)
}
