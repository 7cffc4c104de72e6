package xtelemetry

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

var handleCounter atomic.Uint64

// HandleID returns a unique identifier for an open column.
//
// The counter component makes handles easy to tell apart in logs. The UUID
// component correlates them across processes.
func HandleID() string {
	return fmt.Sprintf(
		"#%d %s",
		handleCounter.Add(1),
		uuid.NewString(),
	)
}
