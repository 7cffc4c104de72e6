package xtesting

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// UniqueName returns a unique name with the given prefix.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}

var counters sync.Map // map[string]*atomic.Uint64

// SequentialName returns a name with the given prefix that is unique within
// the current process.
func SequentialName(prefix string) string {
	v, ok := counters.Load(prefix)
	if !ok {
		v, _ = counters.LoadOrStore(prefix, &atomic.Uint64{})
	}

	counter := v.(*atomic.Uint64)
	return fmt.Sprintf("%s-%d", prefix, counter.Add(1))
}
